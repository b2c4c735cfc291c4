package repository

import (
	"context"
	"encoding/json"

	"github.com/kwestra/hexfront/internal/model"
)

// BattleRepository defines battle and turn data operations.
type BattleRepository interface {
	Create(ctx context.Context, name, scenario, blueProfile, redProfile string) (*model.Battle, error)
	FindByID(ctx context.Context, id string) (*model.Battle, error)
	ListRecent(ctx context.Context, limit int) ([]model.Battle, error)
	SetFinished(ctx context.Context, id, winner string, turns int) error
	SaveTurn(ctx context.Context, battleID string, turn int, stateBefore, stateAfter json.RawMessage) error
	TurnsByBattle(ctx context.Context, battleID string) ([]model.BattleTurn, error)
}

// LearningRepository persists AI learning data between battles, keyed by
// profile name. The engine itself never touches this; the turn driver loads
// and saves around each battle.
type LearningRepository interface {
	Save(ctx context.Context, name, archetype string, data json.RawMessage) error
	Load(ctx context.Context, name string) (json.RawMessage, error)
	List(ctx context.Context) ([]model.LearningProfile, error)
}

// LearningCache defines live per-battle AI state operations (Redis).
type LearningCache interface {
	SetLearningData(ctx context.Context, profile string, data json.RawMessage) error
	GetLearningData(ctx context.Context, profile string) (json.RawMessage, error)
	SetBattleStatus(ctx context.Context, battleID string, status json.RawMessage) error
	GetBattleStatus(ctx context.Context, battleID string) (json.RawMessage, error)
	DeleteBattleData(ctx context.Context, battleID string) error
}
