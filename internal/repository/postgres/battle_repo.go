package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kwestra/hexfront/internal/model"
)

// BattleRepo handles battle and battle_turn database operations.
type BattleRepo struct {
	db *sql.DB
}

// NewBattleRepo creates a BattleRepo.
func NewBattleRepo(db *sql.DB) *BattleRepo {
	return &BattleRepo{db: db}
}

// Create inserts a new battle.
func (r *BattleRepo) Create(ctx context.Context, name, scenario, blueProfile, redProfile string) (*model.Battle, error) {
	var b model.Battle
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO battles (name, scenario, blue_profile, red_profile)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, scenario, blue_profile, red_profile, created_at`,
		name, scenario, blueProfile, redProfile,
	).Scan(&b.ID, &b.Name, &b.Scenario, &b.BlueProfile, &b.RedProfile, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create battle: %w", err)
	}
	return &b, nil
}

// FindByID returns a battle by ID, or nil when it does not exist.
func (r *BattleRepo) FindByID(ctx context.Context, id string) (*model.Battle, error) {
	var b model.Battle
	var winner sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, scenario, blue_profile, red_profile, winner, turns, created_at, finished_at
		 FROM battles WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Scenario, &b.BlueProfile, &b.RedProfile, &winner, &b.Turns, &b.CreatedAt, &b.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find battle: %w", err)
	}
	b.Winner = winner.String
	return &b, nil
}

// ListRecent returns the most recently created battles.
func (r *BattleRepo) ListRecent(ctx context.Context, limit int) ([]model.Battle, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, scenario, blue_profile, red_profile, winner, turns, created_at, finished_at
		 FROM battles ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var battles []model.Battle
	for rows.Next() {
		var b model.Battle
		var winner sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.Scenario, &b.BlueProfile, &b.RedProfile, &winner, &b.Turns, &b.CreatedAt, &b.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		b.Winner = winner.String
		battles = append(battles, b)
	}
	return battles, rows.Err()
}

// SetFinished marks a battle as finished and records the winner and turn count.
// An empty winner records a draw.
func (r *BattleRepo) SetFinished(ctx context.Context, id, winner string, turns int) error {
	var w sql.NullString
	if winner != "" {
		w = sql.NullString{String: winner, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE battles SET winner = $2, turns = $3, finished_at = NOW() WHERE id = $1`,
		id, w, turns)
	if err != nil {
		return fmt.Errorf("finish battle: %w", err)
	}
	return nil
}

// SaveTurn inserts one turn's snapshot pair for a battle.
func (r *BattleRepo) SaveTurn(ctx context.Context, battleID string, turn int, stateBefore, stateAfter json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO battle_turns (battle_id, turn, state_before, state_after)
		 VALUES ($1, $2, $3, $4)`,
		battleID, turn, []byte(stateBefore), []byte(stateAfter))
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// TurnsByBattle returns all recorded turns for a battle in turn order.
func (r *BattleRepo) TurnsByBattle(ctx context.Context, battleID string) ([]model.BattleTurn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, battle_id, turn, state_before, state_after, created_at
		 FROM battle_turns WHERE battle_id = $1 ORDER BY turn ASC`, battleID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.BattleTurn
	for rows.Next() {
		var t model.BattleTurn
		var before, after []byte
		if err := rows.Scan(&t.ID, &t.BattleID, &t.Turn, &before, &after, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.StateBefore = json.RawMessage(before)
		t.StateAfter = json.RawMessage(after)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
