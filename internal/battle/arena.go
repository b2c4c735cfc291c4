// Package battle drives AI-vs-AI skirmishes: it owns the turn loop, executes
// the engine's proposals against the battle rules, and feeds results back
// into each controller's learning cycle.
package battle

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/internal/ai"
	"github.com/kwestra/hexfront/internal/repository"
	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// Config configures a single AI-vs-AI battle.
type Config struct {
	Name           string
	Scenario       *wargame.Scenario // nil = meeting engagement
	BlueDifficulty string
	RedDifficulty  string
	MaxTurns       int   // cap before scoring a decision on points
	Seed           int64 // 0 = random
	DryRun         bool  // skip DB and cache writes

	// OnStart, when set, is called with the battle ID once the battle row
	// exists. OnTurn is called after every completed turn with the live
	// state. The server uses both to broadcast to spectators.
	OnStart func(battleID string)
	OnTurn  func(turn int, gs *wargame.GameState)
}

// Result describes the outcome of a completed battle.
type Result struct {
	BattleID    string
	Winner      string // side name or "" for a draw
	Turns       int
	Objectives  map[string]int // side -> objectives held
	RemainingHP map[string]int // side -> total HP at the end
}

// recentWindow bounds how much opponent history the driver retains for the
// counter-tactics analyzer.
const recentWindow = 24

// commandPointIncome is added to each side's pool at the start of its turn.
const commandPointIncome = 3

// Run plays a full battle between two AI controllers, saving snapshots to
// Postgres and live status to Redis. Each side's learning data is restored
// from its difficulty profile at the start and saved back at the end. Pass
// nil repos (or DryRun) to skip persistence.
func Run(
	ctx context.Context,
	cfg Config,
	battleRepo repository.BattleRepository,
	learningRepo repository.LearningRepository,
	cache repository.LearningCache,
) (*Result, error) {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 30
	}
	scenario := cfg.Scenario
	if scenario == nil {
		scenario = wargame.MeetingEngagement()
	}
	gs := scenario.State
	m := scenario.Map

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	controllers := map[wargame.Side]*ai.Controller{
		wargame.Blue: ai.ControllerForDifficulty(wargame.Blue, cfg.BlueDifficulty, seed),
		wargame.Red:  ai.ControllerForDifficulty(wargame.Red, cfg.RedDifficulty, seed+1),
	}
	// Each side's executed actions, seen by the opponent's analyzer.
	history := map[wargame.Side][]ai.ActionRecord{}

	if !cfg.DryRun {
		for _, side := range []wargame.Side{wargame.Blue, wargame.Red} {
			restoreLearning(ctx, learningRepo, cache, profileFor(cfg, side), controllers[side])
		}
	}

	persist := !cfg.DryRun && battleRepo != nil
	var battleID string
	if persist {
		b, err := battleRepo.Create(ctx, cfg.Name, scenario.Name, cfg.BlueDifficulty, cfg.RedDifficulty)
		if err != nil {
			return nil, fmt.Errorf("create battle: %w", err)
		}
		battleID = b.ID
		if cfg.OnStart != nil {
			cfg.OnStart(battleID)
		}
	}

	result := &Result{BattleID: battleID}

	for turn := 1; turn <= cfg.MaxTurns; turn++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		gs.Turn = turn

		stateBefore, err := json.Marshal(gs)
		if err != nil {
			return nil, fmt.Errorf("marshal state before: %w", err)
		}

		for _, side := range []wargame.Side{wargame.Blue, wargame.Red} {
			if winner := playSideTurn(gs, m, side, controllers[side], history, rng); winner != "" {
				result.Winner = string(winner)
				result.Turns = turn
				return finishBattle(ctx, cfg, result, gs, controllers, battleRepo, learningRepo, cache, battleID, persist)
			}
		}

		for _, c := range controllers {
			c.ProcessEndOfTurn(turn, aiContext(gs, m, c.Side(), history))
		}

		if cfg.OnTurn != nil {
			cfg.OnTurn(turn, gs)
		}

		if persist {
			stateAfter, err := json.Marshal(gs)
			if err != nil {
				return nil, fmt.Errorf("marshal state after: %w", err)
			}
			if err := battleRepo.SaveTurn(ctx, battleID, turn, stateBefore, stateAfter); err != nil {
				return nil, fmt.Errorf("save turn: %w", err)
			}
			if cache != nil {
				status, _ := json.Marshal(map[string]any{
					"turn":   turn,
					"blue":   controllers[wargame.Blue].Status(),
					"red":    controllers[wargame.Red].Status(),
					"blueHp": gs.TotalHP(wargame.Blue),
					"redHp":  gs.TotalHP(wargame.Red),
				})
				if err := cache.SetBattleStatus(ctx, battleID, status); err != nil {
					log.Warn().Err(err).Str("battleId", battleID).Msg("Failed to cache battle status")
				}
				for _, side := range []wargame.Side{wargame.Blue, wargame.Red} {
					profile := profileFor(cfg, side)
					data, err := json.Marshal(controllers[side].LearningData())
					if err != nil {
						continue
					}
					if err := cache.SetLearningData(ctx, profile, data); err != nil {
						log.Warn().Err(err).Str("profile", profile).Msg("Failed to cache learning data")
					}
				}
			}
		}
	}

	// Turn cap reached: score on objectives, then remaining strength.
	result.Turns = cfg.MaxTurns
	result.Winner = string(winnerOnPoints(gs))
	return finishBattle(ctx, cfg, result, gs, controllers, battleRepo, learningRepo, cache, battleID, persist)
}

// profileFor names the persistent learning profile for one side. Profiles
// pool per difficulty tier, so every battle at a tier trains the same data.
func profileFor(cfg Config, side wargame.Side) string {
	if side == wargame.Blue {
		return cfg.BlueDifficulty
	}
	return cfg.RedDifficulty
}

// restoreLearning seeds a controller with its profile's persisted learning
// data, preferring the live cache over the durable store. Missing or corrupt
// data means the controller starts fresh.
func restoreLearning(
	ctx context.Context,
	repo repository.LearningRepository,
	cache repository.LearningCache,
	profile string,
	ctrl *ai.Controller,
) {
	var raw json.RawMessage
	if cache != nil {
		raw, _ = cache.GetLearningData(ctx, profile)
	}
	if raw == nil && repo != nil {
		var err error
		raw, err = repo.Load(ctx, profile)
		if err != nil {
			log.Warn().Err(err).Str("profile", profile).Msg("Failed to load learning profile")
			return
		}
	}
	if raw == nil {
		return
	}

	var data ai.LearningData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn().Err(err).Str("profile", profile).Msg("Corrupt learning profile, starting fresh")
		return
	}
	ctrl.RestoreLearningData(data)
}

// playSideTurn runs one side's movement and action phases. Returns the
// winning side when the opponent is wiped out, "" otherwise.
func playSideTurn(
	gs *wargame.GameState,
	m *hexmap.Map,
	side wargame.Side,
	ctrl *ai.Controller,
	history map[wargame.Side][]ai.ActionRecord,
	rng *rand.Rand,
) wargame.Side {
	gs.ActiveSide = side
	gs.CommandPoints[side] += commandPointIncome
	resetTurnFlags(gs, side)

	for _, phase := range []wargame.PhaseType{wargame.PhaseMovement, wargame.PhaseAction} {
		gs.Phase = phase

		props := ctrl.Decide(aiContext(gs, m, side, history))
		results, records := executeProposals(gs, m, props, rng)
		ctrl.ProcessActionResults(props, results)

		history[side] = appendWindow(history[side], records)
	}

	claimObjectives(gs)

	if gs.UnitCount(side.Opponent()) == 0 {
		return side
	}
	return ""
}

func finishBattle(
	ctx context.Context,
	cfg Config,
	result *Result,
	gs *wargame.GameState,
	controllers map[wargame.Side]*ai.Controller,
	battleRepo repository.BattleRepository,
	learningRepo repository.LearningRepository,
	cache repository.LearningCache,
	battleID string,
	persist bool,
) (*Result, error) {
	result.Objectives = map[string]int{
		string(wargame.Blue): gs.ObjectivesHeld(wargame.Blue),
		string(wargame.Red):  gs.ObjectivesHeld(wargame.Red),
	}
	result.RemainingHP = map[string]int{
		string(wargame.Blue): gs.TotalHP(wargame.Blue),
		string(wargame.Red):  gs.TotalHP(wargame.Red),
	}

	for side, c := range controllers {
		outcome := ai.OutcomeDraw
		switch result.Winner {
		case string(side):
			outcome = ai.OutcomeVictory
		case string(side.Opponent()):
			outcome = ai.OutcomeDefeat
		}
		c.ProcessBattleEnd(aiContext(gs, nil, side, nil), outcome)
	}

	if persist {
		if err := battleRepo.SetFinished(ctx, battleID, result.Winner, result.Turns); err != nil {
			return nil, fmt.Errorf("set finished: %w", err)
		}
		if cache != nil {
			if err := cache.DeleteBattleData(ctx, battleID); err != nil {
				log.Warn().Err(err).Str("battleId", battleID).Msg("Failed to clear battle cache")
			}
		}
	}

	// Save each profile's learning data, including the battle-end summary
	// recorded above, so the next battle at this tier picks it up.
	if !cfg.DryRun && learningRepo != nil {
		for _, side := range []wargame.Side{wargame.Blue, wargame.Red} {
			profile := profileFor(cfg, side)
			data, err := json.Marshal(controllers[side].LearningData())
			if err != nil {
				log.Warn().Err(err).Str("profile", profile).Msg("Failed to marshal learning data")
				continue
			}
			if err := learningRepo.Save(ctx, profile, controllers[side].Personality().Name, data); err != nil {
				log.Warn().Err(err).Str("profile", profile).Msg("Failed to save learning profile")
			}
		}
	}

	log.Info().
		Str("battle", cfg.Name).
		Str("winner", result.Winner).
		Int("turns", result.Turns).
		Msg("Battle finished")
	return result, nil
}

// winnerOnPoints decides a capped battle: objectives held first, then total
// remaining HP. Equal on both means a draw.
func winnerOnPoints(gs *wargame.GameState) wargame.Side {
	blueObj, redObj := gs.ObjectivesHeld(wargame.Blue), gs.ObjectivesHeld(wargame.Red)
	if blueObj != redObj {
		if blueObj > redObj {
			return wargame.Blue
		}
		return wargame.Red
	}
	blueHP, redHP := gs.TotalHP(wargame.Blue), gs.TotalHP(wargame.Red)
	if blueHP > redHP {
		return wargame.Blue
	}
	if redHP > blueHP {
		return wargame.Red
	}
	return ""
}

// claimObjectives transfers ownership of any objective a living unit stands on.
func claimObjectives(gs *wargame.GameState) {
	for i, o := range gs.Objectives {
		if u := gs.UnitAt(o.Pos); u != nil {
			gs.Objectives[i].Owner = u.Side
		}
	}
}

func resetTurnFlags(gs *wargame.GameState, side wargame.Side) {
	for i := range gs.Units {
		if gs.Units[i].Side == side {
			gs.Units[i].Moved = false
			gs.Units[i].Acted = false
		}
	}
}

// aiContext builds the read-only snapshot view for one side's decision pass.
// The side sees the opponent's recent action history.
func aiContext(gs *wargame.GameState, m *hexmap.Map, side wargame.Side, history map[wargame.Side][]ai.ActionRecord) *ai.Context {
	c := &ai.Context{State: gs, Side: side}
	if m != nil {
		c.Map = m
	}
	if history != nil {
		c.RecentEnemyActions = history[side.Opponent()]
	}
	return c
}

func appendWindow(dst []ai.ActionRecord, records []ai.ActionRecord) []ai.ActionRecord {
	dst = append(dst, records...)
	if len(dst) > recentWindow {
		dst = dst[len(dst)-recentWindow:]
	}
	return dst
}
