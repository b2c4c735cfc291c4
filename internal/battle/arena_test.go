package battle

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/kwestra/hexfront/internal/ai"
	"github.com/kwestra/hexfront/internal/model"
	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// In-memory repository fakes for exercising the persistence paths.
type memBattleRepo struct {
	battles map[string]*model.Battle
	turns   int
}

func newMemBattleRepo() *memBattleRepo {
	return &memBattleRepo{battles: map[string]*model.Battle{}}
}

func (r *memBattleRepo) Create(_ context.Context, name, scenario, blue, red string) (*model.Battle, error) {
	b := &model.Battle{ID: "battle-1", Name: name, Scenario: scenario, BlueProfile: blue, RedProfile: red}
	r.battles[b.ID] = b
	return b, nil
}

func (r *memBattleRepo) FindByID(_ context.Context, id string) (*model.Battle, error) {
	return r.battles[id], nil
}

func (r *memBattleRepo) ListRecent(context.Context, int) ([]model.Battle, error) { return nil, nil }

func (r *memBattleRepo) SetFinished(_ context.Context, id, winner string, turns int) error {
	r.battles[id].Winner = winner
	r.battles[id].Turns = turns
	return nil
}

func (r *memBattleRepo) SaveTurn(_ context.Context, _ string, _ int, _, _ json.RawMessage) error {
	r.turns++
	return nil
}

func (r *memBattleRepo) TurnsByBattle(context.Context, string) ([]model.BattleTurn, error) {
	return nil, nil
}

type memLearningRepo struct {
	saved      map[string]json.RawMessage
	archetypes map[string]string
}

func newMemLearningRepo() *memLearningRepo {
	return &memLearningRepo{saved: map[string]json.RawMessage{}, archetypes: map[string]string{}}
}

func (r *memLearningRepo) Save(_ context.Context, name, archetype string, data json.RawMessage) error {
	r.saved[name] = data
	r.archetypes[name] = archetype
	return nil
}

func (r *memLearningRepo) Load(_ context.Context, name string) (json.RawMessage, error) {
	return r.saved[name], nil
}

func (r *memLearningRepo) List(context.Context) ([]model.LearningProfile, error) { return nil, nil }

type memCache struct {
	learning map[string]json.RawMessage
	status   map[string]json.RawMessage
}

func newMemCache() *memCache {
	return &memCache{learning: map[string]json.RawMessage{}, status: map[string]json.RawMessage{}}
}

func (c *memCache) SetLearningData(_ context.Context, profile string, data json.RawMessage) error {
	c.learning[profile] = data
	return nil
}

func (c *memCache) GetLearningData(_ context.Context, profile string) (json.RawMessage, error) {
	return c.learning[profile], nil
}

func (c *memCache) SetBattleStatus(_ context.Context, id string, status json.RawMessage) error {
	c.status[id] = status
	return nil
}

func (c *memCache) GetBattleStatus(_ context.Context, id string) (json.RawMessage, error) {
	return c.status[id], nil
}

func (c *memCache) DeleteBattleData(_ context.Context, id string) error {
	delete(c.status, id)
	return nil
}

func TestRunDryBattleCompletes(t *testing.T) {
	cfg := Config{
		Name:           "test-battle",
		BlueDifficulty: "medium",
		RedDifficulty:  "medium",
		MaxTurns:       15,
		Seed:           42,
		DryRun:         true,
	}

	result, err := Run(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Turns < 1 || result.Turns > 15 {
		t.Errorf("turn count out of range: %d", result.Turns)
	}
	switch result.Winner {
	case "blue", "red", "":
	default:
		t.Errorf("unexpected winner %q", result.Winner)
	}
	if result.RemainingHP["blue"] < 0 || result.RemainingHP["red"] < 0 {
		t.Errorf("negative remaining HP: %+v", result.RemainingHP)
	}
}

func TestRunSeededBattleIsReproducible(t *testing.T) {
	run := func() *Result {
		t.Helper()
		cfg := Config{
			Name:           "repro",
			BlueDifficulty: "hard",
			RedDifficulty:  "easy",
			MaxTurns:       12,
			Seed:           7,
			DryRun:         true,
		}
		r, err := Run(context.Background(), cfg, nil, nil, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return r
	}

	a, b := run(), run()
	if a.Winner != b.Winner || a.Turns != b.Turns {
		t.Errorf("same seed diverged: %s/%d vs %s/%d", a.Winner, a.Turns, b.Winner, b.Turns)
	}
	if a.RemainingHP["blue"] != b.RemainingHP["blue"] || a.RemainingHP["red"] != b.RemainingHP["red"] {
		t.Errorf("remaining HP diverged: %+v vs %+v", a.RemainingHP, b.RemainingHP)
	}
}

func TestRunInvokesTurnCallback(t *testing.T) {
	turns := 0
	cfg := Config{
		Name:           "callbacks",
		BlueDifficulty: "easy",
		RedDifficulty:  "easy",
		MaxTurns:       5,
		Seed:           3,
		DryRun:         true,
		OnTurn:         func(turn int, gs *wargame.GameState) { turns++ },
	}

	result, err := Run(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// The callback fires for every completed full turn; an early knockout in
	// mid-turn skips that turn's callback.
	if turns > result.Turns {
		t.Errorf("callback fired %d times for %d turns", turns, result.Turns)
	}
	if result.Turns == cfg.MaxTurns && turns != cfg.MaxTurns {
		t.Errorf("expected %d callbacks, got %d", cfg.MaxTurns, turns)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Name: "cancelled", MaxTurns: 30, Seed: 1, DryRun: true}
	if _, err := Run(ctx, cfg, nil, nil, nil); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestWinnerOnPoints(t *testing.T) {
	gs := &wargame.GameState{
		Objectives: []wargame.Objective{
			{ID: "a", Owner: wargame.Blue},
			{ID: "b", Owner: wargame.Blue},
		},
		Units: []wargame.Unit{
			{ID: "b1", Side: wargame.Blue, HP: 5, MaxHP: 10},
			{ID: "r1", Side: wargame.Red, HP: 20, MaxHP: 20},
		},
	}
	if w := winnerOnPoints(gs); w != wargame.Blue {
		t.Errorf("objectives should outrank HP, got %s", w)
	}

	gs.Objectives = nil
	if w := winnerOnPoints(gs); w != wargame.Red {
		t.Errorf("HP should decide without objectives, got %s", w)
	}

	gs.Units[0].HP = 20
	gs.Units[0].MaxHP = 20
	if w := winnerOnPoints(gs); w != "" {
		t.Errorf("equal everything should draw, got %q", w)
	}
}

func TestExecuteProposalsMove(t *testing.T) {
	m := hexmap.New(5, 5)
	gs := &wargame.GameState{
		Turn: 1,
		Units: []wargame.Unit{
			{ID: "blue-1", Side: wargame.Blue, Pos: hexmap.Hex{Q: 1, R: 1}, HP: 10, MaxHP: 10, Move: 2},
		},
		CommandPoints: map[wargame.Side]int{wargame.Blue: 10},
	}
	rng := rand.New(rand.NewSource(1))

	props := []ai.Proposal{{Kind: ai.ActionMove, UnitID: "blue-1", Dest: hexmap.Hex{Q: 2, R: 1}}}
	results, records := executeProposals(gs, m, props, rng)

	if len(results) != 1 || !results[0].Success {
		t.Fatalf("move failed: %+v", results)
	}
	if gs.UnitByID("blue-1").Pos != (hexmap.Hex{Q: 2, R: 1}) {
		t.Errorf("unit did not move: %v", gs.UnitByID("blue-1").Pos)
	}
	if len(records) != 1 || records[0].From != (hexmap.Hex{Q: 1, R: 1}) {
		t.Errorf("action record wrong: %+v", records)
	}
}

func TestExecuteProposalsRejectsBadMove(t *testing.T) {
	m := hexmap.New(5, 5)
	m.SetTerrain(hexmap.Hex{Q: 2, R: 1}, hexmap.Water)
	gs := &wargame.GameState{
		Units: []wargame.Unit{
			{ID: "blue-1", Side: wargame.Blue, Pos: hexmap.Hex{Q: 1, R: 1}, HP: 10, MaxHP: 10, Move: 1},
		},
		CommandPoints: map[wargame.Side]int{wargame.Blue: 10},
	}
	rng := rand.New(rand.NewSource(1))

	props := []ai.Proposal{{Kind: ai.ActionMove, UnitID: "blue-1", Dest: hexmap.Hex{Q: 2, R: 1}}}
	results, records := executeProposals(gs, m, props, rng)

	if results[0].Success {
		t.Error("move into water should fail")
	}
	if len(records) != 0 {
		t.Error("failed actions must not be recorded for the opponent")
	}
	if gs.UnitByID("blue-1").Pos != (hexmap.Hex{Q: 1, R: 1}) {
		t.Error("failed move must not displace the unit")
	}
}

func TestExecuteProposalsAttack(t *testing.T) {
	m := hexmap.New(5, 5)
	gs := &wargame.GameState{
		Units: []wargame.Unit{
			{ID: "blue-1", Side: wargame.Blue, Pos: hexmap.Hex{Q: 1, R: 1}, HP: 10, MaxHP: 10, Attack: 6, Defense: 4, Range: 1},
			{ID: "red-1", Side: wargame.Red, Pos: hexmap.Hex{Q: 2, R: 1}, HP: 10, MaxHP: 10, Attack: 4, Defense: 4},
		},
		CommandPoints: map[wargame.Side]int{wargame.Blue: 10, wargame.Red: 10},
	}
	rng := rand.New(rand.NewSource(1))

	props := []ai.Proposal{{Kind: ai.ActionAttack, UnitID: "blue-1", TargetID: "red-1"}}
	results, _ := executeProposals(gs, m, props, rng)

	if !results[0].Success || results[0].Damage < 1 {
		t.Fatalf("attack should land: %+v", results[0])
	}
	if gs.UnitByID("red-1").HP >= 10 {
		t.Error("target HP unchanged")
	}
	if !gs.UnitByID("blue-1").Acted {
		t.Error("attacker should be marked acted")
	}
}

func TestExecuteProposalsInsufficientCommandPoints(t *testing.T) {
	m := hexmap.New(5, 5)
	gs := &wargame.GameState{
		Units: []wargame.Unit{
			{ID: "blue-1", Side: wargame.Blue, Pos: hexmap.Hex{Q: 1, R: 1}, HP: 10, MaxHP: 10,
				Abilities: []wargame.Ability{{Name: "barrage", Range: 3, Cost: 5, Damage: 4}}},
		},
		CommandPoints: map[wargame.Side]int{wargame.Blue: 2},
	}
	rng := rand.New(rand.NewSource(1))

	props := []ai.Proposal{{Kind: ai.ActionAbility, UnitID: "blue-1", Ability: "barrage", Cost: 5}}
	results, _ := executeProposals(gs, m, props, rng)

	if results[0].Success {
		t.Error("unaffordable ability should fail")
	}
	if gs.CommandPoints[wargame.Blue] != 2 {
		t.Errorf("points deducted on failure: %d", gs.CommandPoints[wargame.Blue])
	}
}

func TestRunRestoresAndSavesLearningProfiles(t *testing.T) {
	learningRepo := newMemLearningRepo()
	seeded, err := json.Marshal(ai.LearningData{
		PlayerPatterns:     ai.PlayerPatterns{RiskTolerance: 0.5, AdaptationRate: 0.5},
		PerformanceHistory: []ai.PerformanceSummary{{Outcome: ai.OutcomeDraw, Turns: 99}},
	})
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	learningRepo.saved["hard"] = seeded

	battleRepo := newMemBattleRepo()
	cache := newMemCache()

	cfg := Config{Name: "persist", BlueDifficulty: "hard", RedDifficulty: "easy", MaxTurns: 3, Seed: 11}
	result, err := Run(context.Background(), cfg, battleRepo, learningRepo, cache)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, profile := range []string{"hard", "easy"} {
		raw, ok := learningRepo.saved[profile]
		if !ok {
			t.Fatalf("profile %s not saved", profile)
		}
		var data ai.LearningData
		if err := json.Unmarshal(raw, &data); err != nil {
			t.Fatalf("unmarshal %s: %v", profile, err)
		}
		if len(data.PerformanceHistory) == 0 {
			t.Errorf("profile %s has no battle record", profile)
		}
	}

	// The pre-seeded record surviving into the save proves the restore ran.
	var hard ai.LearningData
	if err := json.Unmarshal(learningRepo.saved["hard"], &hard); err != nil {
		t.Fatalf("unmarshal hard: %v", err)
	}
	carried := false
	for _, s := range hard.PerformanceHistory {
		if s.Turns == 99 {
			carried = true
		}
	}
	if !carried {
		t.Error("seeded performance record lost, learning data was not restored")
	}
	if got := learningRepo.archetypes["hard"]; got != string(ai.ArchetypeVeteran) {
		t.Errorf("hard profile archetype: got %s", got)
	}

	if cache.learning["hard"] == nil || cache.learning["easy"] == nil {
		t.Error("learning data not cached between turns")
	}
	if cache.status[result.BattleID] != nil {
		t.Error("battle status cache not cleared at battle end")
	}
}

func TestExecuteProposalsLoad(t *testing.T) {
	m := hexmap.New(5, 5)
	gs := &wargame.GameState{
		Units: []wargame.Unit{
			{ID: "blue-apc", Side: wargame.Blue, Pos: hexmap.Hex{Q: 1, R: 1}, HP: 10, MaxHP: 10, CargoCapacity: 1},
			{ID: "blue-rifles", Side: wargame.Blue, Pos: hexmap.Hex{Q: 2, R: 1}, HP: 8, MaxHP: 8},
			{ID: "blue-stray", Side: wargame.Blue, Pos: hexmap.Hex{Q: 4, R: 4}, HP: 8, MaxHP: 8},
		},
		CommandPoints: map[wargame.Side]int{wargame.Blue: 10},
	}
	rng := rand.New(rand.NewSource(1))

	props := []ai.Proposal{{Kind: ai.ActionLoad, UnitID: "blue-apc", TargetID: "blue-rifles"}}
	results, _ := executeProposals(gs, m, props, rng)

	if !results[0].Success {
		t.Fatalf("load failed: %+v", results[0])
	}
	apc := gs.UnitByID("blue-apc")
	rifles := gs.UnitByID("blue-rifles")
	if rifles.CarriedBy != "blue-apc" || rifles.Pos != apc.Pos {
		t.Errorf("cargo not embarked: %+v", rifles)
	}
	if len(apc.Cargo) != 1 || apc.Cargo[0] != "blue-rifles" {
		t.Errorf("transport manifest wrong: %v", apc.Cargo)
	}
	if !apc.Acted {
		t.Error("loading should consume the transport's action")
	}

	// A full transport refuses more cargo.
	more := []ai.Proposal{{Kind: ai.ActionLoad, UnitID: "blue-apc", TargetID: "blue-stray"}}
	results, _ = executeProposals(gs, m, more, rng)
	if results[0].Success {
		t.Error("full transport accepted a second passenger")
	}
}

func TestClaimObjectives(t *testing.T) {
	gs := &wargame.GameState{
		Units: []wargame.Unit{
			{ID: "blue-1", Side: wargame.Blue, Pos: hexmap.Hex{Q: 2, R: 2}, HP: 10, MaxHP: 10},
		},
		Objectives: []wargame.Objective{
			{ID: "held", Pos: hexmap.Hex{Q: 2, R: 2}, Owner: wargame.Red},
			{ID: "empty", Pos: hexmap.Hex{Q: 4, R: 4}, Owner: wargame.Red},
		},
	}

	claimObjectives(gs)
	if gs.Objectives[0].Owner != wargame.Blue {
		t.Error("occupied objective should change hands")
	}
	if gs.Objectives[1].Owner != wargame.Red {
		t.Error("unoccupied objective should keep its owner")
	}
}
