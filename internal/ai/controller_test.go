package ai

import (
	"strings"
	"testing"

	"github.com/kwestra/hexfront/pkg/wargame"
)

func newTestController(t *testing.T, arch Archetype) *Controller {
	t.Helper()
	p, err := NewPersonality(arch)
	if err != nil {
		t.Fatalf("personality %s: %v", arch, err)
	}
	return NewController(wargame.Blue, p, WithSeed(7))
}

func TestControllerStartsInPreparation(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	if got := c.Status().State; got != StatePreparation {
		t.Errorf("expected preparation, got %s", got)
	}
	if c.Side() != wargame.Blue {
		t.Errorf("side mismatch: %s", c.Side())
	}
}

func TestControllerDecideOnScenario(t *testing.T) {
	c := newTestController(t, ArchetypeVeteran)
	ctx := scenarioContext(wargame.Blue)

	props := c.Decide(ctx)
	if len(props) == 0 {
		t.Fatal("expected proposals for the starting force")
	}
	seen := map[wargame.UnitID]bool{}
	for _, p := range props {
		if seen[p.UnitID] {
			t.Errorf("unit %s proposed twice", p.UnitID)
		}
		seen[p.UnitID] = true
	}
}

func TestControllerTransitionRecordedOnce(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	ctx := scenarioContext(wargame.Blue)

	c.ProcessEndOfTurn(1, ctx)
	if c.Status().State != StatePreparation {
		t.Fatalf("turn 1 should hold preparation, got %s", c.Status().State)
	}

	c.ProcessEndOfTurn(2, ctx)
	if c.Status().State != StateActiveEngagement {
		t.Fatalf("turn 2 should engage, got %s", c.Status().State)
	}

	triggers := c.LearningData().AdaptationTriggers
	if len(triggers) != 1 {
		t.Fatalf("expected exactly one trigger, got %d: %v", len(triggers), triggers)
	}
	if !strings.Contains(triggers[0], string(StateActiveEngagement)) {
		t.Errorf("trigger should name the new state: %s", triggers[0])
	}

	// No rule moves engagement back while the position is healthy.
	c.ProcessEndOfTurn(3, ctx)
	if c.Status().State != StateActiveEngagement {
		t.Errorf("healthy engagement should hold, got %s", c.Status().State)
	}
	if got := len(c.LearningData().AdaptationTriggers); got != 1 {
		t.Errorf("no new trigger expected, got %d", got)
	}
}

func TestProcessActionResultsFeedsLearning(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	before := c.LearningData().PlayerPatterns.RiskTolerance

	proposals := []Proposal{
		{Kind: ActionAttack, UnitID: "blue-1", Goal: GoalInflictCasualties, Reason: "test"},
		{Kind: ActionMove, UnitID: "blue-2", Goal: GoalSecureObjective, Reason: "test"},
	}
	results := []wargame.ActionResult{
		{UnitID: "blue-1", Success: true, Damage: 4},
		{UnitID: "blue-2", Success: false, Message: "no path"},
	}
	c.ProcessActionResults(proposals, results)

	data := c.LearningData()
	if len(data.SuccessfulTactics) != 1 {
		t.Errorf("expected 1 success, got %d", len(data.SuccessfulTactics))
	}
	if len(data.FailedTactics) != 1 {
		t.Errorf("expected 1 failure, got %d", len(data.FailedTactics))
	}
	if data.PlayerPatterns.RiskTolerance <= before {
		t.Errorf("a failure should nudge risk up: %f -> %f", before, data.PlayerPatterns.RiskTolerance)
	}
	if c.Status().Metrics.CasualtiesInflicted != 4 {
		t.Errorf("damage not tracked: %d", c.Status().Metrics.CasualtiesInflicted)
	}
}

func TestSuccessfulAmbushCounted(t *testing.T) {
	c := newTestController(t, ArchetypeSpecialist)
	proposals := []Proposal{{Kind: ActionAttack, UnitID: "blue-recon", Goal: GoalHiddenOperations}}
	results := []wargame.ActionResult{{UnitID: "blue-recon", Success: true, Damage: 6}}

	c.ProcessActionResults(proposals, results)
	if c.Status().Metrics.SuccessfulAmbushes != 1 {
		t.Errorf("ambush not counted: %+v", c.Status().Metrics)
	}
}

func TestRepeatedFailuresRaiseRiskTolerance(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	start := c.LearningData().PlayerPatterns.RiskTolerance

	for i := 0; i < 5; i++ {
		c.ProcessActionResults(
			[]Proposal{{Kind: ActionAttack, UnitID: "blue-1", Goal: GoalInflictCasualties}},
			[]wargame.ActionResult{{UnitID: "blue-1", Success: false, Message: "repulsed"}},
		)
	}

	got := c.LearningData().PlayerPatterns.RiskTolerance
	if got <= start {
		t.Errorf("five failures should raise risk tolerance: %f -> %f", start, got)
	}
}

func TestProcessBattleEndRecordsSummary(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	ctx := scenarioContext(wargame.Blue)

	c.ProcessEndOfTurn(1, ctx)
	c.ProcessBattleEnd(ctx, OutcomeVictory)

	history := c.LearningData().PerformanceHistory
	if len(history) != 1 {
		t.Fatalf("expected one performance record, got %d", len(history))
	}
	if history[0].Outcome != OutcomeVictory {
		t.Errorf("outcome mismatch: %s", history[0].Outcome)
	}
}

func TestResetLearningDataKeepsPersonalityAndState(t *testing.T) {
	c := newTestController(t, ArchetypeVeteran)
	ctx := scenarioContext(wargame.Blue)

	c.ProcessEndOfTurn(2, ctx) // forces a transition and a trigger entry
	c.ProcessActionResults(
		[]Proposal{{Kind: ActionAttack, UnitID: "blue-1", Goal: GoalInflictCasualties}},
		[]wargame.ActionResult{{UnitID: "blue-1", Success: false}},
	)

	stateBefore := c.Status().State
	c.ResetLearningData()

	data := c.LearningData()
	if len(data.FailedTactics) != 0 || len(data.AdaptationTriggers) != 0 {
		t.Error("reset should clear learning logs")
	}
	if data.PlayerPatterns.RiskTolerance != 0.5 {
		t.Errorf("reset should restore neutral patterns, got %f", data.PlayerPatterns.RiskTolerance)
	}
	if c.Personality().Name != string(ArchetypeVeteran) {
		t.Error("reset must not touch the personality")
	}
	if c.Status().State != stateBefore {
		t.Error("reset must not touch the behavioral state")
	}
}

func TestRestoreLearningData(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	saved := LearningData{
		PlayerPatterns:    PlayerPatterns{RiskTolerance: 0.8, AdaptationRate: 0.6},
		SuccessfulTactics: []TacticRecord{{Label: "ambush/hidden-operations", Turn: 3}},
	}

	c.RestoreLearningData(saved)
	got := c.LearningData()
	if got.PlayerPatterns != saved.PlayerPatterns {
		t.Errorf("patterns not restored: %+v", got.PlayerPatterns)
	}
	if len(got.SuccessfulTactics) != 1 {
		t.Errorf("tactics not restored: %+v", got.SuccessfulTactics)
	}
}

func TestLearnedCautionBiasesDecisions(t *testing.T) {
	c := newTestController(t, ArchetypeBalanced)
	c.RestoreLearningData(LearningData{
		PlayerPatterns: PlayerPatterns{RiskTolerance: 0.9, AdaptationRate: 0.5},
	})

	ctx := scenarioContext(wargame.Blue)
	// Must not panic and must still produce a full pass; the caution bias is
	// additive on preserve-force proposals.
	props := c.Decide(ctx)
	if len(props) == 0 {
		t.Fatal("expected proposals despite high learned caution")
	}
}
