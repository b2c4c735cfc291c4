package ai

import "testing"

func TestDefaultTransitionsCompile(t *testing.T) {
	if _, err := CompileTransitions(DefaultTransitionRules()); err != nil {
		t.Fatalf("default rules must compile: %v", err)
	}
}

func TestCompileTransitionsRejectsBadRule(t *testing.T) {
	rules := []*TransitionRule{{
		From: StatePreparation, To: StateActiveEngagement,
		When: "Turn >>> 1",
	}}
	if _, err := CompileTransitions(rules); err == nil {
		t.Fatal("expected compile error for invalid condition")
	}
}

func TestPreparationToEngagement(t *testing.T) {
	table := MustCompileTransitions(DefaultTransitionRules())

	if next, _, ok := table.Next(StatePreparation, TransitionEnv{Turn: 1}); ok {
		t.Errorf("turn 1 with no losses should hold preparation, got %s", next)
	}

	next, reason, ok := table.Next(StatePreparation, TransitionEnv{Turn: 2})
	if !ok || next != StateActiveEngagement {
		t.Fatalf("turn 2 should engage, got %s (%v)", next, ok)
	}
	if reason == "" {
		t.Error("transition should carry a reason")
	}

	// First blood also triggers engagement regardless of turn.
	next, _, ok = table.Next(StatePreparation, TransitionEnv{Turn: 1, EnemyLossRatio: 0.1})
	if !ok || next != StateActiveEngagement {
		t.Errorf("losses should trigger engagement, got %s (%v)", next, ok)
	}
}

func TestAggressionRaisesDefenseThreshold(t *testing.T) {
	table := MustCompileTransitions(DefaultTransitionRules())
	env := TransitionEnv{Turn: 5, LossRatio: 0.4, UnitsLeft: 5, EnemiesLeft: 5}

	env.Aggression = 0
	next, _, ok := table.Next(StateActiveEngagement, env)
	if !ok || next != StateActiveDefense {
		t.Errorf("cautious side at 40%% losses should fall back, got %s (%v)", next, ok)
	}

	env.Aggression = 5
	if next, _, ok := table.Next(StateActiveEngagement, env); ok {
		t.Errorf("aggressive side should hold at 40%% losses, got %s", next)
	}
}

func TestPursuitOnEnemyCollapse(t *testing.T) {
	table := MustCompileTransitions(DefaultTransitionRules())
	env := TransitionEnv{Turn: 6, LossRatio: 0.2, EnemyLossRatio: 0.7, UnitsLeft: 5, EnemiesLeft: 2}

	next, _, ok := table.Next(StateActiveEngagement, env)
	if !ok || next != StatePursuit {
		t.Errorf("collapsing enemy should trigger pursuit, got %s (%v)", next, ok)
	}
}

func TestFinalStandTakesPrecedenceOverPursuit(t *testing.T) {
	table := MustCompileTransitions(DefaultTransitionRules())
	// Both sides nearly destroyed: final stand must win over pursuit.
	env := TransitionEnv{Turn: 10, LossRatio: 0.85, EnemyLossRatio: 0.7, UnitsLeft: 1, EnemiesLeft: 1}

	next, _, ok := table.Next(StateActiveEngagement, env)
	if !ok || next != StateFinalStand {
		t.Errorf("near-destruction should force final stand, got %s (%v)", next, ok)
	}
}

func TestDefenseToFinalStand(t *testing.T) {
	table := MustCompileTransitions(DefaultTransitionRules())
	env := TransitionEnv{Turn: 12, LossRatio: 0.5, UnitsLeft: 2}

	next, _, ok := table.Next(StateActiveDefense, env)
	if !ok || next != StateFinalStand {
		t.Errorf("two units left should mean final stand, got %s (%v)", next, ok)
	}
}

func TestNoBackwardTransitions(t *testing.T) {
	table := MustCompileTransitions(DefaultTransitionRules())
	// A recovered position never re-enters preparation.
	env := TransitionEnv{Turn: 20, LossRatio: 0, EnemyLossRatio: 0, UnitsLeft: 6, EnemiesLeft: 6}
	for _, state := range []BehaviorState{StateFinalStand, StatePursuit, StateActiveDefense} {
		if next, _, ok := table.Next(state, env); ok && next == StatePreparation {
			t.Errorf("state %s regressed to preparation", state)
		}
	}
}
