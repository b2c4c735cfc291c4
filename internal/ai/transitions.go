package ai

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TransitionEnv is the typed environment transition conditions evaluate
// against. Traits are exposed as floats so conditions can mix them freely
// with ratio arithmetic.
type TransitionEnv struct {
	Turn           int     `expr:"Turn"`
	LossRatio      float64 `expr:"LossRatio"`      // fraction of own starting strength lost
	EnemyLossRatio float64 `expr:"EnemyLossRatio"` // fraction of enemy starting strength lost
	StrengthRatio  float64 `expr:"StrengthRatio"`  // own current HP / enemy current HP
	UnitsLeft      int     `expr:"UnitsLeft"`
	EnemiesLeft    int     `expr:"EnemiesLeft"`
	ObjectivesHeld int     `expr:"ObjectivesHeld"`
	Aggression     float64 `expr:"Aggression"`
	Foresight      float64 `expr:"Foresight"`
	Precision      float64 `expr:"Precision"`
}

// TransitionRule moves the controller from one behavioral state to another
// when its condition holds at a turn boundary. Conditions are expression
// source so the thresholds stay tunable configuration rather than code.
type TransitionRule struct {
	From   BehaviorState
	To     BehaviorState
	When   string
	Reason string

	program *vm.Program
}

// DefaultTransitionRules returns the built-in rule set. The exact numbers
// are tuning, but the ordering is contractual: higher aggression raises the
// loss ratio needed to fall back into active_defense, and caution lowers it.
func DefaultTransitionRules() []*TransitionRule {
	return []*TransitionRule{
		{
			From:   StatePreparation,
			To:     StateActiveEngagement,
			When:   "Turn >= 2 || LossRatio > 0 || EnemyLossRatio > 0",
			Reason: "contact made",
		},
		{
			From:   StateActiveEngagement,
			To:     StateFinalStand,
			When:   "UnitsLeft <= 1 || LossRatio > 0.8",
			Reason: "force nearly destroyed",
		},
		{
			From:   StateActiveEngagement,
			To:     StatePursuit,
			When:   "EnemyLossRatio > 0.6 && LossRatio < 0.4",
			Reason: "enemy force collapsing",
		},
		{
			From:   StateActiveEngagement,
			To:     StateActiveDefense,
			When:   "LossRatio > 0.3 + Aggression * 0.06",
			Reason: "cumulative losses exceed tolerance",
		},
		{
			From:   StateActiveDefense,
			To:     StateFinalStand,
			When:   "UnitsLeft <= 2 || LossRatio > 0.75",
			Reason: "remaining force below floor",
		},
		{
			From:   StatePursuit,
			To:     StateFinalStand,
			When:   "LossRatio > 0.75",
			Reason: "counterattack broke the pursuit",
		},
	}
}

// TransitionTable holds compiled transition rules in declaration order.
type TransitionTable struct {
	rules []*TransitionRule
}

// CompileTransitions compiles every rule condition against TransitionEnv.
// A rule that fails to compile fails the whole table so a bad config is
// caught at construction, not mid-battle.
func CompileTransitions(rules []*TransitionRule) (*TransitionTable, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.When, expr.Env(TransitionEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile transition %s -> %s: %w", r.From, r.To, err)
		}
		r.program = prog
	}
	return &TransitionTable{rules: rules}, nil
}

// MustCompileTransitions panics on compile failure. For the built-in rules.
func MustCompileTransitions(rules []*TransitionRule) *TransitionTable {
	t, err := CompileTransitions(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Next evaluates the rules for the current state in order and returns the
// first matching transition. The bool reports whether any rule fired.
func (t *TransitionTable) Next(from BehaviorState, env TransitionEnv) (BehaviorState, string, bool) {
	for _, r := range t.rules {
		if r.From != from || r.program == nil {
			continue
		}
		result, err := vm.Run(r.program, env)
		if err != nil {
			continue
		}
		if match, ok := result.(bool); ok && match {
			return r.To, r.Reason, true
		}
	}
	return from, "", false
}
