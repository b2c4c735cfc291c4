package ai

import (
	"fmt"

	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// PatternTag classifies an opposing side's observed behavior.
type PatternTag string

const (
	PatternRush         PatternTag = "rush-aggressive"
	PatternHold         PatternTag = "hold-defensive"
	PatternFlank        PatternTag = "flank-preferring"
	PatternAbilityHeavy PatternTag = "ability-heavy"
)

// behaviorWindow is how many of the opponent's most recent actions the
// analyzer considers.
const behaviorWindow = 12

// ActionRecord is one observed enemy action, recorded by the turn driver.
type ActionRecord struct {
	Kind   ActionKind     `json:"kind"`
	UnitID wargame.UnitID `json:"unitId"`
	From   hexmap.Hex     `json:"from"`
	To     hexmap.Hex     `json:"to"`
	Turn   int            `json:"turn"`
}

// BehaviorProfile maps detected patterns to a strength in [0,1].
type BehaviorProfile struct {
	Patterns map[PatternTag]float64
}

// AnalyzeOpponent classifies the last behaviorWindow actions with simple
// frequency heuristics. Too few observations yield an empty profile rather
// than a noisy one.
func AnalyzeOpponent(records []ActionRecord) BehaviorProfile {
	profile := BehaviorProfile{Patterns: make(map[PatternTag]float64)}
	if len(records) > behaviorWindow {
		records = records[len(records)-behaviorWindow:]
	}
	if len(records) < 4 {
		return profile
	}

	total := float64(len(records))
	attacks, moves, abilities, lateral := 0, 0, 0, 0
	for _, r := range records {
		switch r.Kind {
		case ActionAttack:
			attacks++
		case ActionAbility:
			abilities++
		case ActionMove:
			moves++
			// A move that shifts rank more than file is working around the
			// front rather than through it.
			if abs(r.To.R-r.From.R) > abs(r.To.Q-r.From.Q) {
				lateral++
			}
		}
	}

	if rate := float64(attacks+moves) / total; rate > 0.6 && attacks > 0 {
		profile.Patterns[PatternRush] = clamp01(float64(attacks) / total * 2)
	}
	if rate := float64(moves) / total; rate < 0.3 && attacks <= len(records)/4 {
		profile.Patterns[PatternHold] = clamp01(1 - rate*2)
	}
	if moves > 0 {
		if rate := float64(lateral) / float64(moves); rate > 0.5 {
			profile.Patterns[PatternFlank] = clamp01(rate)
		}
	}
	if rate := float64(abilities) / total; rate > 0.25 {
		profile.Patterns[PatternAbilityHeavy] = clamp01(rate * 2)
	}

	return profile
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CounterPlan is a set of additive goal-tag biases synthesized from a
// behavior profile, merged into the current decision pass.
type CounterPlan struct {
	GoalBias map[GoalTag]float64
	Notes    []string
}

// GenerateCounterTactics maps each detected pattern to its fixed response
// biases, scaled by pattern strength.
func GenerateCounterTactics(profile BehaviorProfile) CounterPlan {
	plan := CounterPlan{GoalBias: make(map[GoalTag]float64)}

	if s, ok := profile.Patterns[PatternRush]; ok {
		plan.GoalBias[GoalPreserveForce] += 0.8 * s
		plan.GoalBias[GoalDenyTerrain] += 0.6 * s
		plan.Notes = append(plan.Notes, fmt.Sprintf("rush detected (%.2f): trading space for attrition", s))
	}
	if s, ok := profile.Patterns[PatternHold]; ok {
		plan.GoalBias[GoalSecureObjective] += 0.8 * s
		plan.GoalBias[GoalSpecialOperations] += 0.5 * s
		plan.Notes = append(plan.Notes, fmt.Sprintf("static defense detected (%.2f): taking ground, preferring indirect fire", s))
	}
	if s, ok := profile.Patterns[PatternFlank]; ok {
		plan.GoalBias[GoalDenyTerrain] += 0.7 * s
		plan.GoalBias[GoalGatherIntelligence] += 0.4 * s
		plan.Notes = append(plan.Notes, fmt.Sprintf("flanking detected (%.2f): covering approaches", s))
	}
	if s, ok := profile.Patterns[PatternAbilityHeavy]; ok {
		plan.GoalBias[GoalPreserveForce] += 0.4 * s
		plan.GoalBias[GoalManageLogistics] += 0.4 * s
		plan.Notes = append(plan.Notes, fmt.Sprintf("ability-heavy play detected (%.2f): dispersing", s))
	}

	return plan
}

// IntegrateCounterTactics additively adjusts the priority of proposals whose
// goal tag matches a bias in the plan. It never invents proposals and never
// removes any.
func IntegrateCounterTactics(plan CounterPlan, proposals []Proposal) []Proposal {
	if len(plan.GoalBias) == 0 {
		return proposals
	}
	for i := range proposals {
		if bias, ok := plan.GoalBias[proposals[i].Goal]; ok && bias != 0 {
			proposals[i].Priority += bias
			proposals[i].Reason += fmt.Sprintf(" (+%.2f counter-tactics)", bias)
		}
	}
	return proposals
}
