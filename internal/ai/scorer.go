package ai

import (
	"fmt"
	"math/rand"
)

// Scorer turns a base tactical value into a final priority using the
// personality's weight table, the behavioral state boost, a risk penalty,
// and a bounded mistake-noise term. The random source is owned by the scorer
// so tests can seed it; production callers pass seed 0 for varied play.
type Scorer struct {
	rng *rand.Rand
}

// NewScorer creates a scorer. Seed 0 draws a seed from the global source;
// any other seed is fully reproducible.
func NewScorer(seed int64) *Scorer {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Scorer{rng: rand.New(rand.NewSource(seed))}
}

// Score computes priority = base * personality multiplier - risk penalty +
// mistake noise. The risk penalty grows with mistake frequency and shrinks
// with precision; the noise band is bounded by mistake frequency so precise
// personalities play nearly deterministically.
func (s *Scorer) Score(base float64, goal GoalTag, p PersonalityModel, state BehaviorState, risk float64) (float64, string) {
	multiplier := p.WeightFor(goal) * stateBoost(state, goal)
	penalty := risk * (1 + p.MistakeFrequency) * (1.5 - float64(p.Precision)*0.1)
	noise := (s.rng.Float64()*2 - 1) * p.MistakeFrequency * 2

	priority := base*multiplier - penalty + noise
	reason := fmt.Sprintf("%s: base %.1f x %.2f, risk %.1f", goal, base, multiplier, penalty)
	return priority, reason
}

// Noise returns a symmetric random value in [-band, band]. Used by the
// engagement analyzer for its precision-scaled confidence jitter.
func (s *Scorer) Noise(band float64) float64 {
	if band <= 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * band
}

// stateBoost returns the behavioral-state multiplier for a goal tag. States
// bias which goals get amplified that pass; unlisted combinations are 1.0.
func stateBoost(state BehaviorState, goal GoalTag) float64 {
	if boosts, ok := stateBoosts[state]; ok {
		if b, ok := boosts[goal]; ok {
			return b
		}
	}
	return 1.0
}

var stateBoosts = map[BehaviorState]map[GoalTag]float64{
	StatePreparation: {
		GoalGatherIntelligence: 1.5,
		GoalHiddenOperations:   1.3,
		GoalManageLogistics:    1.2,
	},
	StateActiveEngagement: {
		GoalInflictCasualties: 1.2,
	},
	StateActiveDefense: {
		GoalPreserveForce:     1.6,
		GoalDenyTerrain:       1.4,
		GoalInflictCasualties: 0.8,
	},
	StatePursuit: {
		GoalInflictCasualties: 1.6,
		GoalSecureObjective:   1.3,
		GoalPreserveForce:     0.7,
	},
	StateFinalStand: {
		GoalInflictCasualties: 1.5,
		GoalDenyTerrain:       1.3,
		GoalSecureObjective:   1.2,
		GoalPreserveForce:     0.5,
	},
}
