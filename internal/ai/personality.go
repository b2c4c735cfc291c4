package ai

import (
	"errors"
	"fmt"
)

// GoalTag labels one of the closed set of tactical goals that priority
// weights, scoring, and counter-tactics all key on.
type GoalTag string

const (
	GoalInflictCasualties  GoalTag = "inflict-casualties"
	GoalPreserveForce      GoalTag = "preserve-force"
	GoalSecureObjective    GoalTag = "secure-objective"
	GoalDenyTerrain        GoalTag = "deny-terrain"
	GoalGatherIntelligence GoalTag = "gather-intelligence"
	GoalManageLogistics    GoalTag = "manage-logistics"
	GoalSpecialOperations  GoalTag = "special-operations"
	GoalHiddenOperations   GoalTag = "hidden-operations"
)

// AllGoalTags returns every tactical goal tag in a fixed order.
func AllGoalTags() []GoalTag {
	return []GoalTag{
		GoalInflictCasualties,
		GoalPreserveForce,
		GoalSecureObjective,
		GoalDenyTerrain,
		GoalGatherIntelligence,
		GoalManageLogistics,
		GoalSpecialOperations,
		GoalHiddenOperations,
	}
}

// Trait bounds for the three primary personality axes.
const (
	TraitMin = 0
	TraitMax = 5
)

// PersonalityModel is an immutable trait profile. Construct one through
// NewPersonality or NewCustomPersonality; never mutate the fields after.
type PersonalityModel struct {
	Name       string `json:"name"`
	Aggression int    `json:"aggression"`
	Foresight  int    `json:"foresight"`
	Precision  int    `json:"precision"`

	// Derived coefficients, fixed functions of the primary traits.
	MistakeFrequency     float64 `json:"mistakeFrequency"`     // decreasing in precision
	TacticalComplexity   float64 `json:"tacticalComplexity"`   // increasing in foresight
	CoordinationLevel    float64 `json:"coordinationLevel"`    // foresight + precision
	ResourceOptimization float64 `json:"resourceOptimization"` // caution + precision

	PriorityWeights map[GoalTag]float64 `json:"priorityWeights"`
}

// WeightFor returns the priority weight for a goal tag, zero if unset.
func (p PersonalityModel) WeightFor(tag GoalTag) float64 {
	return p.PriorityWeights[tag]
}

// Archetype names a pre-tuned personality.
type Archetype string

const (
	ArchetypeBerserker  Archetype = "berserker"  // aggressive and reckless
	ArchetypeStrategist Archetype = "strategist" // long planning horizon, precise
	ArchetypeBulwark    Archetype = "bulwark"    // cautious and defensive
	ArchetypeBalanced   Archetype = "balanced"
	ArchetypeConscript  Archetype = "conscript" // inexperienced
	ArchetypeVeteran    Archetype = "veteran"   // experienced
	ArchetypeSpecialist Archetype = "specialist" // special/hidden operations focus
	ArchetypeAdaptive   Archetype = "adaptive"   // intelligence and pattern reading
)

// ErrUnknownArchetype is returned by NewPersonality for tags outside the
// closed archetype set.
var ErrUnknownArchetype = errors.New("unknown personality archetype")

// archetypeTraits maps each archetype to its primary trait triple.
var archetypeTraits = map[Archetype][3]int{
	ArchetypeBerserker:  {5, 1, 2},
	ArchetypeStrategist: {2, 5, 5},
	ArchetypeBulwark:    {1, 3, 4},
	ArchetypeBalanced:   {3, 3, 3},
	ArchetypeConscript:  {3, 1, 1},
	ArchetypeVeteran:    {3, 4, 4},
	ArchetypeSpecialist: {2, 4, 5},
	ArchetypeAdaptive:   {3, 5, 3},
}

// archetypeWeights holds the hand-tuned priority tables. Tags omitted here
// fall back to the trait-linear defaults during construction.
var archetypeWeights = map[Archetype]map[GoalTag]float64{
	ArchetypeBerserker: {
		GoalInflictCasualties: 3.0,
		GoalPreserveForce:     0.3,
		GoalSecureObjective:   1.0,
		GoalDenyTerrain:       0.6,
	},
	ArchetypeStrategist: {
		GoalInflictCasualties:  1.2,
		GoalPreserveForce:      1.6,
		GoalSecureObjective:    2.2,
		GoalDenyTerrain:        1.4,
		GoalGatherIntelligence: 1.2,
	},
	ArchetypeBulwark: {
		GoalInflictCasualties: 0.8,
		GoalPreserveForce:     2.4,
		GoalSecureObjective:   1.4,
		GoalDenyTerrain:       1.8,
	},
	ArchetypeSpecialist: {
		GoalSpecialOperations: 2.2,
		GoalHiddenOperations:  2.0,
		GoalInflictCasualties: 1.2,
	},
	ArchetypeAdaptive: {
		GoalGatherIntelligence: 2.0,
		GoalSecureObjective:    1.6,
	},
}

// NewPersonality builds the personality for a named archetype. Deterministic:
// the same tag always yields a field-for-field identical model.
func NewPersonality(tag Archetype) (PersonalityModel, error) {
	traits, ok := archetypeTraits[tag]
	if !ok {
		return PersonalityModel{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, tag)
	}
	p := NewCustomPersonality(string(tag), traits[0], traits[1], traits[2])
	for tag2, w := range archetypeWeights[tag] {
		p.PriorityWeights[tag2] = w
	}
	return p, nil
}

// NewCustomPersonality builds a personality from raw traits. Out-of-range
// inputs are clamped to [0,5]; the clamped values are observable on the
// returned model. Priority weights are trait-linear.
func NewCustomPersonality(name string, aggression, foresight, precision int) PersonalityModel {
	a := clampTrait(aggression)
	f := clampTrait(foresight)
	pr := clampTrait(precision)

	p := PersonalityModel{
		Name:                 name,
		Aggression:           a,
		Foresight:            f,
		Precision:            pr,
		MistakeFrequency:     float64(TraitMax-pr) * 0.06,
		TacticalComplexity:   float64(f) / float64(TraitMax),
		CoordinationLevel:    float64(f+pr) / float64(2*TraitMax),
		ResourceOptimization: float64((TraitMax-a)+pr) / float64(2*TraitMax),
		PriorityWeights:      make(map[GoalTag]float64, 8),
	}

	p.PriorityWeights[GoalInflictCasualties] = 0.5 + float64(a)*0.4
	p.PriorityWeights[GoalPreserveForce] = 0.4 + float64(TraitMax-a)*0.3 + float64(pr)*0.1
	p.PriorityWeights[GoalSecureObjective] = 1.0 + float64(f)*0.2
	p.PriorityWeights[GoalDenyTerrain] = 0.5 + float64(f)*0.15
	p.PriorityWeights[GoalGatherIntelligence] = 0.3 + float64(f)*0.25
	p.PriorityWeights[GoalManageLogistics] = 0.3 + float64(pr)*0.15
	p.PriorityWeights[GoalSpecialOperations] = 0.4 + float64(f)*0.1 + float64(pr)*0.1
	p.PriorityWeights[GoalHiddenOperations] = 0.3 + float64(pr)*0.2

	return p
}

func clampTrait(v int) int {
	if v < TraitMin {
		return TraitMin
	}
	if v > TraitMax {
		return TraitMax
	}
	return v
}
