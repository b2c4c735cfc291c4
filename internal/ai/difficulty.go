package ai

import (
	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/pkg/wargame"
)

// OnnxModelPath is the value-model file used by the "impossible" difficulty.
// Set this at startup (e.g. from an environment variable) before creating
// controllers.
var OnnxModelPath string

// difficultyArchetypes maps each difficulty tier to its personality.
var difficultyArchetypes = map[string]Archetype{
	"easy":       ArchetypeConscript,
	"medium":     ArchetypeBalanced,
	"hard":       ArchetypeVeteran,
	"impossible": ArchetypeStrategist,
}

// ControllerForDifficulty builds a controller for a difficulty tier. The
// impossible tier attaches the ONNX position evaluator when the model loads,
// and falls back to hard otherwise so the battle can proceed. Unknown tiers
// get the balanced personality.
func ControllerForDifficulty(side wargame.Side, difficulty string, seed int64) *Controller {
	archetype, ok := difficultyArchetypes[difficulty]
	if !ok {
		archetype = ArchetypeBalanced
	}

	personality, err := NewPersonality(archetype)
	if err != nil {
		// Unreachable for the table above; guard against future edits.
		personality = NewCustomPersonality("balanced", 3, 3, 3)
	}

	opts := []Option{WithSeed(seed)}
	if difficulty == "impossible" {
		if eval, err := newImpossibleEvaluator(); err != nil {
			log.Warn().Err(err).Msg("impossible difficulty requested but evaluator unavailable; falling back to hard")
			personality, _ = NewPersonality(ArchetypeVeteran)
		} else {
			opts = append(opts, WithEvaluator(eval))
		}
	}

	return NewController(side, personality, opts...)
}

func newImpossibleEvaluator() (Evaluator, error) {
	path := OnnxModelPath
	if path == "" {
		path = "models/value.onnx"
	}
	return NewOnnxEvaluator(path)
}
