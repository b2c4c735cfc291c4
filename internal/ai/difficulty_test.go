package ai

import (
	"testing"

	"github.com/kwestra/hexfront/pkg/wargame"
)

func TestControllerForDifficultyArchetypes(t *testing.T) {
	cases := map[string]string{
		"easy":   string(ArchetypeConscript),
		"medium": string(ArchetypeBalanced),
		"hard":   string(ArchetypeVeteran),
	}
	for tier, want := range cases {
		c := ControllerForDifficulty(wargame.Blue, tier, 1)
		if got := c.Personality().Name; got != want {
			t.Errorf("%s: got %s, want %s", tier, got, want)
		}
	}
}

func TestControllerForUnknownDifficulty(t *testing.T) {
	c := ControllerForDifficulty(wargame.Red, "nightmare", 1)
	if got := c.Personality().Name; got != string(ArchetypeBalanced) {
		t.Errorf("unknown tier should default to balanced, got %s", got)
	}
}

func TestImpossibleFallsBackWithoutModel(t *testing.T) {
	old := OnnxModelPath
	OnnxModelPath = "/nonexistent/value.onnx"
	defer func() { OnnxModelPath = old }()

	c := ControllerForDifficulty(wargame.Blue, "impossible", 1)
	if got := c.Personality().Name; got != string(ArchetypeVeteran) {
		t.Errorf("missing model should fall back to veteran, got %s", got)
	}
}
