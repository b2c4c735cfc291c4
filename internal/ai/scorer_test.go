package ai

import "testing"

func TestScorerSeededReproducibility(t *testing.T) {
	p := NewCustomPersonality("sloppy", 3, 3, 1)
	a := NewScorer(99)
	b := NewScorer(99)

	for i := 0; i < 20; i++ {
		pa, _ := a.Score(5, GoalInflictCasualties, p, StateActiveEngagement, 1)
		pb, _ := b.Score(5, GoalInflictCasualties, p, StateActiveEngagement, 1)
		if pa != pb {
			t.Fatalf("iteration %d: same seed diverged: %f vs %f", i, pa, pb)
		}
	}
}

func TestScorePreciseIsNoiseless(t *testing.T) {
	// Max precision zeroes the mistake frequency, so scoring is exact.
	p := NewCustomPersonality("sharp", 3, 3, TraitMax)
	s := NewScorer(1)

	want := 5*p.WeightFor(GoalSecureObjective)*1.0 - 1*(1+0)*(1.5-0.5)
	got, _ := s.Score(5, GoalSecureObjective, p, StateActiveDefense, 1)
	if got != want {
		t.Errorf("expected exact score %f, got %f", want, got)
	}
}

func TestScoreStateBoost(t *testing.T) {
	p := NewCustomPersonality("sharp", 3, 3, TraitMax)
	s := NewScorer(1)

	pursuit, _ := s.Score(5, GoalInflictCasualties, p, StatePursuit, 0)
	defense, _ := s.Score(5, GoalInflictCasualties, p, StateActiveDefense, 0)
	if pursuit <= defense {
		t.Errorf("pursuit should boost casualties over defense: %f vs %f", pursuit, defense)
	}
}

func TestScoreRiskPenalty(t *testing.T) {
	p := NewCustomPersonality("sharp", 3, 3, TraitMax)
	s := NewScorer(1)

	safe, _ := s.Score(5, GoalInflictCasualties, p, StateActiveEngagement, 0)
	risky, _ := s.Score(5, GoalInflictCasualties, p, StateActiveEngagement, 3)
	if risky >= safe {
		t.Errorf("risk should lower priority: %f vs %f", risky, safe)
	}
}

func TestNoiseBand(t *testing.T) {
	s := NewScorer(7)
	if v := s.Noise(0); v != 0 {
		t.Errorf("zero band should be silent, got %f", v)
	}
	for i := 0; i < 100; i++ {
		v := s.Noise(0.1)
		if v < -0.1 || v > 0.1 {
			t.Fatalf("noise %f outside band", v)
		}
	}
}
