package ai

import (
	"fmt"

	"github.com/kwestra/hexfront/pkg/wargame"
)

// selfPreservationFloor is the health fraction below which a unit refuses to
// initiate combat, unless its side's aggression is at the maximum tier.
const selfPreservationFloor = 0.25

// engageThresholdBase is the nominal confidence a target must clear before
// an attack is recommended, before personality modulation.
const engageThresholdBase = 0.3

// Engagement is the analyzer's verdict on one unit-vs-target matchup.
type Engagement struct {
	ShouldEngage bool
	Confidence   float64
	Reason       string
}

// FindValidTargets filters candidate enemies down to those this unit could
// legally attack: alive, on the board, within effective range, and either
// visible outright or close enough for the unit's detection radius to reveal
// them.
func FindValidTargets(u wargame.Unit, candidates []wargame.Unit, ctx *Context) []wargame.Unit {
	var out []wargame.Unit
	for _, t := range candidates {
		if !t.Alive() || t.Embarked() || t.Side == u.Side {
			continue
		}
		if !ctx.Map.Contains(t.Pos) {
			continue
		}
		d := u.Pos.DistanceTo(t.Pos)
		if d > u.Range {
			continue
		}
		if t.Hidden && d > u.Detect {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AnalyzeEngagement scores one matchup. Confidence derives from the ratio of
// our effective punch against theirs, with the defender's terrain cover
// applied on both ends. Aggression raises confidence; precision narrows the
// noise band. A unit below the self-preservation floor will not engage
// unless aggression is maxed.
func AnalyzeEngagement(u, target wargame.Unit, ctx *Context, p PersonalityModel, s *Scorer) Engagement {
	targetCover := ctx.Map.CoverModifier(target.Pos)
	ownCover := ctx.Map.CoverModifier(u.Pos)

	ourPunch := float64(u.Attack) / (float64(target.Defense) * (1 + targetCover))
	theirPunch := float64(target.Attack) / (float64(u.Defense) * (1 + ownCover))
	if theirPunch < 0.1 {
		theirPunch = 0.1
	}

	ratio := ourPunch / theirPunch
	confidence := ratio / (ratio + 1)

	confidence += float64(p.Aggression-3) * 0.04
	confidence += s.Noise((1 - float64(p.Precision)/float64(TraitMax)) * 0.08)
	confidence = clamp01(confidence)

	threshold := engageThresholdBase + float64(3-p.Aggression)*0.04

	eng := Engagement{Confidence: confidence}
	healthFrac := float64(u.HP) / float64(u.MaxHP)
	switch {
	case healthFrac < selfPreservationFloor && p.Aggression < TraitMax:
		eng.Reason = fmt.Sprintf("below self-preservation floor (%.0f%% health)", healthFrac*100)
	case confidence > threshold:
		eng.ShouldEngage = true
		eng.Reason = fmt.Sprintf("favorable matchup vs %s (confidence %.2f)", target.ID, confidence)
	default:
		eng.Reason = fmt.Sprintf("unfavorable matchup vs %s (confidence %.2f < %.2f)", target.ID, confidence, threshold)
	}
	return eng
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
