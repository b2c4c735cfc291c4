package ai

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// Evaluator scores a battlefield position for the acting side, higher being
// better. The ONNX evaluator implements it for the top difficulty tier; a
// nil evaluator disables the extra signal.
type Evaluator interface {
	EvaluatePosition(ctx *Context) (float64, error)
}

// DecisionMaker enumerates actionable units and produces the ranked proposal
// list for one decision pass.
type DecisionMaker struct {
	scorer    *Scorer
	evaluator Evaluator
	log       zerolog.Logger
}

// NewDecisionMaker creates a decision maker around a scorer. The evaluator
// is optional.
func NewDecisionMaker(scorer *Scorer, evaluator Evaluator) *DecisionMaker {
	return &DecisionMaker{
		scorer:    scorer,
		evaluator: evaluator,
		log:       log.With().Str("component", "decisionmaker").Logger(),
	}
}

// MakeDecisions runs the per-unit pipeline, merges the counter-tactics plan,
// drops unaffordable proposals against a running command point budget, and
// returns the list sorted by descending priority. Zero actionable units
// yields an empty list, never an error; a failing unit is skipped, never
// aborting the pass.
func (dm *DecisionMaker) MakeDecisions(ctx *Context, p PersonalityModel, state BehaviorState, plan CounterPlan) []Proposal {
	units := ctx.ActionableUnits()
	if len(units) == 0 {
		return nil
	}
	orderUnits(units, p)

	enemies := ctx.VisibleEnemies()

	var all []Proposal
	for _, u := range units {
		prop, ok := dm.bestProposalFor(u, enemies, ctx, p, state)
		if ok {
			all = append(all, prop)
		}
	}

	all = IntegrateCounterTactics(plan, all)
	sortProposals(all)

	// Enforce affordability against a running budget so the returned list is
	// executable as a whole. Infeasible proposals are dropped, not errors.
	budget := ctx.Resources()
	kept := all[:0]
	for _, prop := range all {
		if prop.Cost > budget {
			continue
		}
		budget -= prop.Cost
		kept = append(kept, prop)
	}
	return kept
}

// orderUnits sorts the evaluation order by a personality-influenced unit
// priority: high aggression leads with striking power, high foresight leads
// with remaining action budget, otherwise unit id keeps things stable.
func orderUnits(units []wargame.Unit, p PersonalityModel) {
	sort.SliceStable(units, func(i, j int) bool {
		switch {
		case p.Aggression >= 4:
			if units[i].Attack != units[j].Attack {
				return units[i].Attack > units[j].Attack
			}
		case p.Foresight >= 4:
			bi := budgetOf(units[i])
			bj := budgetOf(units[j])
			if bi != bj {
				return bi > bj
			}
		}
		return units[i].ID < units[j].ID
	})
}

func budgetOf(u wargame.Unit) int {
	b := 0
	if !u.Moved {
		b += u.Move
	}
	if !u.Acted {
		b++
	}
	return b
}

// bestProposalFor runs proposal steps 1-5 for one unit and keeps the highest
// scoring candidate. A panicking collaborator skips only this unit.
func (dm *DecisionMaker) bestProposalFor(u wargame.Unit, enemies []wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) (best Proposal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			dm.log.Warn().
				Str("unit", string(u.ID)).
				Interface("panic", r).
				Msg("Collaborator failure during unit evaluation, skipping unit")
			ok = false
		}
	}()

	var candidates []Proposal

	// Step 1: concealment management.
	if c, found := dm.concealmentProposal(u, ctx, p, state); found {
		candidates = append(candidates, c)
	}

	// Step 2: engagement.
	if !u.Acted && !u.Hidden {
		if c, found := dm.attackProposal(u, enemies, ctx, p, state); found {
			candidates = append(candidates, c)
		}
	}

	// Step 3: movement.
	if !u.Moved {
		candidates = append(candidates, dm.movementProposals(u, enemies, ctx, p, state)...)
	}

	// Step 4: special abilities.
	if !u.Acted {
		if c, found := dm.abilityProposal(u, enemies, ctx, p, state); found {
			candidates = append(candidates, c)
		}
	}

	// Step 5: load/unload and launch/recovery.
	candidates = append(candidates, dm.cargoProposals(u, ctx, p, state)...)

	if len(candidates) == 0 {
		return Proposal{}, false
	}
	best = candidates[0]
	for _, c := range candidates[1:] {
		if c.Priority > best.Priority {
			best = c
		}
	}
	return best, true
}

// concealmentProposal emits a reveal when an enemy is close enough to make
// an ambush worthwhile, or a hide when a stealth-capable unit is exposed
// with no enemy in sight.
func (dm *DecisionMaker) concealmentProposal(u wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) (Proposal, bool) {
	nearest := ctx.NearestEnemyDistance(u)

	if u.Hidden {
		if nearest < 0 || nearest > u.Range+1 {
			return Proposal{}, false
		}
		base := 3 + float64(max(0, 5-nearest))
		priority, reason := dm.scorer.Score(base, GoalHiddenOperations, p, state, 1)
		return Proposal{
			Kind:     ActionReveal,
			UnitID:   u.ID,
			Goal:     GoalHiddenOperations,
			Priority: priority,
			Reason:   fmt.Sprintf("ambush range reached (enemy at %d): %s", nearest, reason),
		}, true
	}

	if u.CanHide() && !u.Acted && nearest < 0 {
		priority, reason := dm.scorer.Score(2, GoalHiddenOperations, p, state, 0.5)
		return Proposal{
			Kind:     ActionHide,
			UnitID:   u.ID,
			Goal:     GoalHiddenOperations,
			Priority: priority,
			Reason:   "no contact, going to ground: " + reason,
		}, true
	}

	return Proposal{}, false
}

// attackProposal picks the highest-confidence recommended engagement, ties
// broken by lower target id.
func (dm *DecisionMaker) attackProposal(u wargame.Unit, enemies []wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) (Proposal, bool) {
	targets := FindValidTargets(u, enemies, ctx)
	if len(targets) == 0 {
		return Proposal{}, false
	}

	var bestTarget *wargame.Unit
	var bestEng Engagement
	for i := range targets {
		eng := AnalyzeEngagement(u, targets[i], ctx, p, dm.scorer)
		if !eng.ShouldEngage {
			continue
		}
		if bestTarget == nil ||
			eng.Confidence > bestEng.Confidence ||
			(eng.Confidence == bestEng.Confidence && targets[i].ID < bestTarget.ID) {
			bestTarget = &targets[i]
			bestEng = eng
		}
	}
	if bestTarget == nil {
		return Proposal{}, false
	}

	base := 4 + bestEng.Confidence*6
	risk := (1 - bestEng.Confidence) * 3
	priority, reason := dm.scorer.Score(base, GoalInflictCasualties, p, state, risk)
	return Proposal{
		Kind:     ActionAttack,
		UnitID:   u.ID,
		TargetID: bestTarget.ID,
		Goal:     GoalInflictCasualties,
		Priority: priority,
		Reason:   bestEng.Reason + ": " + reason,
	}, true
}

// movementProposals evaluates movement toward objectives, toward a priority
// enemy, and toward defensive cover. An empty reachable set is a normal
// outcome, not an error: boundary hexes the map collaborator reports as
// unreachable simply produce no candidate.
func (dm *DecisionMaker) movementProposals(u wargame.Unit, enemies []wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) []Proposal {
	reachable := ctx.Map.ReachableWithin(u.Pos, u.Move)
	if len(reachable) == 0 {
		return nil
	}

	// Keep only unoccupied, on-map destinations.
	var open []hexmap.Hex
	for _, h := range reachable {
		if !ctx.Map.Contains(h) {
			continue
		}
		if ctx.State.UnitAt(h) != nil {
			continue
		}
		open = append(open, h)
	}
	if len(open) == 0 {
		return nil
	}

	evalBonus := dm.positionBonus(ctx, p)
	var out []Proposal

	// Advance on the nearest objective we do not control.
	if obj, dest, gain := closestObjectiveApproach(u, open, ctx); gain > 0 {
		goal := GoalSecureObjective
		kind := ActionMove
		base := 2 + float64(gain) + evalBonus
		if dest == obj.Pos {
			kind = ActionSecure
			base += 3
		}
		priority, reason := dm.scorer.Score(base, goal, p, state, 0.5)
		out = append(out, Proposal{
			Kind: kind, UnitID: u.ID, Dest: dest, Goal: goal,
			Priority: priority,
			Reason:   fmt.Sprintf("advancing on objective %s: %s", obj.ID, reason),
		})
	}

	// Close the distance to the nearest visible enemy.
	if len(enemies) > 0 {
		if dest, gain := closingApproach(u, open, enemies); gain > 0 {
			base := 1 + float64(gain) + evalBonus
			priority, reason := dm.scorer.Score(base, GoalInflictCasualties, p, state, 1)
			out = append(out, Proposal{
				Kind: ActionMove, UnitID: u.ID, Dest: dest, Goal: GoalInflictCasualties,
				Priority: priority,
				Reason:   "closing with the enemy: " + reason,
			})
		}
	}

	// Fall back toward cover, away from the nearest threat.
	if dest, ok := coverApproach(u, open, enemies, ctx); ok {
		base := 1 + ctx.Map.CoverModifier(dest)*8
		priority, reason := dm.scorer.Score(base, GoalPreserveForce, p, state, 0.3)
		out = append(out, Proposal{
			Kind: ActionMove, UnitID: u.ID, Dest: dest, Goal: GoalPreserveForce,
			Priority: priority,
			Reason:   "taking covered ground: " + reason,
		})
	}

	return out
}

// positionBonus asks the optional evaluator for a position signal, scaled by
// tactical complexity. Evaluator failures degrade to zero silently.
func (dm *DecisionMaker) positionBonus(ctx *Context, p PersonalityModel) float64 {
	if dm.evaluator == nil {
		return 0
	}
	v, err := dm.evaluator.EvaluatePosition(ctx)
	if err != nil {
		dm.log.Debug().Err(err).Msg("Position evaluator failed, continuing without it")
		return 0
	}
	return v * p.TacticalComplexity
}

// closestObjectiveApproach finds the open destination that most reduces the
// distance to the nearest objective not held by this side.
func closestObjectiveApproach(u wargame.Unit, open []hexmap.Hex, ctx *Context) (wargame.Objective, hexmap.Hex, int) {
	var bestObj wargame.Objective
	bestDist := -1
	for _, o := range ctx.State.Objectives {
		if o.Owner == ctx.Side {
			continue
		}
		d := u.Pos.DistanceTo(o.Pos)
		if bestDist < 0 || d < bestDist {
			bestObj = o
			bestDist = d
		}
	}
	if bestDist < 0 {
		return wargame.Objective{}, hexmap.Hex{}, 0
	}

	dest := u.Pos
	destDist := bestDist
	for _, h := range open {
		if d := h.DistanceTo(bestObj.Pos); d < destDist {
			dest = h
			destDist = d
		}
	}
	return bestObj, dest, bestDist - destDist
}

// closingApproach finds the open destination that most reduces the distance
// to the closest enemy.
func closingApproach(u wargame.Unit, open []hexmap.Hex, enemies []wargame.Unit) (hexmap.Hex, int) {
	nearest := enemies[0]
	for _, e := range enemies[1:] {
		if u.Pos.DistanceTo(e.Pos) < u.Pos.DistanceTo(nearest.Pos) {
			nearest = e
		}
	}

	cur := u.Pos.DistanceTo(nearest.Pos)
	dest := u.Pos
	destDist := cur
	for _, h := range open {
		if d := h.DistanceTo(nearest.Pos); d < destDist {
			dest = h
			destDist = d
		}
	}
	return dest, cur - destDist
}

// coverApproach finds an open destination with better cover that does not
// close with the nearest enemy.
func coverApproach(u wargame.Unit, open []hexmap.Hex, enemies []wargame.Unit, ctx *Context) (hexmap.Hex, bool) {
	curCover := ctx.Map.CoverModifier(u.Pos)
	var best hexmap.Hex
	bestCover := curCover
	found := false
	for _, h := range open {
		c := ctx.Map.CoverModifier(h)
		if c <= bestCover {
			continue
		}
		if len(enemies) > 0 {
			nearest := enemies[0]
			for _, e := range enemies[1:] {
				if u.Pos.DistanceTo(e.Pos) < u.Pos.DistanceTo(nearest.Pos) {
					nearest = e
				}
			}
			if h.DistanceTo(nearest.Pos) < u.Pos.DistanceTo(nearest.Pos) {
				continue
			}
		}
		best = h
		bestCover = c
		found = true
	}
	return best, found
}

// abilityProposal scores the unit's unused abilities whose phase, range, and
// cost preconditions hold, keeping the best.
func (dm *DecisionMaker) abilityProposal(u wargame.Unit, enemies []wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) (Proposal, bool) {
	var best Proposal
	found := false
	for _, ab := range u.UnusedAbilities() {
		if ab.Phase != "" && ab.Phase != ctx.State.Phase {
			continue
		}
		if ab.Cost > ctx.Resources() {
			continue
		}

		var target *wargame.Unit
		if ab.Damage > 0 {
			for i := range enemies {
				if u.Pos.DistanceTo(enemies[i].Pos) > ab.Range {
					continue
				}
				if target == nil || enemies[i].ID < target.ID {
					target = &enemies[i]
				}
			}
			if target == nil {
				continue
			}
		}

		base := 2 + float64(ab.Damage)
		priority, reason := dm.scorer.Score(base, GoalSpecialOperations, p, state, float64(ab.Cost)*0.3*(1-p.ResourceOptimization))
		if !found || priority > best.Priority {
			prop := Proposal{
				Kind: ActionAbility, UnitID: u.ID, Ability: ab.Name,
				Goal: GoalSpecialOperations, Priority: priority, Cost: ab.Cost,
				Reason: fmt.Sprintf("%s ready: %s", ab.Name, reason),
			}
			if target != nil {
				prop.TargetID = target.ID
			}
			best = prop
			found = true
		}
	}
	return best, found
}

// landingRange is how close an open objective must be before a transport
// disembarks its cargo, and how far a foot unit must be from every open
// objective before a lift beats marching.
const landingRange = 3

// cargoProposals handles transports, launch-and-recovery style: disembark
// cargo once an open objective is within landing range, embark a friendly
// unit stranded far from every open objective.
func (dm *DecisionMaker) cargoProposals(u wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) []Proposal {
	if u.CargoCapacity == 0 || u.Acted {
		return nil
	}
	if len(u.Cargo) > 0 {
		return dm.unloadProposal(u, ctx, p, state)
	}
	return dm.loadProposal(u, ctx, p, state)
}

func (dm *DecisionMaker) unloadProposal(u wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) []Proposal {
	bestDist := distanceToOpenObjective(ctx, u.Pos)
	if bestDist < 0 || bestDist > landingRange {
		return nil
	}

	var dest hexmap.Hex
	found := false
	for _, nb := range u.Pos.Neighbors() {
		if ctx.Map.Contains(nb) && ctx.State.UnitAt(nb) == nil && ctx.Map.CoverModifier(nb) >= 0 {
			dest = nb
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	base := 3 + float64(landingRange-bestDist)
	priority, reason := dm.scorer.Score(base, GoalManageLogistics, p, state, 0.5)
	return []Proposal{{
		Kind: ActionUnload, UnitID: u.ID, TargetID: u.Cargo[0], Dest: dest,
		Goal: GoalManageLogistics, Priority: priority,
		Reason: fmt.Sprintf("objective within landing range (%d): %s", bestDist, reason),
	}}
}

// loadProposal embarks an adjacent friendly foot unit whose march to the
// nearest open objective is long enough that a lift beats walking. The
// passenger farthest from any objective wins; ties keep the first seen.
func (dm *DecisionMaker) loadProposal(u wargame.Unit, ctx *Context, p PersonalityModel, state BehaviorState) []Proposal {
	var rider wargame.UnitID
	riderDist := -1
	for _, t := range ctx.State.UnitsOf(ctx.Side) {
		if !t.Alive() || t.Embarked() || t.ID == u.ID || t.CargoCapacity > 0 {
			continue
		}
		if u.Pos.DistanceTo(t.Pos) != 1 {
			continue
		}
		d := distanceToOpenObjective(ctx, t.Pos)
		if d <= landingRange {
			continue
		}
		if d > riderDist {
			rider, riderDist = t.ID, d
		}
	}
	if riderDist < 0 {
		return nil
	}

	lift := float64(riderDist - landingRange)
	if lift > 4 {
		lift = 4
	}
	priority, reason := dm.scorer.Score(3+lift, GoalManageLogistics, p, state, 0.3)
	return []Proposal{{
		Kind: ActionLoad, UnitID: u.ID, TargetID: rider,
		Goal: GoalManageLogistics, Priority: priority,
		Reason: fmt.Sprintf("lifting %s toward the front (%d hexes out): %s", rider, riderDist, reason),
	}}
}

// distanceToOpenObjective returns the distance from pos to the nearest
// objective this side does not hold, or -1 when every objective is held.
func distanceToOpenObjective(ctx *Context, pos hexmap.Hex) int {
	best := -1
	for _, o := range ctx.State.Objectives {
		if o.Owner == ctx.Side {
			continue
		}
		if d := pos.DistanceTo(o.Pos); best < 0 || d < best {
			best = d
		}
	}
	return best
}
