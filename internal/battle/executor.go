package battle

import (
	"fmt"
	"math/rand"

	"github.com/kwestra/hexfront/internal/ai"
	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// executeProposals applies one decision pass against the battle rules and
// returns per-proposal results (index-matched) plus the action records the
// opposing AI will see in its counter-tactics window. Proposals that fail
// validation produce a failed result instead of aborting the pass.
func executeProposals(
	gs *wargame.GameState,
	m *hexmap.Map,
	props []ai.Proposal,
	rng *rand.Rand,
) ([]wargame.ActionResult, []ai.ActionRecord) {
	results := make([]wargame.ActionResult, 0, len(props))
	records := make([]ai.ActionRecord, 0, len(props))

	for _, p := range props {
		unit := gs.UnitByID(p.UnitID)
		if unit == nil || !unit.Alive() {
			results = append(results, fail(p.UnitID, "unit unavailable"))
			continue
		}
		if p.Cost > 0 && gs.CommandPoints[unit.Side] < p.Cost {
			results = append(results, fail(p.UnitID, "insufficient command points"))
			continue
		}

		from := unit.Pos
		res := applyProposal(gs, m, unit, p, rng)
		if res.Success && p.Cost > 0 {
			gs.CommandPoints[unit.Side] -= p.Cost
		}
		results = append(results, res)

		if res.Success {
			records = append(records, ai.ActionRecord{
				Kind:   p.Kind,
				UnitID: p.UnitID,
				From:   from,
				To:     unit.Pos,
				Turn:   gs.Turn,
			})
		}
	}
	return results, records
}

func applyProposal(gs *wargame.GameState, m *hexmap.Map, unit *wargame.Unit, p ai.Proposal, rng *rand.Rand) wargame.ActionResult {
	switch p.Kind {
	case ai.ActionMove, ai.ActionSecure:
		return applyMove(gs, m, unit, p)
	case ai.ActionAttack:
		return applyAttack(gs, m, unit, p, rng)
	case ai.ActionAbility:
		return applyAbility(gs, unit, p)
	case ai.ActionReveal:
		unit.Hidden = false
		unit.Acted = true
		return ok(unit.ID, "revealed")
	case ai.ActionHide:
		if !unit.CanHide() {
			return fail(unit.ID, "unit cannot hide")
		}
		unit.Hidden = true
		unit.Acted = true
		return ok(unit.ID, "hidden")
	case ai.ActionLoad:
		return applyLoad(gs, unit, p)
	case ai.ActionUnload:
		return applyUnload(gs, m, unit, p)
	default:
		return fail(unit.ID, fmt.Sprintf("unknown action kind %q", p.Kind))
	}
}

func applyMove(gs *wargame.GameState, m *hexmap.Map, unit *wargame.Unit, p ai.Proposal) wargame.ActionResult {
	if unit.Moved {
		return fail(unit.ID, "already moved")
	}
	if !m.Contains(p.Dest) {
		return fail(unit.ID, "destination off map")
	}
	if occ := gs.UnitAt(p.Dest); occ != nil && occ.ID != unit.ID {
		return fail(unit.ID, "destination occupied")
	}
	if !m.PathExists(unit.Pos, p.Dest, unit.Move) {
		return fail(unit.ID, "no path within movement budget")
	}

	unit.Pos = p.Dest
	unit.Moved = true
	// Moving breaks concealment unless the mover is stealth-capable.
	if unit.Hidden && !unit.CanHide() {
		unit.Hidden = false
	}
	return ok(unit.ID, fmt.Sprintf("moved to (%d,%d)", p.Dest.Q, p.Dest.R))
}

func applyAttack(gs *wargame.GameState, m *hexmap.Map, unit *wargame.Unit, p ai.Proposal, rng *rand.Rand) wargame.ActionResult {
	if unit.Acted {
		return fail(unit.ID, "already acted")
	}
	target := gs.UnitByID(p.TargetID)
	if target == nil || !target.Alive() {
		return fail(unit.ID, "target gone")
	}
	if unit.Pos.DistanceTo(target.Pos) > unit.Range {
		return fail(unit.ID, "target out of range")
	}

	cover := m.CoverModifier(target.Pos)
	damage, destroyed := wargame.ResolveAttack(unit, target, cover, rng)
	unit.Acted = true

	return wargame.ActionResult{
		UnitID:          unit.ID,
		Success:         true,
		Message:         fmt.Sprintf("%s hit %s for %d", unit.ID, target.ID, damage),
		Damage:          damage,
		TargetDestroyed: destroyed,
	}
}

func applyAbility(gs *wargame.GameState, unit *wargame.Unit, p ai.Proposal) wargame.ActionResult {
	if unit.Acted {
		return fail(unit.ID, "already acted")
	}
	var ability *wargame.Ability
	for i := range unit.Abilities {
		if unit.Abilities[i].Name == p.Ability && !unit.Abilities[i].Used {
			ability = &unit.Abilities[i]
			break
		}
	}
	if ability == nil {
		return fail(unit.ID, "ability unavailable")
	}

	var target *wargame.Unit
	if p.TargetID != "" {
		target = gs.UnitByID(p.TargetID)
		if target == nil || !target.Alive() {
			return fail(unit.ID, "ability target gone")
		}
		if unit.Pos.DistanceTo(target.Pos) > ability.Range {
			return fail(unit.ID, "ability target out of range")
		}
	}

	ability.Used = true
	unit.Acted = true
	return wargame.ResolveAbility(unit, *ability, target)
}

func applyLoad(gs *wargame.GameState, unit *wargame.Unit, p ai.Proposal) wargame.ActionResult {
	cargo := gs.UnitByID(p.TargetID)
	if cargo == nil || !cargo.Alive() || cargo.Embarked() {
		return fail(unit.ID, "cargo unavailable")
	}
	if len(unit.Cargo) >= unit.CargoCapacity {
		return fail(unit.ID, "transport full")
	}
	if unit.Pos.DistanceTo(cargo.Pos) > 1 {
		return fail(unit.ID, "cargo not adjacent")
	}

	cargo.CarriedBy = unit.ID
	cargo.Pos = unit.Pos
	unit.Cargo = append(unit.Cargo, cargo.ID)
	unit.Acted = true
	return ok(unit.ID, fmt.Sprintf("loaded %s", cargo.ID))
}

func applyUnload(gs *wargame.GameState, m *hexmap.Map, unit *wargame.Unit, p ai.Proposal) wargame.ActionResult {
	if len(unit.Cargo) == 0 {
		return fail(unit.ID, "no cargo")
	}
	if !m.Contains(p.Dest) || m.MoveCost(p.Dest) < 0 {
		return fail(unit.ID, "cannot unload there")
	}
	if gs.UnitAt(p.Dest) != nil {
		return fail(unit.ID, "unload hex occupied")
	}
	if unit.Pos.DistanceTo(p.Dest) > 1 {
		return fail(unit.ID, "unload hex not adjacent")
	}

	cargoID := unit.Cargo[0]
	cargo := gs.UnitByID(cargoID)
	if cargo == nil {
		return fail(unit.ID, "cargo missing")
	}
	cargo.CarriedBy = ""
	cargo.Pos = p.Dest
	unit.Cargo = unit.Cargo[1:]
	unit.Acted = true
	return ok(unit.ID, fmt.Sprintf("unloaded %s at (%d,%d)", cargoID, p.Dest.Q, p.Dest.R))
}

func ok(id wargame.UnitID, msg string) wargame.ActionResult {
	return wargame.ActionResult{UnitID: id, Success: true, Message: msg}
}

func fail(id wargame.UnitID, msg string) wargame.ActionResult {
	return wargame.ActionResult{UnitID: id, Success: false, Message: msg}
}
