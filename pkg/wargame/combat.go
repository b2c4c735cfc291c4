package wargame

import (
	"fmt"
	"math/rand"
)

// ActionResult reports the outcome of one executed action back to the AI
// controller's feedback entry points.
type ActionResult struct {
	UnitID          UnitID `json:"unitId"`
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Damage          int    `json:"damage,omitempty"`
	TargetDestroyed bool   `json:"targetDestroyed,omitempty"`
}

// ResolveAttack computes damage from attacker to defender and applies it.
// Cover reduces effective attack strength; the die roll spreads damage
// between 50% and 150% of the base. Returns the damage dealt and whether the
// defender was destroyed. The rng must not be nil so battles are replayable
// from a seed.
func ResolveAttack(attacker, defender *Unit, cover float64, rng *rand.Rand) (int, bool) {
	effAttack := float64(attacker.Attack) * (1 - cover)
	effDefense := float64(defender.Defense)
	if effDefense < 1 {
		effDefense = 1
	}

	base := effAttack * effAttack / (effAttack + effDefense)
	roll := 0.5 + rng.Float64()
	damage := int(base * roll)
	if damage < 1 {
		damage = 1
	}

	defender.HP -= damage
	destroyed := defender.HP <= 0
	if destroyed {
		defender.HP = 0
	}

	// Attacking from ambush reveals the unit.
	attacker.Hidden = false

	return damage, destroyed
}

// ResolveAbility applies an ability's fixed damage to a target, if any.
func ResolveAbility(user *Unit, ability Ability, target *Unit) ActionResult {
	res := ActionResult{UnitID: user.ID, Success: true}
	if target != nil && ability.Damage > 0 {
		target.HP -= ability.Damage
		res.Damage = ability.Damage
		if target.HP <= 0 {
			target.HP = 0
			res.TargetDestroyed = true
		}
		res.Message = fmt.Sprintf("%s hit %s for %d", ability.Name, target.ID, ability.Damage)
	} else {
		res.Message = fmt.Sprintf("%s used %s", user.ID, ability.Name)
	}
	return res
}
