package wargame

import "github.com/kwestra/hexfront/pkg/hexmap"

// UnitID uniquely identifies a unit within one battle.
type UnitID string

// Capability tags what a unit can do beyond basic move-and-shoot.
type Capability string

const (
	CapArtillery  Capability = "artillery"  // indirect fire abilities
	CapRecon      Capability = "recon"      // extended detection radius
	CapTransport  Capability = "transport"  // can carry other units
	CapStealth    Capability = "stealth"    // can hide and ambush
	CapAmphibious Capability = "amphibious" // ship-to-shore launch/recovery
)

// Ability is a special action a unit may use once per battle.
type Ability struct {
	Name   string    `json:"name"`
	Range  int       `json:"range"`
	Cost   int       `json:"cost"` // command points
	Damage int       `json:"damage"`
	Phase  PhaseType `json:"phase"` // phase in which it may be used
	Used   bool      `json:"used"`
}

// Unit is one battlefield piece. The AI engine reads units from a snapshot
// and never mutates them; the turn driver applies results.
type Unit struct {
	ID      UnitID     `json:"id"`
	Side    Side       `json:"side"`
	Name    string     `json:"name"`
	Pos     hexmap.Hex `json:"pos"`
	HP      int        `json:"hp"`
	MaxHP   int        `json:"maxHp"`
	Attack  int        `json:"attack"`
	Defense int        `json:"defense"`
	Move    int        `json:"move"`      // movement point budget per turn
	Range   int        `json:"range"`     // attack range in hexes
	Detect  int        `json:"detect"`    // radius at which hidden enemies are spotted
	Hidden  bool       `json:"hidden"`    // concealed from the enemy
	Moved   bool       `json:"moved"`     // movement budget spent this turn
	Acted   bool       `json:"acted"`     // action budget spent this turn

	Capabilities []Capability `json:"capabilities,omitempty"`
	Abilities    []Ability    `json:"abilities,omitempty"`

	CargoCapacity int      `json:"cargoCapacity,omitempty"`
	Cargo         []UnitID `json:"cargo,omitempty"`
	CarriedBy     UnitID   `json:"carriedBy,omitempty"`
}

// Alive reports whether the unit is still on the board.
func (u Unit) Alive() bool { return u.HP > 0 }

// Has reports whether the unit carries a capability tag.
func (u Unit) Has(c Capability) bool {
	for _, cap := range u.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}

// CanHide reports whether the unit may enter a hidden state.
func (u Unit) CanHide() bool { return u.Has(CapStealth) }

// Embarked reports whether the unit is currently carried by a transport.
func (u Unit) Embarked() bool { return u.CarriedBy != "" }

// UnusedAbilities returns the abilities still available this battle.
func (u Unit) UnusedAbilities() []Ability {
	var out []Ability
	for _, a := range u.Abilities {
		if !a.Used {
			out = append(out, a)
		}
	}
	return out
}
