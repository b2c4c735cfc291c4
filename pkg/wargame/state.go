package wargame

import "github.com/kwestra/hexfront/pkg/hexmap"

// Side identifies one of the two fighting sides.
type Side string

const (
	Blue Side = "blue"
	Red  Side = "red"
)

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == Blue {
		return Red
	}
	return Blue
}

// PhaseType represents the type of game phase.
type PhaseType string

const (
	PhaseMovement PhaseType = "movement"
	PhaseAction   PhaseType = "action"
)

// Objective is a map location worth holding.
type Objective struct {
	ID    string     `json:"id"`
	Pos   hexmap.Hex `json:"pos"`
	Owner Side       `json:"owner,omitempty"` // empty until first secured
}

// GameState is a complete snapshot of the battle at a point in time. The AI
// engine borrows it read-only for the duration of one decision pass.
type GameState struct {
	Turn          int          `json:"turn"`
	Phase         PhaseType    `json:"phase"`
	ActiveSide    Side         `json:"activeSide"`
	Units         []Unit       `json:"units"`
	Objectives    []Objective  `json:"objectives"`
	CommandPoints map[Side]int `json:"commandPoints"`
}

// UnitByID returns the unit with the given id, or nil if absent.
func (gs *GameState) UnitByID(id UnitID) *Unit {
	for i := range gs.Units {
		if gs.Units[i].ID == id {
			return &gs.Units[i]
		}
	}
	return nil
}

// UnitAt returns the living unit occupying a hex, or nil if none.
func (gs *GameState) UnitAt(pos hexmap.Hex) *Unit {
	for i := range gs.Units {
		if gs.Units[i].Pos == pos && gs.Units[i].Alive() && !gs.Units[i].Embarked() {
			return &gs.Units[i]
		}
	}
	return nil
}

// UnitsOf returns all living units belonging to a side.
func (gs *GameState) UnitsOf(side Side) []Unit {
	var units []Unit
	for _, u := range gs.Units {
		if u.Side == side && u.Alive() {
			units = append(units, u)
		}
	}
	return units
}

// VisibleEnemies returns living enemy units that the given side can see:
// everything not hidden, plus hidden units within some friendly unit's
// detection radius.
func (gs *GameState) VisibleEnemies(side Side) []Unit {
	friends := gs.UnitsOf(side)
	var out []Unit
	for _, u := range gs.Units {
		if u.Side == side || !u.Alive() || u.Embarked() {
			continue
		}
		if !u.Hidden {
			out = append(out, u)
			continue
		}
		for _, f := range friends {
			if f.Pos.DistanceTo(u.Pos) <= f.Detect {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// UnitCount returns the number of living units on a side.
func (gs *GameState) UnitCount(side Side) int {
	count := 0
	for _, u := range gs.Units {
		if u.Side == side && u.Alive() {
			count++
		}
	}
	return count
}

// TotalHP returns the summed hit points of a side's living units.
func (gs *GameState) TotalHP(side Side) int {
	total := 0
	for _, u := range gs.Units {
		if u.Side == side && u.Alive() {
			total += u.HP
		}
	}
	return total
}

// ObjectivesHeld returns how many objectives a side controls.
func (gs *GameState) ObjectivesHeld(side Side) int {
	count := 0
	for _, o := range gs.Objectives {
		if o.Owner == side {
			count++
		}
	}
	return count
}

// CommandPointsOf returns the side's available command points.
func (gs *GameState) CommandPointsOf(side Side) int {
	if gs.CommandPoints == nil {
		return 0
	}
	return gs.CommandPoints[side]
}
