package ai

import (
	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// MapQuerier is the read-only terrain/range/pathfinding collaborator the
// engine consumes. *hexmap.Map satisfies it; tests may stub it.
type MapQuerier interface {
	Contains(h hexmap.Hex) bool
	Distance(a, b hexmap.Hex) int
	CoverModifier(h hexmap.Hex) float64
	ReachableWithin(from hexmap.Hex, budget int) []hexmap.Hex
}

// Context is the read-only projection of the battlefield supplied for one
// decision pass. It is borrowed from the turn driver and never retained.
type Context struct {
	State *wargame.GameState
	Map   MapQuerier
	Side  wargame.Side

	// RecentEnemyActions is the rolling window the counter-tactics analyzer
	// classifies. The turn driver appends to it between passes.
	RecentEnemyActions []ActionRecord
}

// ActionableUnits returns the side's living units that still have movement
// or action budget this phase, excluding embarked cargo.
func (c *Context) ActionableUnits() []wargame.Unit {
	var out []wargame.Unit
	for _, u := range c.State.UnitsOf(c.Side) {
		if u.Embarked() {
			continue
		}
		if u.Moved && u.Acted {
			continue
		}
		out = append(out, u)
	}
	return out
}

// VisibleEnemies returns the enemy units this side can currently see.
func (c *Context) VisibleEnemies() []wargame.Unit {
	return c.State.VisibleEnemies(c.Side)
}

// Resources returns the side's available command points.
func (c *Context) Resources() int {
	return c.State.CommandPointsOf(c.Side)
}

// NearestEnemyDistance returns the hex distance from a unit to the closest
// visible enemy, or -1 when no enemy is visible.
func (c *Context) NearestEnemyDistance(u wargame.Unit) int {
	best := -1
	for _, e := range c.VisibleEnemies() {
		d := u.Pos.DistanceTo(e.Pos)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
