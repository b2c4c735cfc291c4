package hexmap

// Terrain classifies a hex for movement cost and cover purposes.
type Terrain int

const (
	Open Terrain = iota
	Forest
	Hill
	Marsh
	Urban
	Water
)

// String returns the terrain name used in logs and serialized scenarios.
func (t Terrain) String() string {
	switch t {
	case Open:
		return "open"
	case Forest:
		return "forest"
	case Hill:
		return "hill"
	case Marsh:
		return "marsh"
	case Urban:
		return "urban"
	case Water:
		return "water"
	default:
		return "unknown"
	}
}

// moveCosts maps terrain to movement point cost. -1 is impassable to ground units.
var moveCosts = map[Terrain]int{
	Open:   1,
	Forest: 2,
	Hill:   2,
	Marsh:  3,
	Urban:  1,
	Water:  -1,
}

// coverModifiers maps terrain to the defensive cover bonus applied during
// engagement analysis. Higher means better protected.
var coverModifiers = map[Terrain]float64{
	Open:   0,
	Forest: 0.25,
	Hill:   0.15,
	Marsh:  0.05,
	Urban:  0.35,
	Water:  0,
}

// MoveCost returns the movement point cost to enter terrain, or -1 if impassable.
func (t Terrain) MoveCost() int {
	if c, ok := moveCosts[t]; ok {
		return c
	}
	return 1
}

// CoverModifier returns the defensive cover bonus for terrain.
func (t Terrain) CoverModifier() float64 {
	return coverModifiers[t]
}
