package hexmap

import "sort"

// Map is a bounded rectangular hex grid with per-hex terrain. All queries are
// pure functions of position; the AI engine treats a Map as its read-only
// terrain, range, and pathfinding collaborator.
type Map struct {
	width  int
	height int
	tiles  map[Hex]Terrain
}

// New creates a map of the given dimensions with all hexes set to Open.
// Valid coordinates are 0 <= Q < width, 0 <= R < height.
func New(width, height int) *Map {
	return &Map{
		width:  width,
		height: height,
		tiles:  make(map[Hex]Terrain),
	}
}

// Width returns the map width in hexes.
func (m *Map) Width() int { return m.width }

// Height returns the map height in hexes.
func (m *Map) Height() int { return m.height }

// Contains reports whether the coordinate lies on the map.
func (m *Map) Contains(h Hex) bool {
	return h.Q >= 0 && h.Q < m.width && h.R >= 0 && h.R < m.height
}

// SetTerrain assigns terrain to a hex. Out-of-bounds assignments are ignored.
func (m *Map) SetTerrain(h Hex, t Terrain) {
	if !m.Contains(h) {
		return
	}
	m.tiles[h] = t
}

// TerrainAt returns the terrain at a hex. Out-of-bounds hexes report Open;
// callers should check Contains first when bounds matter.
func (m *Map) TerrainAt(h Hex) Terrain {
	return m.tiles[h]
}

// Distance returns the hex distance between two coordinates, or -1 if either
// lies off the map.
func (m *Map) Distance(a, b Hex) int {
	if !m.Contains(a) || !m.Contains(b) {
		return -1
	}
	return a.DistanceTo(b)
}

// CoverModifier returns the defensive cover bonus at a hex.
func (m *Map) CoverModifier(h Hex) float64 {
	if !m.Contains(h) {
		return 0
	}
	return m.TerrainAt(h).CoverModifier()
}

// MoveCost returns the cost to enter a hex, or -1 if impassable or off-map.
func (m *Map) MoveCost(h Hex) int {
	if !m.Contains(h) {
		return -1
	}
	return m.TerrainAt(h).MoveCost()
}

// ReachableWithin returns every hex reachable from the origin within the
// given movement budget, excluding the origin itself. Uses uniform-cost
// search over terrain move costs. The result is sorted by (Q, R) so callers
// iterate deterministically.
func (m *Map) ReachableWithin(from Hex, budget int) []Hex {
	if !m.Contains(from) || budget <= 0 {
		return nil
	}

	best := map[Hex]int{from: 0}
	frontier := []Hex{from}
	for len(frontier) > 0 {
		// Pop the cheapest frontier hex. Frontiers stay small on tactical
		// maps, so a linear scan beats a heap here.
		mi := 0
		for i := 1; i < len(frontier); i++ {
			if best[frontier[i]] < best[frontier[mi]] {
				mi = i
			}
		}
		cur := frontier[mi]
		frontier = append(frontier[:mi], frontier[mi+1:]...)

		for _, nb := range cur.Neighbors() {
			cost := m.MoveCost(nb)
			if cost < 0 {
				continue
			}
			total := best[cur] + cost
			if total > budget {
				continue
			}
			if prev, seen := best[nb]; !seen || total < prev {
				best[nb] = total
				frontier = append(frontier, nb)
			}
		}
	}

	out := make([]Hex, 0, len(best)-1)
	for h := range best {
		if h != from {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Q != out[j].Q {
			return out[i].Q < out[j].Q
		}
		return out[i].R < out[j].R
	})
	return out
}

// PathExists reports whether a path from one hex to another exists within the
// movement budget. A budget of 0 or less means unlimited.
func (m *Map) PathExists(from, to Hex, budget int) bool {
	if !m.Contains(from) || !m.Contains(to) {
		return false
	}
	if from == to {
		return true
	}
	if budget <= 0 {
		budget = m.width * m.height * 3
	}
	for _, h := range m.ReachableWithin(from, budget) {
		if h == to {
			return true
		}
	}
	return false
}
