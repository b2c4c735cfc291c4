package hexmap

// Hex is an axial hex-grid coordinate.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// directions lists the six axial neighbor offsets, clockwise from east.
var directions = [6]Hex{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// Add returns the component-wise sum of two coordinates.
func (h Hex) Add(o Hex) Hex {
	return Hex{h.Q + o.Q, h.R + o.R}
}

// Neighbors returns the six adjacent coordinates, clockwise from east.
// Callers must filter against the map bounds.
func (h Hex) Neighbors() [6]Hex {
	var out [6]Hex
	for i, d := range directions {
		out[i] = h.Add(d)
	}
	return out
}

// DistanceTo returns the hex-grid distance between two coordinates.
func (h Hex) DistanceTo(o Hex) int {
	dq := h.Q - o.Q
	dr := h.R - o.R
	ds := -dq - dr
	return (abs(dq) + abs(dr) + abs(ds)) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
