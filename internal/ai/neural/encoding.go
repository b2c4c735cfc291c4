// Package neural encodes battlefield snapshots into the flat feature
// tensors the ONNX position evaluator consumes.
package neural

import (
	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// NumFeatures is the per-hex feature width of the board encoding.
const NumFeatures = 8

// Feature channel indices within one hex's feature vector.
const (
	featOwnHP = iota // own unit HP fraction
	featOwnAttack
	featEnemyHP
	featEnemyAttack
	featCover
	featOwnObjective
	featEnemyObjective
	featHidden
)

// attackNorm scales raw attack values into [0,1]. Tuned to the stat ranges
// the scenario generator produces.
const attackNorm = 10.0

// BoardSize returns the number of hexes in the flattened encoding.
func BoardSize(m *hexmap.Map) int {
	return m.Width() * m.Height()
}

// EncodeBattlefield flattens a snapshot into a [hexes * NumFeatures] tensor
// from the given side's point of view. Row-major over (Q, R).
func EncodeBattlefield(gs *wargame.GameState, m *hexmap.Map, side wargame.Side) []float32 {
	data := make([]float32, BoardSize(m)*NumFeatures)

	idx := func(h hexmap.Hex) int {
		return (h.Q*m.Height() + h.R) * NumFeatures
	}

	for q := 0; q < m.Width(); q++ {
		for r := 0; r < m.Height(); r++ {
			h := hexmap.Hex{Q: q, R: r}
			data[idx(h)+featCover] = float32(m.CoverModifier(h))
		}
	}

	for _, u := range gs.Units {
		if !u.Alive() || u.Embarked() || !m.Contains(u.Pos) {
			continue
		}
		base := idx(u.Pos)
		hpFrac := float32(u.HP) / float32(u.MaxHP)
		attack := float32(u.Attack) / attackNorm
		if u.Side == side {
			data[base+featOwnHP] += hpFrac
			data[base+featOwnAttack] += attack
		} else {
			data[base+featEnemyHP] += hpFrac
			data[base+featEnemyAttack] += attack
		}
		if u.Hidden {
			data[base+featHidden] = 1
		}
	}

	for _, o := range gs.Objectives {
		if !m.Contains(o.Pos) {
			continue
		}
		base := idx(o.Pos)
		switch o.Owner {
		case side:
			data[base+featOwnObjective] = 1
		case "":
			// Uncontrolled objectives show on both channels at half weight.
			data[base+featOwnObjective] = 0.5
			data[base+featEnemyObjective] = 0.5
		default:
			data[base+featEnemyObjective] = 1
		}
	}

	return data
}
