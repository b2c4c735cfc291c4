package ai

import (
	"sort"

	"github.com/kwestra/hexfront/pkg/hexmap"
	"github.com/kwestra/hexfront/pkg/wargame"
)

// ActionKind is the closed set of action variants the engine can propose.
type ActionKind string

const (
	ActionMove    ActionKind = "move"
	ActionAttack  ActionKind = "attack"
	ActionAbility ActionKind = "ability"
	ActionReveal  ActionKind = "reveal"
	ActionHide    ActionKind = "hide"
	ActionLoad    ActionKind = "load"
	ActionUnload  ActionKind = "unload"
	ActionSecure  ActionKind = "secure-objective"
)

// Proposal is one ranked action candidate. Each kind uses a subset of the
// payload fields: attacks and loads carry TargetID, moves and unloads carry
// Dest, abilities carry Ability and optionally TargetID.
type Proposal struct {
	Kind     ActionKind     `json:"kind"`
	UnitID   wargame.UnitID `json:"unitId"`
	TargetID wargame.UnitID `json:"targetId,omitempty"`
	Dest     hexmap.Hex     `json:"dest,omitempty"`
	Ability  string         `json:"ability,omitempty"`

	Goal     GoalTag `json:"goal"`
	Priority float64 `json:"priority"`
	Cost     int     `json:"cost"` // command points
	Reason   string  `json:"reason"`
}

// sortProposals orders by descending priority, breaking ties by unit id and
// then action kind so identical inputs always produce identical output.
func sortProposals(props []Proposal) {
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].Priority != props[j].Priority {
			return props[i].Priority > props[j].Priority
		}
		if props[i].UnitID != props[j].UnitID {
			return props[i].UnitID < props[j].UnitID
		}
		return props[i].Kind < props[j].Kind
	})
}
