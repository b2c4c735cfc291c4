package wargame

import (
	"fmt"

	"github.com/kwestra/hexfront/pkg/hexmap"
)

// Scenario bundles a starting battle snapshot with its map.
type Scenario struct {
	Name  string
	State *GameState
	Map   *hexmap.Map
}

// MeetingEngagement builds the standard test scenario: a 12x10 map with a
// forest band through the middle, two objectives, and a mirrored force of
// five units per side, including a stealth recon team and an amphibious
// transport holding an embarked rifle squad.
func MeetingEngagement() *Scenario {
	m := hexmap.New(12, 10)
	for r := 3; r <= 5; r++ {
		m.SetTerrain(hexmap.Hex{Q: 5, R: r}, hexmap.Forest)
		m.SetTerrain(hexmap.Hex{Q: 6, R: r}, hexmap.Forest)
	}
	m.SetTerrain(hexmap.Hex{Q: 3, R: 4}, hexmap.Hill)
	m.SetTerrain(hexmap.Hex{Q: 8, R: 4}, hexmap.Hill)
	m.SetTerrain(hexmap.Hex{Q: 5, R: 8}, hexmap.Urban)

	gs := &GameState{
		Turn:       1,
		Phase:      PhaseAction,
		ActiveSide: Blue,
		Objectives: []Objective{
			{ID: "crossroads", Pos: hexmap.Hex{Q: 5, R: 8}},
			{ID: "ridge", Pos: hexmap.Hex{Q: 6, R: 1}},
		},
		CommandPoints: map[Side]int{Blue: 10, Red: 10},
	}

	gs.Units = append(gs.Units, sideUnits(Blue, 1)...)
	gs.Units = append(gs.Units, sideUnits(Red, 10)...)

	return &Scenario{Name: "meeting-engagement", State: gs, Map: m}
}

// sideUnits builds one side's mirrored starting force. Blue deploys along
// column 1, red along column 10.
func sideUnits(side Side, col int) []Unit {
	prefix := string(side)
	units := []Unit{
		{
			ID: UnitID(fmt.Sprintf("%s-rifles-1", prefix)), Side: side, Name: "Rifle Platoon",
			Pos: hexmap.Hex{Q: col, R: 2}, HP: 10, MaxHP: 10,
			Attack: 4, Defense: 4, Move: 3, Range: 1, Detect: 1,
		},
		{
			ID: UnitID(fmt.Sprintf("%s-armor-1", prefix)), Side: side, Name: "Tank Troop",
			Pos: hexmap.Hex{Q: col, R: 4}, HP: 14, MaxHP: 14,
			Attack: 7, Defense: 6, Move: 4, Range: 2, Detect: 1,
		},
		{
			ID: UnitID(fmt.Sprintf("%s-guns-1", prefix)), Side: side, Name: "Field Battery",
			Pos: hexmap.Hex{Q: col, R: 6}, HP: 8, MaxHP: 8,
			Attack: 5, Defense: 2, Move: 2, Range: 4, Detect: 1,
			Capabilities: []Capability{CapArtillery},
			Abilities: []Ability{
				{Name: "barrage", Range: 5, Cost: 3, Damage: 4, Phase: PhaseAction},
			},
		},
		{
			ID: UnitID(fmt.Sprintf("%s-recon-1", prefix)), Side: side, Name: "Recon Team",
			Pos: hexmap.Hex{Q: col, R: 7}, HP: 6, MaxHP: 6,
			Attack: 2, Defense: 3, Move: 4, Range: 1, Detect: 3, Hidden: true,
			Capabilities: []Capability{CapRecon, CapStealth},
		},
		{
			ID: UnitID(fmt.Sprintf("%s-landing-1", prefix)), Side: side, Name: "Landing Craft",
			Pos: hexmap.Hex{Q: col, R: 8}, HP: 12, MaxHP: 12,
			Attack: 1, Defense: 5, Move: 3, Range: 1, Detect: 1,
			Capabilities:  []Capability{CapTransport, CapAmphibious},
			CargoCapacity: 1,
			Cargo:         []UnitID{UnitID(fmt.Sprintf("%s-marines-1", prefix))},
		},
		{
			ID: UnitID(fmt.Sprintf("%s-marines-1", prefix)), Side: side, Name: "Marine Squad",
			Pos: hexmap.Hex{Q: col, R: 8}, HP: 9, MaxHP: 9,
			Attack: 5, Defense: 4, Move: 3, Range: 1, Detect: 1,
			CarriedBy: UnitID(fmt.Sprintf("%s-landing-1", prefix)),
		},
	}
	return units
}
