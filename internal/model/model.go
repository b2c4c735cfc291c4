// Package model defines the persistence row types shared by the repository
// implementations.
package model

import (
	"encoding/json"
	"time"
)

// Battle is one recorded skirmish between two AI profiles.
type Battle struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Scenario    string     `json:"scenario"`
	BlueProfile string     `json:"blue_profile"`
	RedProfile  string     `json:"red_profile"`
	Winner      string     `json:"winner"` // side name or "" for a draw
	Turns       int        `json:"turns"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// BattleTurn is one turn's snapshot pair within a battle.
type BattleTurn struct {
	ID          string          `json:"id"`
	BattleID    string          `json:"battle_id"`
	Turn        int             `json:"turn"`
	StateBefore json.RawMessage `json:"state_before"`
	StateAfter  json.RawMessage `json:"state_after"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LearningProfile is a named AI profile's persisted learning data.
type LearningProfile struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Archetype string          `json:"archetype"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}
