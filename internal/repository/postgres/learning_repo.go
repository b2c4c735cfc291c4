package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kwestra/hexfront/internal/model"
)

// LearningRepo persists named AI learning profiles.
type LearningRepo struct {
	db *sql.DB
}

// NewLearningRepo creates a LearningRepo.
func NewLearningRepo(db *sql.DB) *LearningRepo {
	return &LearningRepo{db: db}
}

// Save upserts a profile's learning data by name.
func (r *LearningRepo) Save(ctx context.Context, name, archetype string, data json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO learning_profiles (name, archetype, data, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (name) DO UPDATE SET archetype = $2, data = $3, updated_at = NOW()`,
		name, archetype, []byte(data))
	if err != nil {
		return fmt.Errorf("save learning profile: %w", err)
	}
	return nil
}

// Load returns a profile's learning data, or nil when no profile exists.
func (r *LearningRepo) Load(ctx context.Context, name string) (json.RawMessage, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM learning_profiles WHERE name = $1`, name,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load learning profile: %w", err)
	}
	return json.RawMessage(data), nil
}

// List returns all stored learning profiles.
func (r *LearningRepo) List(ctx context.Context) ([]model.LearningProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, archetype, data, updated_at
		 FROM learning_profiles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list learning profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.LearningProfile
	for rows.Next() {
		var p model.LearningProfile
		var data []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Archetype, &data, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan learning profile: %w", err)
		}
		p.Data = json.RawMessage(data)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
