package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

// GetCarer retrieves a carer by ID, or db.ErrNotFound
func (d *DB) GetCarer(ctx context.Context, id string) (*model.Carer, error) {
	var c model.Carer
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, is_active
		FROM carer
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query carer: %w", err)
	}
	return &c, nil
}

// ListActiveCarers retrieves every carer not soft-deleted
func (d *DB) ListActiveCarers(ctx context.Context) ([]model.Carer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, is_active
		FROM carer
		WHERE is_active
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active carers: %w", err)
	}
	defer rows.Close()

	var carers []model.Carer
	for rows.Next() {
		var c model.Carer
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan carer: %w", err)
		}
		carers = append(carers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carers: %w", err)
	}

	return carers, nil
}

// GetRatings retrieves all competency ratings for a carer
func (d *DB) GetRatings(ctx context.Context, carerID string) ([]model.CompetencyRating, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT carer_id, task_id, level
		FROM competency_rating
		WHERE carer_id = $1
	`, carerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []model.CompetencyRating
	for rows.Next() {
		var r model.CompetencyRating
		var level string
		if err := rows.Scan(&r.CarerID, &r.TaskID, &level); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		r.Level = model.ParseCompetencyLevel(level)
		ratings = append(ratings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}
