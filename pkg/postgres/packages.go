package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

// GetPackage retrieves a care package by ID, or db.ErrNotFound
func (d *DB) GetPackage(ctx context.Context, id string) (*model.CarePackage, error) {
	var p model.CarePackage
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, is_active
		FROM care_package
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query care package: %w", err)
	}
	return &p, nil
}

// GetPackageTaskIDs retrieves the task IDs with an active assignment to the package
func (d *DB) GetPackageTaskIDs(ctx context.Context, packageID string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT task_id
		FROM package_task_assignment
		WHERE package_id = $1 AND is_active
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query package tasks: %w", err)
	}
	defer rows.Close()

	var taskIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		taskIDs = append(taskIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package tasks: %w", err)
	}

	return taskIDs, nil
}

// ListPackageCarerIDs retrieves the distinct carers holding an entry on the package
func (d *DB) ListPackageCarerIDs(ctx context.Context, packageID string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT DISTINCT carer_id
		FROM shift_entry
		WHERE package_id = $1
		ORDER BY carer_id
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query package carers: %w", err)
	}
	defer rows.Close()

	var carerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan carer id: %w", err)
		}
		carerIDs = append(carerIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package carers: %w", err)
	}

	return carerIDs, nil
}
