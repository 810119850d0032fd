package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

const entryColumns = `id, carer_id, package_id, to_char(shift_date, 'YYYY-MM-DD'), shift_type, start_time, end_time, confirmed, created_by`

func scanEntry(row pgx.Row) (*model.ShiftEntry, error) {
	var e model.ShiftEntry
	var shiftType string
	err := row.Scan(&e.ID, &e.CarerID, &e.PackageID, &e.Date, &shiftType, &e.StartTime, &e.EndTime, &e.Confirmed, &e.CreatedBy)
	if err != nil {
		return nil, err
	}
	e.ShiftType = model.ShiftType(shiftType)
	return &e, nil
}

func (d *DB) queryEntries(ctx context.Context, query string, args ...any) ([]model.ShiftEntry, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift entries: %w", err)
	}
	defer rows.Close()

	var entries []model.ShiftEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift entry: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift entries: %w", err)
	}

	return entries, nil
}

// GetPackageEntries retrieves every entry on a package
func (d *DB) GetPackageEntries(ctx context.Context, packageID string) ([]model.ShiftEntry, error) {
	return d.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM shift_entry
		WHERE package_id = $1
		ORDER BY shift_date, start_time
	`, packageID)
}

// GetPackageEntriesInRange retrieves a package's entries with shift_date in [from, to)
func (d *DB) GetPackageEntriesInRange(ctx context.Context, packageID, from, to string) ([]model.ShiftEntry, error) {
	return d.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM shift_entry
		WHERE package_id = $1 AND shift_date >= $2 AND shift_date < $3
		ORDER BY shift_date, start_time
	`, packageID, from, to)
}

// GetCarerEntriesInRange retrieves a carer's entries, any package, with shift_date in [from, to)
func (d *DB) GetCarerEntriesInRange(ctx context.Context, carerID, from, to string) ([]model.ShiftEntry, error) {
	return d.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM shift_entry
		WHERE carer_id = $1 AND shift_date >= $2 AND shift_date < $3
		ORDER BY shift_date, start_time
	`, carerID, from, to)
}

// FindEntry looks up the entry occupying (carer, package, date), or db.ErrNotFound
func (d *DB) FindEntry(ctx context.Context, carerID, packageID, date string) (*model.ShiftEntry, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM shift_entry
		WHERE carer_id = $1 AND package_id = $2 AND shift_date = $3
	`, carerID, packageID, date)

	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shift entry: %w", err)
	}
	return e, nil
}

// InsertEntry writes a single shift entry
func (d *DB) InsertEntry(ctx context.Context, entry *model.ShiftEntry) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO shift_entry (id, carer_id, package_id, shift_date, shift_type, start_time, end_time, confirmed, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.CarerID, entry.PackageID, entry.Date, string(entry.ShiftType), entry.StartTime, entry.EndTime, entry.Confirmed, entry.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert shift entry: %w", err)
	}
	return nil
}

// InsertEntries writes a batch of entries in a single transaction; either
// every entry becomes visible or none do
func (d *DB) InsertEntries(ctx context.Context, entries []model.ShiftEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO shift_entry (id, carer_id, package_id, shift_date, shift_type, start_time, end_time, confirmed, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, e.ID, e.CarerID, e.PackageID, e.Date, string(e.ShiftType), e.StartTime, e.EndTime, e.Confirmed, e.CreatedBy)
		if err != nil {
			return fmt.Errorf("failed to insert shift entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateEntry rewrites an entry's schedulable fields
func (d *DB) UpdateEntry(ctx context.Context, entry *model.ShiftEntry) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift_entry
		SET carer_id = $2, package_id = $3, shift_date = $4, shift_type = $5, start_time = $6, end_time = $7
		WHERE id = $1
	`, entry.ID, entry.CarerID, entry.PackageID, entry.Date, string(entry.ShiftType), entry.StartTime, entry.EndTime)
	if err != nil {
		return fmt.Errorf("failed to update shift entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ConfirmEntry flips the confirmed flag
func (d *DB) ConfirmEntry(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift_entry SET confirmed = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to confirm shift entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteEntry removes one entry
func (d *DB) DeleteEntry(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM shift_entry WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteEntries removes a batch of entries in one transaction
func (d *DB) DeleteEntries(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, id := range ids {
		if _, err := tx.Exec(ctx, `DELETE FROM shift_entry WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete shift entry %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
