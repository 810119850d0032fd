package db

import (
	"context"
	"errors"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
)

// ErrNotFound is returned when a requested entity does not exist.
// The postgres layer maps pgx.ErrNoRows onto it.
var ErrNotFound = errors.New("not found")

// CarerStore defines carer and competency-rating read operations
type CarerStore interface {
	GetCarer(ctx context.Context, id string) (*model.Carer, error)
	ListActiveCarers(ctx context.Context) ([]model.Carer, error)
	GetRatings(ctx context.Context, carerID string) ([]model.CompetencyRating, error)
}

// PackageStore defines care-package read operations
type PackageStore interface {
	GetPackage(ctx context.Context, id string) (*model.CarePackage, error)
	// GetPackageTaskIDs returns the task IDs with an active assignment to the package
	GetPackageTaskIDs(ctx context.Context, packageID string) ([]string, error)
	// ListPackageCarerIDs returns the carers who hold an entry on the package
	ListPackageCarerIDs(ctx context.Context, packageID string) ([]string, error)
}

// ShiftStore defines shift-entry operations. Date parameters are
// "2006-01-02" strings; ranges are half-open [from, to).
type ShiftStore interface {
	GetPackageEntries(ctx context.Context, packageID string) ([]model.ShiftEntry, error)
	GetPackageEntriesInRange(ctx context.Context, packageID, from, to string) ([]model.ShiftEntry, error)
	GetCarerEntriesInRange(ctx context.Context, carerID, from, to string) ([]model.ShiftEntry, error)
	// FindEntry looks up the entry occupying (carer, package, date), or ErrNotFound
	FindEntry(ctx context.Context, carerID, packageID, date string) (*model.ShiftEntry, error)
	InsertEntry(ctx context.Context, entry *model.ShiftEntry) error
	// InsertEntries writes all entries in a single transaction; either every
	// entry becomes visible or none do
	InsertEntries(ctx context.Context, entries []model.ShiftEntry) error
	UpdateEntry(ctx context.Context, entry *model.ShiftEntry) error
	ConfirmEntry(ctx context.Context, id string) error
	DeleteEntry(ctx context.Context, id string) error
	DeleteEntries(ctx context.Context, ids []string) error
}

// Store is the full set of database operations the engine depends on.
// postgres.DB implements it; consumers declare narrower interfaces.
type Store interface {
	CarerStore
	PackageStore
	ShiftStore
}
