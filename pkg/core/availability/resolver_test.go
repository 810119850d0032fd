package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockStore struct {
	carers        map[string]*model.Carer
	active        []model.Carer
	packageCarers map[string][]string
	ratings       map[string][]model.CompetencyRating
	entries       map[string][]model.ShiftEntry

	entriesErrFor map[string]error
	ratingsErrFor map[string]error
}

func (m *mockStore) GetCarer(ctx context.Context, id string) (*model.Carer, error) {
	if c, ok := m.carers[id]; ok {
		return c, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) ListActiveCarers(ctx context.Context) ([]model.Carer, error) {
	return m.active, nil
}

func (m *mockStore) ListPackageCarerIDs(ctx context.Context, packageID string) ([]string, error) {
	return m.packageCarers[packageID], nil
}

func (m *mockStore) GetRatings(ctx context.Context, carerID string) ([]model.CompetencyRating, error) {
	if err := m.ratingsErrFor[carerID]; err != nil {
		return nil, err
	}
	return m.ratings[carerID], nil
}

func (m *mockStore) GetCarerEntriesInRange(ctx context.Context, carerID, from, to string) ([]model.ShiftEntry, error) {
	if err := m.entriesErrFor[carerID]; err != nil {
		return nil, err
	}
	var out []model.ShiftEntry
	for _, e := range m.entries[carerID] {
		if e.Date >= from && e.Date < to {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestStore(carerIDs ...string) *mockStore {
	store := &mockStore{
		carers:        map[string]*model.Carer{},
		packageCarers: map[string][]string{"pkg-1": carerIDs},
		ratings:       map[string][]model.CompetencyRating{},
		entries:       map[string][]model.ShiftEntry{},
		entriesErrFor: map[string]error{},
		ratingsErrFor: map[string]error{},
	}
	for _, id := range carerIDs {
		carer := &model.Carer{ID: id, Name: "Carer " + id, IsActive: true}
		store.carers[id] = carer
		store.active = append(store.active, *carer)
	}
	return store
}

func dayWindow(date string) Window {
	return Window{
		PackageID: "pkg-1",
		Date:      date,
		ShiftType: model.ShiftDay,
		StartTime: "08:00",
		EndTime:   "16:00",
	}
}

func findCheck(t *testing.T, checks []Check, carerID string) Check {
	t.Helper()
	for _, c := range checks {
		if c.CarerID == carerID {
			return c
		}
	}
	t.Fatalf("no check for carer %s", carerID)
	return Check{}
}

func conflictTypes(check Check) []ConflictType {
	out := make([]ConflictType, len(check.Conflicts))
	for i, c := range check.Conflicts {
		out[i] = c.Type
	}
	return out
}

func TestResolve_FreeCarerIsAvailable(t *testing.T) {
	store := newTestStore("c1")
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)
	require.Len(t, checks, 1)

	assert.True(t, checks[0].IsAvailable)
	assert.Empty(t, checks[0].Conflicts)
	assert.True(t, checks[0].Competency.IsCompetent, "no required tasks means a trivial match")
}

func TestResolve_RotaOverlapBlocks(t *testing.T) {
	store := newTestStore("c1")
	store.entries["c1"] = []model.ShiftEntry{{
		ID: "e1", CarerID: "c1", PackageID: "pkg-2",
		Date: "2025-06-12", ShiftType: model.ShiftDay,
		StartTime: "14:00", EndTime: "22:00",
	}}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)

	check := findCheck(t, checks, "c1")
	assert.False(t, check.IsAvailable)
	assert.Contains(t, conflictTypes(check), ConflictRota)
}

func TestResolve_NonOverlappingSameDayAllowed(t *testing.T) {
	store := newTestStore("c1")
	store.entries["c1"] = []model.ShiftEntry{{
		ID: "e1", CarerID: "c1", PackageID: "pkg-2",
		Date: "2025-06-12", ShiftType: model.ShiftNight,
		StartTime: "20:00", EndTime: "23:00",
	}}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)

	check := findCheck(t, checks, "c1")
	assert.NotContains(t, conflictTypes(check), ConflictRota)
}

func TestResolve_WeeklyHoursBlock(t *testing.T) {
	store := newTestStore("c1")
	// 36 hours already booked in the window's week
	for i, date := range []string{"2025-06-09", "2025-06-10", "2025-06-11"} {
		store.entries["c1"] = append(store.entries["c1"], model.ShiftEntry{
			ID: "e" + string(rune('1'+i)), CarerID: "c1", PackageID: "pkg-1",
			Date: date, ShiftType: model.ShiftDay,
			StartTime: "08:00", EndTime: "20:00",
		})
	}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)

	check := findCheck(t, checks, "c1")
	assert.False(t, check.IsAvailable)
	assert.Contains(t, conflictTypes(check), ConflictWeeklyHours)
}

func TestResolve_RestPeriodBlocksDayAfterNight(t *testing.T) {
	store := newTestStore("c1")
	store.entries["c1"] = []model.ShiftEntry{{
		ID: "e1", CarerID: "c1", PackageID: "pkg-1",
		Date: "2025-06-11", ShiftType: model.ShiftNight,
		StartTime: "20:00", EndTime: "08:00",
	}}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)

	check := findCheck(t, checks, "c1")
	assert.False(t, check.IsAvailable)
	assert.Contains(t, conflictTypes(check), ConflictRestPeriod)
}

func TestResolve_WeekendConflictReportedButNotBlocking(t *testing.T) {
	store := newTestStore("c1")
	store.entries["c1"] = []model.ShiftEntry{{
		ID: "e1", CarerID: "c1", PackageID: "pkg-1",
		Date: "2025-06-07", ShiftType: model.ShiftDay,
		StartTime: "08:00", EndTime: "16:00",
	}}
	r := New(store, zap.NewNop())

	// Saturday of the following weekend
	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-14"), nil, false, PoolPackageCarers)
	require.NoError(t, err)

	check := findCheck(t, checks, "c1")
	assert.Contains(t, conflictTypes(check), ConflictWeekend)
	assert.True(t, check.IsAvailable, "weekend repetition is advisory at this stage")
}

func TestResolve_CompetentOnlyFiltersByRatings(t *testing.T) {
	store := newTestStore("c1", "c2")
	store.ratings["c1"] = []model.CompetencyRating{
		{CarerID: "c1", TaskID: "task-peg", Level: model.Proficient},
	}
	store.ratings["c2"] = []model.CompetencyRating{
		{CarerID: "c2", TaskID: "task-peg", Level: model.AdvancedBeginner},
	}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), []string{"task-peg"}, true, PoolPackageCarers)
	require.NoError(t, err)

	competent := findCheck(t, checks, "c1")
	assert.True(t, competent.IsAvailable)
	assert.Equal(t, []string{"task-peg"}, competent.Competency.MatchedTaskIDs)

	novice := findCheck(t, checks, "c2")
	assert.False(t, novice.IsAvailable)
	assert.Empty(t, novice.Conflicts, "competency is not a conflict, just a filter")
	assert.Equal(t, []string{"task-peg"}, novice.Competency.MissingTaskIDs)
}

func TestResolve_CompetencyReportedWhenNotFiltering(t *testing.T) {
	store := newTestStore("c1")
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), []string{"task-peg"}, false, PoolPackageCarers)
	require.NoError(t, err)

	check := findCheck(t, checks, "c1")
	assert.True(t, check.IsAvailable)
	assert.Equal(t, []string{"task-peg"}, check.Competency.MissingTaskIDs)
}

func TestResolve_PerCarerFailureDoesNotAbortPool(t *testing.T) {
	store := newTestStore("c1", "c2", "c3")
	store.entriesErrFor["c2"] = errors.New("connection reset")
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)
	require.Len(t, checks, 3)

	failed := findCheck(t, checks, "c2")
	assert.False(t, failed.IsAvailable)
	assert.Contains(t, conflictTypes(failed), ConflictEvaluation)

	assert.True(t, findCheck(t, checks, "c1").IsAvailable)
	assert.True(t, findCheck(t, checks, "c3").IsAvailable)
}

func TestResolve_MalformedEntryTimesRecovered(t *testing.T) {
	store := newTestStore("c1", "c2")
	store.entries["c1"] = []model.ShiftEntry{{
		ID: "e1", CarerID: "c1", PackageID: "pkg-1",
		Date: "2025-06-12", ShiftType: model.ShiftDay,
		StartTime: "garbage", EndTime: "16:00",
	}}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)

	failed := findCheck(t, checks, "c1")
	assert.False(t, failed.IsAvailable)
	assert.Contains(t, conflictTypes(failed), ConflictEvaluation)

	assert.True(t, findCheck(t, checks, "c2").IsAvailable)
}

func TestResolve_AllActivePool(t *testing.T) {
	store := newTestStore("c1", "c2")
	store.packageCarers["pkg-1"] = []string{"c1"}
	r := New(store, zap.NewNop())

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolAllActive)
	require.NoError(t, err)
	assert.Len(t, checks, 2)

	checks, err = r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)
	assert.Len(t, checks, 1)
}

func TestResolve_ConcurrencyLimitRespectsAllCarers(t *testing.T) {
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = "c" + string(rune('a'+i))
	}
	store := newTestStore(ids...)
	r := New(store, zap.NewNop(), WithConcurrency(3))

	checks, err := r.Resolve(context.Background(), dayWindow("2025-06-12"), nil, false, PoolPackageCarers)
	require.NoError(t, err)
	require.Len(t, checks, 20)

	for _, check := range checks {
		assert.True(t, check.IsAvailable)
	}
}

func TestCheckCarer_UnknownCarer(t *testing.T) {
	store := newTestStore("c1")
	r := New(store, zap.NewNop())

	_, err := r.CheckCarer(context.Background(), "ghost", dayWindow("2025-06-12"), nil, false)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
