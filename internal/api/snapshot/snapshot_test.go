package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"usage-report-server/internal/auth"
	"usage-report-server/internal/models"
)

var now = time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC)

type fakeRepository struct {
	saved   []*models.Snapshot
	filter  Filter
	saveErr error
}

func (f *fakeRepository) Save(_ context.Context, s *models.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeRepository) List(_ context.Context, filter Filter) ([]*models.Snapshot, error) {
	f.filter = filter
	return f.saved, nil
}

func TestRecord(t *testing.T) {
	repo := &fakeRepository{}
	s := NewSnapshotService(repo, clockwork.NewFakeClockAt(now), zap.NewNop())

	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 3, 5, 23, 59, 59, 0, time.UTC)
	s.Record(context.Background(), "p1", start, end, map[string]float64{
		models.SummaryInstances: 2,
		models.SummaryVCPUHours: 12,
	})
	s.Record(context.Background(), "p1", start, end, map[string]float64{})

	require.Len(t, repo.saved, 1)
	snap := repo.saved[0]
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "p1", snap.ProjectID)
	assert.Equal(t, 2.0, snap.Instances)
	assert.Equal(t, 12.0, snap.VCPUHours)
	assert.Equal(t, now, snap.CreatedAt)
}

func TestRecordSaveErrorIsSwallowed(t *testing.T) {
	repo := &fakeRepository{saveErr: errors.New("db down")}
	s := NewSnapshotService(repo, clockwork.NewFakeClockAt(now), zap.NewNop())

	s.Record(context.Background(), "p1", now, now, map[string]float64{models.SummaryInstances: 1})
	assert.Empty(t, repo.saved)
}

func TestDisabledService(t *testing.T) {
	s := NewSnapshotService(nil, clockwork.NewFakeClockAt(now), zap.NewNop())

	s.Record(context.Background(), "p1", now, now, map[string]float64{models.SummaryInstances: 1})
	_, err := s.History(context.Background(), Filter{ProjectID: "p1"})
	assert.Equal(t, ErrDisabled, err)
}

func newApp(ss SnapshotService) *fiber.App {
	app := fiber.New()
	for _, h := range auth.Middleware("") {
		app.Use(h)
	}
	SnapshotRouter(app.Group("/api/v1"), ss, zap.NewNop())
	return app
}

func TestGetHistory(t *testing.T) {
	repo := &fakeRepository{saved: []*models.Snapshot{{ID: "s1", ProjectID: "p1"}}}
	app := newApp(NewSnapshotService(repo, clockwork.NewFakeClockAt(now), zap.NewNop()))

	req := httptest.NewRequest("GET", "/api/v1/projects/p1/snapshots?start=2021-03-01&limit=5", nil)
	req.Header.Set(auth.ProjectHeader, "p1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []models.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	assert.Equal(t, "p1", repo.filter.ProjectID)
	assert.Equal(t, 5, repo.filter.Limit)
	assert.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), repo.filter.From)
	assert.True(t, repo.filter.To.IsZero())
}

func TestGetHistoryStatuses(t *testing.T) {
	enabled := newApp(NewSnapshotService(&fakeRepository{}, clockwork.NewFakeClockAt(now), zap.NewNop()))
	disabled := newApp(NewSnapshotService(nil, clockwork.NewFakeClockAt(now), zap.NewNop()))

	cases := []struct {
		name    string
		app     *fiber.App
		target  string
		project string
		status  int
	}{
		{"other project", enabled, "/api/v1/projects/p1/snapshots", "p2", fiber.StatusForbidden},
		{"bad date", enabled, "/api/v1/projects/p1/snapshots?end=nope", "p1", fiber.StatusBadRequest},
		{"disabled", disabled, "/api/v1/projects/p1/snapshots", "p1", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			req.Header.Set(auth.ProjectHeader, tc.project)
			resp, err := tc.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
