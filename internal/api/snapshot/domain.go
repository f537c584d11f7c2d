package snapshot

import (
	"context"
	"errors"
	"time"

	"usage-report-server/internal/models"
)

var ErrDisabled = errors.New("usage snapshots are not enabled")

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
	List(ctx context.Context, filter Filter) ([]*models.Snapshot, error)
}

type SnapshotService interface {
	Record(ctx context.Context, projectID string, start, end time.Time, summary map[string]float64)
	History(ctx context.Context, filter Filter) ([]*models.Snapshot, error)
}

// Filter selects snapshots whose period starts within [From, To].
type Filter struct {
	ProjectID string
	From      time.Time
	To        time.Time
	Limit     int
}
