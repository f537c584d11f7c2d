package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"usage-report-server/internal/models"
)

type snapshotService struct {
	repository SnapshotRepository
	clock      clockwork.Clock
	logger     *zap.Logger
}

var _ SnapshotService = (*snapshotService)(nil)

// NewSnapshotService returns a service that records nothing and reports
// ErrDisabled when repository is nil.
func NewSnapshotService(repository SnapshotRepository, clock clockwork.Clock, logger *zap.Logger) SnapshotService {
	return &snapshotService{
		repository: repository,
		clock:      clock,
		logger:     logger,
	}
}

func (s *snapshotService) Record(ctx context.Context, projectID string, start, end time.Time, summary map[string]float64) {
	if s.repository == nil || len(summary) == 0 {
		return
	}
	snapshot := models.NewSnapshot(uuid.NewString(), projectID, start, end, summary, s.clock.Now().UTC())
	if err := s.repository.Save(ctx, snapshot); err != nil {
		s.logger.Error("failed to save usage snapshot",
			zap.String("project", projectID),
			zap.Error(err))
		return
	}
	s.logger.Debug("saved usage snapshot",
		zap.String("id", snapshot.ID),
		zap.String("project", projectID))
}

func (s *snapshotService) History(ctx context.Context, filter Filter) ([]*models.Snapshot, error) {
	if s.repository == nil {
		return nil, ErrDisabled
	}
	return s.repository.List(ctx, filter)
}
