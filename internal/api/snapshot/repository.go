package snapshot

import (
	"context"

	"gorm.io/gorm"

	"usage-report-server/internal/models"
)

const defaultLimit = 100

type snapshotRepository struct {
	db *gorm.DB
}

var _ SnapshotRepository = (*snapshotRepository)(nil)

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{
		db: db,
	}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *snapshotRepository) List(ctx context.Context, filter Filter) ([]*models.Snapshot, error) {
	var snapshots []*models.Snapshot

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	db := r.db.WithContext(ctx).Where("project_id = ?", filter.ProjectID)
	if !filter.From.IsZero() {
		db = db.Where("period_start >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		db = db.Where("period_start <= ?", filter.To)
	}
	err := db.Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).
		Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
