package models

import (
	"time"
)

// Snapshot is a persisted project summary, written each time a project
// report is built.
type Snapshot struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	ProjectID     string    `gorm:"column:project_id;index:idx_snapshot_project_period" json:"project_id"`
	Start         time.Time `gorm:"column:period_start;index:idx_snapshot_project_period" json:"start"`
	End           time.Time `gorm:"column:period_end" json:"end"`
	Instances     float64   `gorm:"column:instances" json:"instances"`
	VCPUs         float64   `gorm:"column:vcpus" json:"vcpus"`
	MemoryMB      float64   `gorm:"column:memory_mb" json:"memory_mb"`
	LocalGB       float64   `gorm:"column:local_gb" json:"local_gb"`
	VCPUHours     float64   `gorm:"column:vcpu_hours" json:"vcpu_hours"`
	MemoryMBHours float64   `gorm:"column:memory_mb_hours" json:"memory_mb_hours"`
	DiskGBHours   float64   `gorm:"column:disk_gb_hours" json:"disk_gb_hours"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Snapshot) TableName() string {
	return "usage_snapshots"
}

func NewSnapshot(id, projectID string, start, end time.Time, summary map[string]float64, createdAt time.Time) *Snapshot {
	return &Snapshot{
		ID:            id,
		ProjectID:     projectID,
		Start:         start,
		End:           end,
		Instances:     summary[SummaryInstances],
		VCPUs:         summary[SummaryVCPUs],
		MemoryMB:      summary[SummaryMemoryMB],
		LocalGB:       summary[SummaryLocalGB],
		VCPUHours:     summary[SummaryVCPUHours],
		MemoryMBHours: summary[SummaryMemoryMBHours],
		DiskGBHours:   summary[SummaryDiskGBHours],
		CreatedAt:     createdAt,
	}
}
