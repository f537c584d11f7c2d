package models

import (
	"time"
)

const (
	SummaryInstances     = "instances"
	SummaryVCPUs         = "vcpus"
	SummaryMemoryMB      = "memory_mb"
	SummaryLocalGB       = "local_gb"
	SummaryVCPUHours     = "vcpu_hours"
	SummaryMemoryMBHours = "memory_mb_hours"
	SummaryDiskGBHours   = "disk_gb_hours"
)

// SummaryKeys lists the summary fields in display order.
var SummaryKeys = []string{
	SummaryInstances,
	SummaryVCPUs,
	SummaryMemoryMB,
	SummaryLocalGB,
	SummaryVCPUHours,
	SummaryMemoryMBHours,
	SummaryDiskGBHours,
}

type ServerUsage struct {
	InstanceID string  `json:"instance_id"`
	Name       string  `json:"name"`
	ProjectID  string  `json:"tenant_id"`
	Hours      float64 `json:"hours"`
	MemoryMB   float64 `json:"memory_mb"`
	LocalGB    float64 `json:"local_gb"`
	VCPUs      float64 `json:"vcpus"`
	Flavor     string  `json:"flavor"`
	State      string  `json:"state"`
	StartedAt  string  `json:"started_at"`
	EndedAt    string  `json:"ended_at"`
	// Uptime is in seconds.
	Uptime   int64     `json:"uptime"`
	UptimeAt time.Time `json:"uptime_at"`
}

func (s ServerUsage) Terminated() bool {
	return s.EndedAt != ""
}

// ProjectUsage is one project's consumption over the requested window.
type ProjectUsage struct {
	ProjectID          string         `json:"tenant_id"`
	TotalHours         float64        `json:"total_hours"`
	TotalVCPUsUsage    float64        `json:"total_vcpus_usage"`
	TotalMemoryMBUsage float64        `json:"total_memory_mb_usage"`
	TotalLocalGBUsage  float64        `json:"total_local_gb_usage"`
	Start              string         `json:"start"`
	Stop               string         `json:"stop"`
	ServerUsages       []*ServerUsage `json:"server_usages"`
}

func (u *ProjectUsage) active() []*ServerUsage {
	var servers []*ServerUsage
	for _, s := range u.ServerUsages {
		if !s.Terminated() {
			servers = append(servers, s)
		}
	}
	return servers
}

// Summary reports current allocation over active servers next to the
// window totals from the API.
func (u *ProjectUsage) Summary() map[string]float64 {
	var vcpus, memory, disk float64
	active := u.active()
	for _, s := range active {
		vcpus += s.VCPUs
		memory += s.MemoryMB
		disk += s.LocalGB
	}
	return map[string]float64{
		SummaryInstances:     float64(len(active)),
		SummaryVCPUs:         vcpus,
		SummaryMemoryMB:      memory,
		SummaryLocalGB:       disk,
		SummaryVCPUHours:     u.TotalHours,
		SummaryMemoryMBHours: u.TotalMemoryMBUsage,
		SummaryDiskGBHours:   u.TotalLocalGBUsage,
	}
}
