package models

import (
	"math"

	"github.com/pquerna/ffjson/ffjson"
)

// QuotaUsage is how much of one quota a project consumes.
type QuotaUsage struct {
	Name      string
	Quota     float64
	Used      float64
	Available float64
}

func NewQuotaUsage(name string, quota, used float64) QuotaUsage {
	available := math.Inf(1)
	if !IsUnlimited(quota) {
		available = math.Max(quota-used, 0)
	}
	return QuotaUsage{
		Name:      name,
		Quota:     quota,
		Used:      used,
		Available: available,
	}
}

func (q QuotaUsage) Unlimited() bool {
	return IsUnlimited(q.Quota)
}

func limitValue(v float64) interface{} {
	if IsUnlimited(v) {
		return Unlimited
	}
	return v
}

func (q QuotaUsage) MarshalJSON() ([]byte, error) {
	return ffjson.Marshal(map[string]interface{}{
		"name":      q.Name,
		"quota":     limitValue(q.Quota),
		"used":      q.Used,
		"available": limitValue(q.Available),
	})
}
