package models

import (
	"math"

	"github.com/pquerna/ffjson/ffjson"
)

const (
	MaxTotalInstances       = "maxTotalInstances"
	TotalInstancesUsed      = "totalInstancesUsed"
	MaxTotalCores           = "maxTotalCores"
	TotalCoresUsed          = "totalCoresUsed"
	MaxTotalRAMSize         = "maxTotalRAMSize"
	TotalRAMUsed            = "totalRAMUsed"
	MaxTotalFloatingIps     = "maxTotalFloatingIps"
	TotalFloatingIpsUsed    = "totalFloatingIpsUsed"
	MaxSecurityGroups       = "maxSecurityGroups"
	TotalSecurityGroupsUsed = "totalSecurityGroupsUsed"

	Unlimited = "unlimited"
)

// Limits maps absolute limit names to values. Unlimited maxima are +Inf.
type Limits map[string]float64

// Unlimit normalises the API's -1 to +Inf.
func Unlimit(v float64) float64 {
	if v < 0 {
		return math.Inf(1)
	}
	return v
}

func IsUnlimited(v float64) bool {
	return math.IsInf(v, 1)
}

func (l Limits) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(l))
	for k, v := range l {
		out[k] = limitValue(v)
	}
	return ffjson.Marshal(out)
}
