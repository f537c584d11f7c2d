package usage

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"usage-report-server/internal/client/network"
	"usage-report-server/internal/models"
)

type networkUsage struct {
	resource  string
	limitName string
	usedName  string
	message   string
}

var (
	floatingIPUsage = networkUsage{
		resource:  network.FloatingIPResource,
		limitName: models.MaxTotalFloatingIps,
		usedName:  models.TotalFloatingIpsUsed,
		message:   floatingIPErrorMessage,
	}
	securityGroupUsage = networkUsage{
		resource:  network.SecurityGroupResource,
		limitName: models.MaxSecurityGroups,
		usedName:  models.TotalSecurityGroupsUsed,
		message:   securityGroupMessage,
	}
)

// quotaNames pairs each reported quota with its limit and usage keys.
var quotaNames = []struct {
	name, max, used string
}{
	{"instances", models.MaxTotalInstances, models.TotalInstancesUsed},
	{"cores", models.MaxTotalCores, models.TotalCoresUsed},
	{"ram", models.MaxTotalRAMSize, models.TotalRAMUsed},
	{"floating_ips", models.MaxTotalFloatingIps, models.TotalFloatingIpsUsed},
	{"security_groups", models.MaxSecurityGroups, models.TotalSecurityGroupsUsed},
}

// GetLimits loads the compute absolute limits and, when the network service
// is present, the floating IP and security group counts and maxima. Each
// failing call leaves a message and a zero or unlimited value behind.
func (u *Usage) GetLimits(ctx context.Context) {
	if u.deps.Cache != nil {
		if limits, ok := u.deps.Cache.Limits(u.ProjectID); ok {
			u.Limits = limits
			u.limitsLoaded, u.haveComputeLimits = true, true
			return
		}
	}

	var (
		computeFailed bool
		networkFailed bool
		computeLimits models.Limits
		networkLimits = make(models.Limits)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limits, err := u.deps.Compute.AbsoluteLimits(gctx, u.ProjectID)
		if err != nil {
			computeFailed = true
			u.Messages.Handle(err, limitErrorMessage)
			return nil
		}
		computeLimits = limits
		return nil
	})
	if u.deps.Network != nil {
		g.Go(func() error {
			if !u.getNetworkLimits(gctx, networkLimits) {
				networkFailed = true
			}
			return nil
		})
	}
	_ = g.Wait()

	limits := make(models.Limits, len(computeLimits)+len(networkLimits))
	for k, v := range computeLimits {
		limits[k] = v
	}
	for k, v := range networkLimits {
		limits[k] = v
	}
	u.Limits = limits
	u.limitsLoaded, u.haveComputeLimits = true, !computeFailed

	if !computeFailed && !networkFailed && u.deps.Cache != nil {
		u.deps.Cache.SetLimits(u.ProjectID, limits)
	}
}

// getNetworkLimits fills limits and reports whether every call succeeded.
func (u *Usage) getNetworkLimits(ctx context.Context, limits models.Limits) bool {
	var (
		api             = u.deps.Network
		ok              = true
		securityGroups  = api.ExtensionSupported(ctx, network.SecurityGroupExtension)
		quotasSupported = api.ExtensionSupported(ctx, network.QuotasExtension)
	)

	if !u.getNetworkUsage(ctx, limits, floatingIPUsage) {
		ok = false
	}
	if securityGroups && !u.getNetworkUsage(ctx, limits, securityGroupUsage) {
		ok = false
	}

	// Quotas are an optional extension; without it every maximum is
	// unlimited.
	var quota network.Quota
	if quotasSupported {
		q, err := api.QuotaGet(ctx, u.ProjectID)
		if err != nil {
			ok = false
			u.Messages.Handle(err, networkQuotaMessage)
		} else {
			quota = q
		}
	}

	setNetworkLimit(limits, quota, floatingIPUsage)
	if securityGroups {
		setNetworkLimit(limits, quota, securityGroupUsage)
	}
	return ok
}

func (u *Usage) getNetworkUsage(ctx context.Context, limits models.Limits, resource networkUsage) bool {
	var (
		used int
		err  error
	)
	switch resource.resource {
	case network.FloatingIPResource:
		var fips []network.FloatingIP
		fips, err = u.deps.Network.FloatingIPList(ctx, u.ProjectID)
		used = len(fips)
	case network.SecurityGroupResource:
		var groups []network.SecurityGroup
		groups, err = u.deps.Network.SecurityGroupList(ctx, u.ProjectID)
		used = len(groups)
	}
	if err != nil {
		used = 0
		u.Messages.Handle(err, resource.message)
	}
	limits[resource.usedName] = float64(used)
	return err == nil
}

func setNetworkLimit(limits models.Limits, quota network.Quota, resource networkUsage) {
	max := math.Inf(1)
	if quota != nil {
		if v, ok := quota.Limit(resource.resource); ok {
			max = models.Unlimit(v)
		}
	}
	limits[resource.limitName] = max
}

// GetQuotas derives quota usage from the limits, loading them first when
// GetLimits has not run yet. Without the compute limits no quota is
// reported.
func (u *Usage) GetQuotas(ctx context.Context) {
	if !u.limitsLoaded {
		u.GetLimits(ctx)
	}
	if !u.haveComputeLimits {
		u.Messages.Error(quotaErrorMessage)
		return
	}

	quotas := make([]models.QuotaUsage, 0, len(quotaNames))
	for _, q := range quotaNames {
		max, ok := u.Limits[q.max]
		if !ok {
			continue
		}
		quotas = append(quotas, models.NewQuotaUsage(q.name, max, u.Limits[q.used]))
	}
	u.Quotas = quotas
}
