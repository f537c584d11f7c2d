package compute

import (
	"context"
	"net/url"
	"strings"
	"time"

	"usage-report-server/internal/client/rest"
	"usage-report-server/internal/models"
	"usage-report-server/internal/utils"
)

const serviceName = "compute"

type Client struct {
	rest *rest.Client
}

func NewClient(endpoint, token string) (*Client, error) {
	c, err := rest.NewClient(serviceName, endpoint, token, nil)
	if err != nil {
		return nil, err
	}
	return &Client{rest: c}, nil
}

func NewClientWith(c *rest.Client) *Client {
	return &Client{rest: c}
}

type usageListResponse struct {
	TenantUsages []*models.ProjectUsage `json:"tenant_usages"`
}

type usageResponse struct {
	TenantUsage *models.ProjectUsage `json:"tenant_usage"`
}

type limitsResponse struct {
	Limits struct {
		Absolute map[string]float64 `json:"absolute"`
	} `json:"limits"`
}

func usageParams(start, end time.Time) url.Values {
	return url.Values{
		"start":    []string{utils.FormatAPITime(start)},
		"end":      []string{utils.FormatAPITime(end)},
		"detailed": []string{"1"},
	}
}

// UsageList returns the usage of every project in [start, end].
func (c *Client) UsageList(ctx context.Context, start, end time.Time) ([]*models.ProjectUsage, error) {
	resp := &usageListResponse{}
	if err := c.rest.Get(ctx, "/os-simple-tenant-usage", usageParams(start, end), resp); err != nil {
		return nil, err
	}
	return resp.TenantUsages, nil
}

// UsageGet returns the usage of one project in [start, end]. A project with
// no instances comes back with an empty server list.
func (c *Client) UsageGet(ctx context.Context, projectID string, start, end time.Time) (*models.ProjectUsage, error) {
	resp := &usageResponse{}
	path := "/os-simple-tenant-usage/" + url.PathEscape(projectID)
	if err := c.rest.Get(ctx, path, usageParams(start, end), resp); err != nil {
		return nil, err
	}
	if resp.TenantUsage == nil {
		return &models.ProjectUsage{ProjectID: projectID}, nil
	}
	if resp.TenantUsage.ProjectID == "" {
		resp.TenantUsage.ProjectID = projectID
	}
	return resp.TenantUsage, nil
}

// AbsoluteLimits returns the project's absolute limits with -1 maxima turned
// into +Inf.
func (c *Client) AbsoluteLimits(ctx context.Context, projectID string) (models.Limits, error) {
	resp := &limitsResponse{}
	var params url.Values
	if projectID != "" {
		params = url.Values{"tenant_id": []string{projectID}}
	}
	if err := c.rest.Get(ctx, "/limits", params, resp); err != nil {
		return nil, err
	}
	limits := make(models.Limits, len(resp.Limits.Absolute))
	for name, value := range resp.Limits.Absolute {
		if strings.HasPrefix(name, "max") {
			value = models.Unlimit(value)
		}
		limits[name] = value
	}
	return limits, nil
}
