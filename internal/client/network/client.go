package network

import (
	"context"
	"net/url"

	"usage-report-server/internal/client/rest"
)

const (
	serviceName = "network"

	SecurityGroupExtension = "security-group"
	QuotasExtension        = "quotas"

	FloatingIPResource    = "floatingip"
	SecurityGroupResource = "security_group"
)

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

type FloatingIP struct {
	ID                string `json:"id"`
	FloatingIPAddress string `json:"floating_ip_address"`
	PortID            string `json:"port_id"`
	ProjectID         string `json:"tenant_id"`
}

type SecurityGroup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"tenant_id"`
}

type Extension struct {
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// Quota maps resource names to limits; -1 means unlimited.
type Quota map[string]float64

// Limit returns the quota of resource and whether the quota names it.
func (q Quota) Limit(resource string) (float64, bool) {
	v, ok := q[resource]
	return v, ok
}

func projectParams(projectID string) url.Values {
	if projectID == "" {
		return nil
	}
	return url.Values{"tenant_id": []string{projectID}}
}

func (c *Client) FloatingIPList(ctx context.Context, projectID string) ([]FloatingIP, error) {
	resp := &struct {
		FloatingIPs []FloatingIP `json:"floatingips"`
	}{}
	if err := c.rest.Get(ctx, "/v2.0/floatingips", projectParams(projectID), resp); err != nil {
		return nil, err
	}
	return resp.FloatingIPs, nil
}

func (c *Client) SecurityGroupList(ctx context.Context, projectID string) ([]SecurityGroup, error) {
	resp := &struct {
		SecurityGroups []SecurityGroup `json:"security_groups"`
	}{}
	if err := c.rest.Get(ctx, "/v2.0/security-groups", projectParams(projectID), resp); err != nil {
		return nil, err
	}
	return resp.SecurityGroups, nil
}

func (c *Client) QuotaGet(ctx context.Context, projectID string) (Quota, error) {
	resp := &struct {
		Quota Quota `json:"quota"`
	}{}
	if err := c.rest.Get(ctx, "/v2.0/quotas/"+url.PathEscape(projectID), nil, resp); err != nil {
		return nil, err
	}
	return resp.Quota, nil
}

func (c *Client) Extensions(ctx context.Context) ([]Extension, error) {
	resp := &struct {
		Extensions []Extension `json:"extensions"`
	}{}
	if err := c.rest.Get(ctx, "/v2.0/extensions", nil, resp); err != nil {
		return nil, err
	}
	return resp.Extensions, nil
}

// ExtensionSupported reports whether the endpoint lists alias. Listing
// failures count as unsupported.
func (c *Client) ExtensionSupported(ctx context.Context, alias string) bool {
	extensions, err := c.Extensions(ctx)
	if err != nil {
		return false
	}
	for _, ext := range extensions {
		if ext.Alias == alias {
			return true
		}
	}
	return false
}
