package usage

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/cache"
	"usage-report-server/internal/client/network"
	"usage-report-server/internal/models"
)

const (
	usageErrorMessage      = "Unable to retrieve usage information."
	limitErrorMessage      = "Unable to retrieve limit information."
	quotaErrorMessage      = "Unable to retrieve quota information."
	endBeforeStartMessage  = "Invalid time period. The end date should be more recent than the start date."
	futurePeriodMessage    = "Invalid time period. You are requesting data from the future which may not exist."
	floatingIPErrorMessage = "Unable to retrieve floating IP addresses."
	securityGroupMessage   = "Unable to retrieve security groups."
	networkQuotaMessage    = "Unable to retrieve network quota information."
)

type ComputeAPI interface {
	UsageList(ctx context.Context, start, end time.Time) ([]*models.ProjectUsage, error)
	UsageGet(ctx context.Context, projectID string, start, end time.Time) (*models.ProjectUsage, error)
	AbsoluteLimits(ctx context.Context, projectID string) (models.Limits, error)
}

type NetworkAPI interface {
	FloatingIPList(ctx context.Context, projectID string) ([]network.FloatingIP, error)
	SecurityGroupList(ctx context.Context, projectID string) ([]network.SecurityGroup, error)
	QuotaGet(ctx context.Context, projectID string) (network.Quota, error)
	ExtensionSupported(ctx context.Context, alias string) bool
}

// Lister fetches the usage records a report summarises.
type Lister interface {
	ListUsage(ctx context.Context, start, end time.Time) ([]*models.ProjectUsage, error)
	ShowTerminated() bool
}

// Deps are the collaborators shared by every report. Network may be nil when
// the network service is not deployed; Cache may be nil.
type Deps struct {
	Compute ComputeAPI
	Network NetworkAPI
	Cache   *cache.Cache
	Clock   clockwork.Clock
	Logger  *zap.Logger
}

func (d Deps) clock() clockwork.Clock {
	if d.Clock == nil {
		return clockwork.NewRealClock()
	}
	return d.Clock
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Usage accumulates everything one report shows. It is built per request
// and is not safe for reuse across requests.
type Usage struct {
	ProjectID string
	Summary   map[string]float64
	UsageList []*models.ProjectUsage
	Limits    models.Limits
	Quotas    []models.QuotaUsage
	Messages  *messages.Messages

	deps   Deps
	lister Lister
	form   query.DateForm

	resolved   bool
	start, end time.Time

	// limitsLoaded is set once GetLimits ran. haveComputeLimits records
	// whether the compute absolute limits were part of the result.
	limitsLoaded      bool
	haveComputeLimits bool
}

func newUsage(deps Deps, projectID string, form query.DateForm, lister Lister, msgs *messages.Messages) *Usage {
	if msgs == nil {
		msgs = messages.New(deps.logger())
	}
	return &Usage{
		ProjectID: projectID,
		Summary:   make(map[string]float64),
		Limits:    make(models.Limits),
		Messages:  msgs,
		deps:      deps,
		lister:    lister,
		form:      form,
	}
}

// NewGlobalUsage reports on every project; terminated instances are kept.
func NewGlobalUsage(deps Deps, projectID string, form query.DateForm, msgs *messages.Messages) *Usage {
	return newUsage(deps, projectID, form, &globalLister{compute: deps.Compute}, msgs)
}

// NewProjectUsage reports on a single project. Terminated instances are
// hidden unless showTerminated says otherwise.
func NewProjectUsage(deps Deps, projectID string, form query.DateForm, showTerminated *bool, msgs *messages.Messages) *Usage {
	show := false
	if showTerminated != nil {
		show = *showTerminated
	}
	lister := &projectLister{
		compute:        deps.Compute,
		clock:          deps.clock(),
		projectID:      projectID,
		showTerminated: show,
	}
	return newUsage(deps, projectID, form, lister, msgs)
}

func (u *Usage) Today() time.Time {
	return u.deps.clock().Now().UTC()
}

func (u *Usage) Form() query.DateForm {
	return u.form
}

func (u *Usage) ShowTerminated() bool {
	return u.lister.ShowTerminated()
}

// DateRange resolves the requested window once and memoises it.
func (u *Usage) DateRange() (time.Time, time.Time) {
	if !u.resolved {
		u.start, u.end = u.form.Resolve(u.Today(), u.Messages)
		u.resolved = true
	}
	return u.start, u.end
}

func (u *Usage) CSVLink() string {
	return u.form.CSVLink(u.Today())
}

// Summarize loads the usage records for [start, end] and adds up their
// summaries. Reversed or future windows are reported, not fetched.
func (u *Usage) Summarize(ctx context.Context, start, end time.Time) {
	today := u.Today()
	switch {
	case !start.After(end) && !start.After(today):
		list, err := u.lister.ListUsage(ctx, start.UTC(), end.UTC())
		if err != nil {
			u.Messages.Handle(err, usageErrorMessage)
		} else {
			u.UsageList = list
		}
	case end.Before(start):
		u.Messages.Error(endBeforeStartMessage)
	case start.After(today):
		u.Messages.Error(futurePeriodMessage)
	}

	for _, projectUsage := range u.UsageList {
		for key, value := range projectUsage.Summary() {
			u.Summary[key] += value
		}
	}
}

// Instances flattens the server usages of every record.
func (u *Usage) Instances() []*models.ServerUsage {
	var instances []*models.ServerUsage
	for _, projectUsage := range u.UsageList {
		instances = append(instances, projectUsage.ServerUsages...)
	}
	return instances
}
