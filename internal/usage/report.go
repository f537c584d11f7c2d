package usage

import (
	"context"
	"sort"
	"time"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/models"
	"usage-report-server/internal/utils"
)

// FormView is what the date form shows back to the user.
type FormView struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Bound bool   `json:"bound"`
	Valid bool   `json:"valid"`
}

type Report struct {
	Global         bool                   `json:"global"`
	ProjectID      string                 `json:"project_id,omitempty"`
	Start          time.Time              `json:"start"`
	End            time.Time              `json:"end"`
	Form           FormView               `json:"form"`
	Summary        map[string]float64     `json:"summary"`
	Usages         []*models.ProjectUsage `json:"usages,omitempty"`
	Instances      []*models.ServerUsage  `json:"instances,omitempty"`
	Limits         models.Limits          `json:"limits,omitempty"`
	Quotas         []models.QuotaUsage    `json:"quotas,omitempty"`
	Messages       []messages.Message     `json:"messages,omitempty"`
	ShowTerminated bool                   `json:"show_terminated"`
	CSVLink        string                 `json:"csv_link"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// Build runs the whole report: date range, summary and, unless the report
// is global, limits and quotas.
func (u *Usage) Build(ctx context.Context, global bool) *Report {
	start, end := u.DateRange()
	u.Summarize(ctx, start, end)
	if !global {
		u.GetLimits(ctx)
		u.GetQuotas(ctx)
	}
	return u.Report(global)
}

func (u *Usage) formView() FormView {
	view := FormView{Bound: u.form.Bound, Valid: u.form.IsValid()}
	switch {
	case u.form.IsValid():
		start, end, _ := u.form.Cleaned()
		view.Start, view.End = utils.FormatDate(start), utils.FormatDate(end)
	case u.form.Bound:
		view.Start, view.End = u.form.RawStart, u.form.RawEnd
	default:
		view.Start, view.End = utils.FormatDate(u.form.InitialStart), utils.FormatDate(u.form.InitialEnd)
	}
	return view
}

// Report snapshots the current state without fetching anything.
func (u *Usage) Report(global bool) *Report {
	start, end := u.DateRange()
	r := &Report{
		Global:         global,
		ProjectID:      u.ProjectID,
		Start:          start,
		End:            end,
		Form:           u.formView(),
		Summary:        u.Summary,
		Limits:         u.Limits,
		Quotas:         u.Quotas,
		Messages:       u.Messages.List(),
		ShowTerminated: u.ShowTerminated(),
		CSVLink:        u.CSVLink(),
		GeneratedAt:    u.Today(),
	}
	if global {
		r.ProjectID = ""
		r.Usages = append(r.Usages, u.UsageList...)
		sort.Slice(r.Usages, func(i, j int) bool {
			return r.Usages[i].ProjectID < r.Usages[j].ProjectID
		})
	} else {
		r.Instances = u.Instances()
	}
	return r
}
