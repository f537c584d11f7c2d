package render

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"math"
	"strconv"
	texttemplate "text/template"
	"time"

	"usage-report-server/internal/csvexport"
	"usage-report-server/internal/models"
	"usage-report-server/internal/usage"
	"usage-report-server/internal/utils"
)

//go:embed templates
var templates embed.FS

var (
	ProjectColumns = []string{
		"Instance Name",
		"VCPUs",
		"RAM (MB)",
		"Disk (GB)",
		"Usage (Hours)",
		"Time since created (Seconds)",
		"State",
	}
	GlobalColumns = []string{
		"Project Name",
		"VCPUs",
		"RAM (MB)",
		"Disk (GB)",
		"Usage (Hours)",
	}
)

var funcs = map[string]interface{}{
	"date":   utils.FormatDate,
	"number": number,
	"hours":  hours,
	"mb":     megabytes,
	"limit":  limit,
	"since":  since,
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func megabytes(v float64) string {
	if v >= 1024 {
		return strconv.FormatFloat(v/1024, 'f', -1, 64) + " GB"
	}
	return number(v) + " MB"
}

func limit(v float64) string {
	if math.IsInf(v, 1) {
		return "No Limit"
	}
	return number(v)
}

func since(from, now time.Time) string {
	if from.IsZero() {
		return "-"
	}
	d := now.Sub(from)
	if d < time.Minute {
		return "0 minutes"
	}
	days := int(d.Hours()) / 24
	hrs := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%d days, %d hours", days, hrs)
	case hrs > 0:
		return fmt.Sprintf("%d hours, %d minutes", hrs, mins)
	default:
		return fmt.Sprintf("%d minutes", mins)
	}
}

// Renderer holds the parsed report templates.
type Renderer struct {
	html          *htmltemplate.Template
	projectHeader *texttemplate.Template
	globalHeader  *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.New("report").Funcs(funcs).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	projectHeader, err := texttemplate.New("project_usage.csv.tmpl").Funcs(funcs).
		ParseFS(templates, "templates/project_usage.csv.tmpl")
	if err != nil {
		return nil, err
	}
	globalHeader, err := texttemplate.New("global_usage.csv.tmpl").Funcs(funcs).
		ParseFS(templates, "templates/global_usage.csv.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{
		html:          html,
		projectHeader: projectHeader,
		globalHeader:  globalHeader,
	}, nil
}

func (r *Renderer) HTML(w io.Writer, report *usage.Report) error {
	return r.html.ExecuteTemplate(w, "usage", report)
}

// CSV builds the download for report. Global reports list one row per
// project, project reports one row per instance.
func (r *Renderer) CSV(report *usage.Report) *csvexport.Renderer {
	if report.Global {
		return &csvexport.Renderer{
			Columns:  GlobalColumns,
			Header:   r.globalHeader,
			Context:  report,
			Filename: Filename(report),
			Rows:     globalRows(report.Usages),
		}
	}
	return &csvexport.Renderer{
		Columns:  ProjectColumns,
		Header:   r.projectHeader,
		Context:  report,
		Filename: Filename(report),
		Rows:     projectRows(report.Instances),
	}
}

func Filename(report *usage.Report) string {
	if report.Global {
		return fmt.Sprintf("global_usage_%s_%s.csv", utils.FormatDate(report.Start), utils.FormatDate(report.End))
	}
	return fmt.Sprintf("%s_usage_%s_%s.csv", report.ProjectID, utils.FormatDate(report.Start), utils.FormatDate(report.End))
}

func globalRows(usages []*models.ProjectUsage) csvexport.RowSource {
	return func(yield func([]interface{}) error) error {
		for _, u := range usages {
			s := u.Summary()
			row := []interface{}{
				u.ProjectID,
				s[models.SummaryVCPUs],
				s[models.SummaryMemoryMB],
				s[models.SummaryLocalGB],
				s[models.SummaryVCPUHours],
			}
			if err := yield(row); err != nil {
				return err
			}
		}
		return nil
	}
}

func projectRows(instances []*models.ServerUsage) csvexport.RowSource {
	return func(yield func([]interface{}) error) error {
		for _, s := range instances {
			row := []interface{}{
				s.Name,
				s.VCPUs,
				s.MemoryMB,
				s.LocalGB,
				hours(s.Hours),
				s.Uptime,
				s.State,
			}
			if err := yield(row); err != nil {
				return err
			}
		}
		return nil
	}
}
