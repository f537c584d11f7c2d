package render

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/models"
	"usage-report-server/internal/usage"
)

var generatedAt = time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC)

func projectReport() *usage.Report {
	return &usage.Report{
		ProjectID: "p1",
		Start:     time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2021, 3, 5, 23, 59, 59, 0, time.UTC),
		Form:      usage.FormView{Start: "2021-03-01", End: "2021-03-05", Bound: true, Valid: true},
		Summary: map[string]float64{
			models.SummaryInstances:   1,
			models.SummaryVCPUs:       2,
			models.SummaryMemoryMB:    2048,
			models.SummaryLocalGB:     20,
			models.SummaryVCPUHours:   12.5,
			models.SummaryDiskGBHours: 250,
		},
		Instances: []*models.ServerUsage{
			{Name: "web<1>", VCPUs: 2, MemoryMB: 2048, LocalGB: 20, Hours: 12.5, Uptime: 7200, State: "active",
				UptimeAt: generatedAt.Add(-2 * time.Hour)},
		},
		Quotas: []models.QuotaUsage{
			models.NewQuotaUsage("cores", 10, 2),
			models.NewQuotaUsage("instances", math.Inf(1), 1),
		},
		Messages:    []messages.Message{{Level: messages.LevelError, Text: "Unable to retrieve quota information."}},
		CSVLink:     "?start=2021-03-01&end=2021-03-05&format=csv",
		GeneratedAt: generatedAt,
	}
}

func TestHTMLProjectReport(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, r.HTML(buf, projectReport()))
	page := buf.String()

	assert.Contains(t, page, "Project Usage: p1")
	assert.Contains(t, page, "Unable to retrieve quota information.")
	assert.Contains(t, page, `value="2021-03-01"`)
	assert.Contains(t, page, `href="?start=2021-03-01&amp;end=2021-03-05&amp;format=csv"`)
	assert.Contains(t, page, "web&lt;1&gt;")
	assert.Contains(t, page, "2 hours, 0 minutes")
	assert.Contains(t, page, "No Limit")
	assert.Contains(t, page, "<dd>2 GB</dd>")
}

func TestHTMLGlobalReportWithoutProjects(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	report := &usage.Report{Global: true, Summary: map[string]float64{}, GeneratedAt: generatedAt}
	buf := &bytes.Buffer{}
	require.NoError(t, r.HTML(buf, report))

	assert.Contains(t, buf.String(), "Usage Overview")
	assert.Contains(t, buf.String(), "No items to display.")
	assert.NotContains(t, buf.String(), "show_terminated")
}

func TestProjectCSV(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	csv := r.CSV(projectReport())
	assert.Equal(t, "p1_usage_2021-03-01_2021-03-05.csv", csv.Filename)

	buf := &bytes.Buffer{}
	require.NoError(t, csv.Render(buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, "Usage Report For Period:,2021-03-01,/,2021-03-05", lines[0])
	assert.Equal(t, "Project ID:,p1", lines[1])
	assert.Equal(t, "CPU-HRs Used:,12.50", lines[3])
	assert.Equal(t, strings.Join(ProjectColumns, ","), lines[7])
	assert.Equal(t, "web<1>,2,2048,20,12.50,7200,active", lines[8])
}

func TestGlobalCSV(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	report := &usage.Report{
		Global:  true,
		Start:   time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2021, 3, 5, 23, 59, 59, 0, time.UTC),
		Summary: map[string]float64{models.SummaryInstances: 1},
		Usages: []*models.ProjectUsage{{
			ProjectID:  "p1",
			TotalHours: 3,
			ServerUsages: []*models.ServerUsage{
				{VCPUs: 1, MemoryMB: 512, LocalGB: 10},
			},
		}},
	}

	csv := r.CSV(report)
	assert.Equal(t, "global_usage_2021-03-01_2021-03-05.csv", csv.Filename)

	buf := &bytes.Buffer{}
	require.NoError(t, csv.Render(buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, "Active Instances:,1", lines[1])
	assert.Equal(t, strings.Join(GlobalColumns, ","), lines[6])
	assert.Equal(t, "p1,1,512,10,3", lines[7])
}

func TestSince(t *testing.T) {
	now := generatedAt
	assert.Equal(t, "-", since(time.Time{}, now))
	assert.Equal(t, "0 minutes", since(now.Add(-30*time.Second), now))
	assert.Equal(t, "5 minutes", since(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3 days, 4 hours", since(now.Add(-76*time.Hour), now))
}
