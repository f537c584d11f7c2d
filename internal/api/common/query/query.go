package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Query 파라미터들 parsing 하기 위해 사용함
type parseQuery struct {
	StartTime      string `query:"start,omitempty" json:"-"`
	EndTime        string `query:"end,omitempty" json:"-"`
	Format         string `query:"format,omitempty" json:"-"`
	Stream         string `query:"stream,omitempty" json:"-"`
	ShowTerminated string `query:"show_terminated,omitempty" json:"-"`
}

type Query struct {
	ID        string
	ProjectID string
	Form      DateForm
	Format    string
	Stream    bool
	// nil when the request did not say; each report has its own default.
	ShowTerminated *bool
}

func (q parseQuery) ParseAndValidate(c *fiber.Ctx, today time.Time) (Query, error) {
	var (
		id, _     = c.Locals("requestid").(string)
		projectID = c.Params("project_id", "")
		args      = c.Context().QueryArgs()
		form      DateForm
	)

	if args.Has("start") || args.Has("end") {
		form = NewBoundForm(q.StartTime, q.EndTime)
	} else {
		form = NewUnboundForm(today)
	}

	format := strings.ToLower(q.Format)
	switch format {
	case "":
		format = FormatHTML
		if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
			format = FormatJSON
		}
	case FormatHTML, FormatJSON, FormatCSV:
	default:
		return Query{}, fmt.Errorf("unsupported format %q", q.Format)
	}

	var stream bool
	if q.Stream != "" {
		v, err := strconv.ParseBool(q.Stream)
		if err != nil {
			return Query{}, fmt.Errorf("invalid stream value %q", q.Stream)
		}
		stream = v
	}

	var showTerminated *bool
	if q.ShowTerminated != "" {
		v, err := strconv.ParseBool(q.ShowTerminated)
		if err != nil {
			return Query{}, fmt.Errorf("invalid show_terminated value %q", q.ShowTerminated)
		}
		showTerminated = &v
	}

	return Query{
		ID:             id,
		ProjectID:      projectID,
		Form:           form,
		Format:         format,
		Stream:         stream,
		ShowTerminated: showTerminated,
	}, nil
}

func ParseAndValidate(c *fiber.Ctx, today time.Time) (Query, error) {
	query := &parseQuery{}
	if err := c.QueryParser(query); err != nil {
		return Query{}, err
	}
	return query.ParseAndValidate(c, today)
}
