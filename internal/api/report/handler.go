package report

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/auth"
	"usage-report-server/internal/render"
	"usage-report-server/internal/usage"
)

type ReportHandler struct {
	us       UsageService
	renderer *render.Renderer
	clock    clockwork.Clock
	logger   *zap.Logger
}

func ReportRouter(route fiber.Router, us UsageService, renderer *render.Renderer, clock clockwork.Clock, logger *zap.Logger) {
	handler := &ReportHandler{
		us:       us,
		renderer: renderer,
		clock:    clock,
		logger:   logger,
	}

	route.Get("/usage", auth.RequireAdmin, handler.getGlobalUsage)

	rg := route.Group("/projects/:project_id")
	rg.Get("/usage", handler.getProjectUsage)
	rg.Get("/limits", handler.getLimits)
	rg.Get("/quotas", handler.getQuotas)
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(&fiber.Map{
		"status":  "fail",
		"message": err.Error(),
	})
}

// @Summary Usage of every project
// @Description Sums compute usage of all projects over the requested period. Requires the admin role.
// Without start and end the current month is reported (the previous month during the first four days).
// @Produce html,json,text/csv
// @Param start  query string false "start date"
// @Param end    query string false "end date"
// @Param format query string false "html, json or csv"
// @Param stream query bool   false "stream the csv download"
// @Success 200 {object} usage.Report
// @Failure 400 {object} nil
// @Failure 403 {object} nil
// @Router /api/v1/usage [get]
func (h *ReportHandler) getGlobalUsage(c *fiber.Ctx) error {
	q, err := query.ParseAndValidate(c, h.clock.Now().UTC())
	if err != nil {
		h.logger.Debug("query parser error", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, err)
	}

	report := h.us.GlobalUsage(c.UserContext(), q, auth.FromContext(c))
	return h.respond(c, q, report)
}

// @Summary Usage of one project
// @Description Instances, summary, limits and quotas of a project over the requested period.
// Terminated instances are hidden unless show_terminated is set.
// @Produce html,json,text/csv
// @Param project_id      path  string true  "the project id"
// @Param start           query string false "start date"
// @Param end             query string false "end date"
// @Param format          query string false "html, json or csv"
// @Param stream          query bool   false "stream the csv download"
// @Param show_terminated query bool   false "include terminated instances"
// @Success 200 {object} usage.Report
// @Failure 400 {object} nil
// @Failure 403 {object} nil
// @Router /api/v1/projects/{project_id}/usage [get]
func (h *ReportHandler) getProjectUsage(c *fiber.Ctx) error {
	q, err := query.ParseAndValidate(c, h.clock.Now().UTC())
	if err != nil {
		h.logger.Debug("query parser error", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, err)
	}

	identity, err := auth.Authorize(c, q.ProjectID)
	if err != nil {
		return fail(c, fiber.StatusForbidden, err)
	}

	report := h.us.ProjectUsage(c.UserContext(), q, identity)
	return h.respond(c, q, report)
}

// @Summary Absolute limits of a project
// @Description Compute absolute limits plus floating IP and security group usage. Unlimited values are "unlimited".
// @Produce json
// @Param project_id path string true "the project id"
// @Success 200 {object} object
// @Failure 403 {object} nil
// @Router /api/v1/projects/{project_id}/limits [get]
func (h *ReportHandler) getLimits(c *fiber.Ctx) error {
	projectID := c.Params("project_id")
	identity, err := auth.Authorize(c, projectID)
	if err != nil {
		return fail(c, fiber.StatusForbidden, err)
	}

	limits, msgs := h.us.Limits(c.UserContext(), projectID, identity)
	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"project_id": projectID,
		"limits":     limits,
		"messages":   msgs,
	})
}

// @Summary Quota usage of a project
// @Description Quota, usage and availability per resource.
// @Produce json
// @Param project_id path string true "the project id"
// @Success 200 {object} object
// @Failure 403 {object} nil
// @Router /api/v1/projects/{project_id}/quotas [get]
func (h *ReportHandler) getQuotas(c *fiber.Ctx) error {
	projectID := c.Params("project_id")
	identity, err := auth.Authorize(c, projectID)
	if err != nil {
		return fail(c, fiber.StatusForbidden, err)
	}

	quotas, msgs := h.us.Quotas(c.UserContext(), projectID, identity)
	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"project_id": projectID,
		"quotas":     quotas,
		"messages":   msgs,
	})
}

func (h *ReportHandler) respond(c *fiber.Ctx, q query.Query, report *usage.Report) error {
	switch q.Format {
	case query.FormatJSON:
		return c.Status(fiber.StatusOK).JSON(report)
	case query.FormatCSV:
		csv := h.renderer.CSV(report)
		csv.OnError = func(err error) {
			h.logger.Error("csv stream aborted", zap.String("id", q.ID), zap.Error(err))
		}
		if q.Stream {
			return csv.Stream(c)
		}
		return csv.Send(c)
	default:
		buf := &bytes.Buffer{}
		if err := h.renderer.HTML(buf, report); err != nil {
			h.logger.Error("failed to render report", zap.Error(err))
			return fail(c, fiber.StatusInternalServerError, err)
		}
		c.Type("html", "utf-8")
		return c.Status(fiber.StatusOK).Send(buf.Bytes())
	}
}
