package export

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	commonerrors "usage-report-server/internal/api/common/errors"
	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/auth"
	"usage-report-server/internal/csvexport"
)

type ExportHandler struct {
	es     ExportService
	clock  clockwork.Clock
	logger *zap.Logger
}

func ExportRouter(route fiber.Router, es ExportService, clock clockwork.Clock, logger *zap.Logger) {
	handler := &ExportHandler{
		es:     es,
		clock:  clock,
		logger: logger,
	}

	route.Post("/projects/:project_id/exports", handler.export)
	route.Get("/projects/:project_id/exports", handler.export)
	route.Get("/exports/:uuid/status", handler.getStatus)
	route.Get("/exports/:uuid/result", handler.getResult)
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(&fiber.Map{
		"status":  "fail",
		"message": err.Error(),
	})
}

// @Summary Queue a project usage CSV export
// @Description Queue a background CSV export of a project's usage and return the task UUID.
// The same export requested again within ten minutes returns the same UUID.
// @Produce json
// @Param project_id      path  string true  "the project id"
// @Param start           query string false "start date"
// @Param end             query string false "end date"
// @Param show_terminated query bool   false "include terminated instances"
// @Success 200 {object} object
// @Failure 400 {object} nil
// @Failure 403 {object} nil
// @Failure 500 {object} nil
// @Router /api/v1/projects/{project_id}/exports [post]
func (h *ExportHandler) export(c *fiber.Ctx) error {
	q, err := query.ParseAndValidate(c, h.clock.Now().UTC())
	if err != nil {
		h.logger.Debug("query parser error", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, err)
	}

	if _, err := auth.Authorize(c, q.ProjectID); err != nil {
		return fail(c, fiber.StatusForbidden, err)
	}

	if q.Form.Bound && !q.Form.IsValid() {
		return fail(c, fiber.StatusBadRequest,
			fmt.Errorf("invalid export period %q - %q", q.Form.RawStart, q.Form.RawEnd))
	}

	uuid, err := h.es.Export(c.UserContext(), q)
	if err != nil {
		h.logger.Error("failed to queue export", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"id":   q.ID,
		"uuid": uuid,
	})
}

// @Summary Get export task status
// @Description Get the machinery state of an export task (PENDING, RECEIVED, STARTED, RETRY, SUCCESS or FAILURE)
// @Produce json
// @Param uuid path string true "the uuid of export task"
// @Success 200 {object} object
// @Failure 404 {object} nil
// @Router /api/v1/exports/{uuid}/status [get]
func (h *ExportHandler) getStatus(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	status, err := h.es.Status(uuid)
	if err != nil {
		h.logger.Debug("failed to get status", zap.String("uuid", uuid), zap.Error(err))
		return fail(c, fiber.StatusNotFound, err)
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"uuid":   uuid,
		"status": status,
	})
}

// @Summary Download export result
// @Description Download the CSV of a finished export. Replies 204 while the task is still running
// and 500 with the task error once it failed.
// @Produce text/csv
// @Param uuid path string true "the uuid of export task"
// @Success 200 {string} string
// @Success 204 {object} nil
// @Failure 403 {object} nil
// @Failure 404 {object} nil
// @Failure 500 {object} nil
// @Router /api/v1/exports/{uuid}/result [get]
func (h *ExportHandler) getResult(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	result, err := h.es.Result(uuid)
	var failed commonerrors.TaskFailedError
	if errors.As(err, &failed) {
		h.logger.Debug("export failed", zap.String("uuid", uuid), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, err)
	}
	if err != nil {
		h.logger.Debug("failed to get result", zap.String("uuid", uuid), zap.Error(err))
		return fail(c, fiber.StatusNotFound, err)
	}
	if result == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	if _, err := auth.Authorize(c, result.ProjectID); err != nil {
		return fail(c, fiber.StatusForbidden, err)
	}

	csv := &csvexport.Renderer{Filename: result.Filename}
	c.Set(fiber.HeaderContentDisposition, csv.ContentDisposition())
	c.Set(fiber.HeaderContentType, csvexport.DefaultContentType)
	return c.Status(fiber.StatusOK).SendString(result.Content)
}
