package snapshot

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"usage-report-server/internal/auth"
	"usage-report-server/internal/utils"
)

type SnapshotHandler struct {
	ss     SnapshotService
	logger *zap.Logger
}

type historyQuery struct {
	Start string `query:"start,omitempty"`
	End   string `query:"end,omitempty"`
	Limit int    `query:"limit,omitempty"`
}

func SnapshotRouter(route fiber.Router, ss SnapshotService, logger *zap.Logger) {
	handler := &SnapshotHandler{
		ss:     ss,
		logger: logger,
	}

	route.Get("/projects/:project_id/snapshots", handler.getHistory)
}

// @Summary Get persisted usage summaries of a project
// @Description Lists the summaries recorded each time the project report was built, newest first.
// @Produce json
// @Param project_id path  string true  "the project id"
// @Param start      query string false "earliest period start"
// @Param end        query string false "latest period start"
// @Param limit      query int    false "maximum number of snapshots"
// @Success 200 {array} models.Snapshot
// @Failure 400 {object} nil
// @Failure 403 {object} nil
// @Failure 404 {object} nil
// @Failure 500 {object} nil
// @Router /api/v1/projects/{project_id}/snapshots [get]
func (h *SnapshotHandler) getHistory(c *fiber.Ctx) error {
	projectID := c.Params("project_id")
	if _, err := auth.Authorize(c, projectID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{"status": "fail", "message": err.Error()})
	}

	q := &historyQuery{}
	if err := c.QueryParser(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"status": "fail", "message": err.Error()})
	}

	filter := Filter{ProjectID: projectID, Limit: q.Limit}
	for _, p := range []struct {
		raw string
		dst *time.Time
	}{{q.Start, &filter.From}, {q.End, &filter.To}} {
		if p.raw == "" {
			continue
		}
		t, err := utils.TimeParser(p.raw)
		if err != nil {
			h.logger.Debug("query parser error", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{"status": "fail", "message": err.Error()})
		}
		*p.dst = t
	}

	snapshots, err := h.ss.History(c.UserContext(), filter)
	if errors.Is(err, ErrDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{"status": "fail", "message": err.Error()})
	}
	if err != nil {
		h.logger.Error("failed to list snapshots", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{"status": "fail", "message": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(snapshots)
}
