package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/RichardKnop/machinery/v1/tasks"
	"go.uber.org/zap"

	commonerrors "usage-report-server/internal/api/common/errors"
	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/render"
	"usage-report-server/internal/usage"
	"usage-report-server/internal/utils"
)

const (
	taskName = "usage_csv_export"
)

type exportService struct {
	queue    TaskQueue
	deps     usage.Deps
	renderer *render.Renderer
	logger   *zap.Logger
}

var _ ExportService = (*exportService)(nil)

func NewExportService(
	queue TaskQueue,
	deps usage.Deps,
	renderer *render.Renderer,
	logger *zap.Logger) (ExportService, error) {

	s := &exportService{
		queue:    queue,
		deps:     deps,
		renderer: renderer,
		logger:   logger,
	}

	if err := queue.RegisterTask(taskName, s.exportTask); err != nil {
		return nil, err
	}
	return s, nil
}

func uniqueName(projectID, start, end string, showTerminated bool) string {
	return fmt.Sprintf("export:%s:%s:%s:%t", projectID, start, end, showTerminated)
}

func (s *exportService) Export(ctx context.Context, q query.Query) (string, error) {
	u := usage.NewProjectUsage(s.deps, q.ProjectID, q.Form, q.ShowTerminated, messages.New(s.logger))
	startTime, endTime := u.DateRange()

	var (
		start          = utils.FormatDate(startTime)
		end            = utils.FormatDate(endTime)
		showTerminated = u.ShowTerminated()
	)

	s.logger.Debug("usage export",
		zap.String("id", q.ID),
		zap.String("project", q.ProjectID),
		zap.String("start", start),
		zap.String("end", end))

	task := &tasks.Signature{
		Name: taskName,
		Args: []tasks.Arg{
			{
				Type:  "string",
				Value: q.ProjectID,
			},
			{
				Type:  "string",
				Value: start,
			},
			{
				Type:  "string",
				Value: end,
			},
			{
				Type:  "bool",
				Value: showTerminated,
			},
		},
		RetryCount: 1,
	}
	taskState, err := s.queue.SendTaskWithContext(ctx, task, uniqueName(q.ProjectID, start, end, showTerminated))
	if err != nil {
		return "", err
	}
	return taskState.TaskUUID, nil
}

func (s *exportService) exportTask(projectID, start, end string, showTerminated bool) (string, error) {
	form := query.NewBoundForm(start, end)
	if !form.IsValid() {
		return "", fmt.Errorf("invalid export period %s - %s", start, end)
	}

	msgs := messages.New(s.logger)
	u := usage.NewProjectUsage(s.deps, projectID, form, &showTerminated, msgs)
	startTime, endTime := u.DateRange()
	u.Summarize(context.Background(), startTime, endTime)
	if msgs.HasErrors() {
		return "", fmt.Errorf("export failed: %s", msgs.List()[0].Text)
	}

	report := u.Report(false)
	buf := &bytes.Buffer{}
	csv := s.renderer.CSV(report)
	if err := csv.Render(buf); err != nil {
		s.logger.Error("failed to render export", zap.Error(err))
		return "", err
	}

	return EncodeResult(&Result{
		ProjectID: projectID,
		Filename:  csv.Filename,
		Content:   buf.String(),
	})
}

func (s *exportService) Status(uuid string) (string, error) {
	return s.queue.GetTaskStatus(uuid)
}

func (s *exportService) Result(uuid string) (*Result, error) {
	results, err := s.queue.GetTaskResult(uuid)
	if errors.Is(err, tasks.ErrTaskReturnsNoValue) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, commonerrors.NotFoundErr("export", uuid)
	}
	value, ok := results[0].Interface().(string)
	if !ok {
		return nil, commonerrors.NotFoundErr("export", uuid)
	}
	return DecodeResult(value)
}
