package export

import (
	"context"
	"encoding/base64"
	"reflect"

	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/pquerna/ffjson/ffjson"

	"usage-report-server/internal/api/common/query"
)

// TaskQueue is the part of the worker exports are queued on.
type TaskQueue interface {
	RegisterTask(name string, task interface{}) error
	SendTaskWithContext(ctx context.Context, task *tasks.Signature, name string) (*tasks.TaskState, error)
	GetTaskStatus(uuid string) (string, error)
	GetTaskResult(uuid string) ([]reflect.Value, error)
}

type ExportService interface {
	Export(ctx context.Context, query query.Query) (string, error)
	Status(uuid string) (string, error)
	// Result returns nil while the export is still running and a
	// TaskFailedError when it failed.
	Result(uuid string) (*Result, error)
}

// Result is a finished CSV export.
type Result struct {
	ProjectID string `json:"project_id"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
}

func EncodeResult(result *Result) (string, error) {
	buf, err := ffjson.Marshal(result)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func DecodeResult(data string) (*Result, error) {
	b64Decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	if err := ffjson.Unmarshal(b64Decoded, result); err != nil {
		return nil, err
	}
	return result, nil
}
