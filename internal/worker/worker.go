package worker

import (
	"context"
	"os"
	"reflect"
	"time"

	"github.com/RichardKnop/logging"
	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	machinerylog "github.com/RichardKnop/machinery/v1/log"
	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/caarlos0/env/v6"
	"go.uber.org/zap"

	"usage-report-server/internal/api/common/errors"
	"usage-report-server/internal/cache"
)

const (
	consumerTag = "usage_export_worker"
	_TaskTTL    = time.Minute * 10
	taskPrefix  = "task:"
)

type envConfig struct {
	ConfigPath string `env:"WORKER_CONFIG" envDefault:"/var/redis-config.yaml"`
	Broker     string `env:"BROKER" envDefault:"redis://localhost:6379"`
	Backend    string `env:"RESULT_BACKEND" envDefault:"redis://localhost:6379"`
}

type Worker struct {
	cache  *cache.Cache
	server *machinery.Server
	worker *machinery.Worker
	logger *zap.Logger
}

// NewWorker connects to the broker and launches a single consumer. Launch
// errors are sent on errCh. taskLogger, when set, replaces machinery's own
// logger.
func NewWorker(cache *cache.Cache, logger *zap.Logger, taskLogger logging.LoggerInterface, errCh chan<- error) (*Worker, error) {
	cnf, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if taskLogger != nil {
		machinerylog.Set(taskLogger)
	}

	server, err := machinery.NewServer(cnf)
	if err != nil {
		return nil, err
	}

	worker := server.NewWorker(consumerTag, 1)

	w := &Worker{
		cache:  cache,
		server: server,
		worker: worker,
		logger: logger,
	}

	worker.SetPreTaskHandler(w.preHandler)
	worker.SetErrorHandler(w.errorHandler)
	worker.SetPostTaskHandler(w.postHandler)

	go func() {
		if err := worker.Launch(); err != nil {
			errCh <- err
		}
	}()
	return w, nil
}

func loadConfig() (*config.Config, error) {
	envConfig := &envConfig{}
	if err := env.Parse(envConfig, env.Options{}); err != nil {
		return nil, err
	}

	if _, err := os.Stat(envConfig.ConfigPath); err == nil {
		return config.NewFromYaml(envConfig.ConfigPath, true)
	}

	return &config.Config{
		DefaultQueue:    "usage_tasks",
		ResultsExpireIn: int(_TaskTTL.Seconds()),
		Broker:          envConfig.Broker,
		ResultBackend:   envConfig.Backend,
		Redis: &config.RedisConfig{
			MaxIdle:                3,
			IdleTimeout:            240,
			ReadTimeout:            15,
			WriteTimeout:           15,
			ConnectTimeout:         15,
			NormalTasksPollPeriod:  1000,
			DelayedTasksPollPeriod: 500,
		},
		NoUnixSignals: true,
	}, nil
}

func (w *Worker) preHandler(sig *tasks.Signature) {
	w.logger.Info("start task",
		zap.String("uuid", sig.UUID),
		zap.String("task", sig.Name),
		zap.Time("startAt", time.Now()),
		zap.Int("retry", sig.RetryCount))
}

func (w *Worker) errorHandler(err error) {
	w.logger.Error("error task", zap.Error(err))
}

func (w *Worker) postHandler(sig *tasks.Signature) {
	w.logger.Info("finish task",
		zap.String("uuid", sig.UUID),
		zap.String("task", sig.Name),
		zap.Time("finishAt", time.Now()))
}

// SendTaskWithContext queues task unless a task with the same name was
// queued by this process within the result TTL and has not failed, in which
// case the state of that task is returned instead.
func (w *Worker) SendTaskWithContext(ctx context.Context, task *tasks.Signature, name string) (*tasks.TaskState, error) {
	if uuid, err := w.GetUUID(name); err == nil {
		taskState, err := w.getTask(uuid)
		if err == nil && !taskState.IsFailure() {
			return taskState, nil
		}
	}

	result, err := w.server.SendTaskWithContext(ctx, task)
	if err != nil {
		return nil, err
	}
	taskState := result.GetState()

	w.cache.SetWithTTL(taskPrefix+name, taskState.TaskUUID, _TaskTTL)

	return taskState, nil
}

func (w *Worker) GetUUID(name string) (string, error) {
	uuid, exist := w.cache.Get(taskPrefix + name)
	if !exist {
		return "", errors.NotFoundErr("task", name)
	}
	return uuid.(string), nil
}

func (w *Worker) getTask(uuid string) (*tasks.TaskState, error) {
	return w.server.GetBackend().GetState(uuid)
}

func (w *Worker) GetTaskStatus(uuid string) (string, error) {
	taskState, err := w.getTask(uuid)
	if err != nil {
		return "", err
	}
	return taskState.State, nil
}

// GetTaskResult returns tasks.ErrTaskReturnsNoValue while the task is still
// running and a TaskFailedError once it failed.
func (w *Worker) GetTaskResult(uuid string) ([]reflect.Value, error) {
	taskState, err := w.getTask(uuid)
	if err != nil {
		return nil, err
	}
	switch {
	case taskState.IsSuccess():
		return tasks.ReflectTaskResults(taskState.Results)
	case taskState.IsFailure():
		return nil, errors.TaskFailedErr(uuid, taskState.Error)
	}
	return nil, tasks.ErrTaskReturnsNoValue
}

func (w *Worker) RegisterTask(name string, task interface{}) error {
	return w.server.RegisterTask(name, task)
}

func (w *Worker) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.worker.Quit()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
