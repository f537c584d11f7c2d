package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"usage-report-server/cmd/api-server/app/options"
	"usage-report-server/internal/api/export"
	"usage-report-server/internal/api/report"
	"usage-report-server/internal/api/snapshot"
	"usage-report-server/internal/auth"
	cache2 "usage-report-server/internal/cache"
	"usage-report-server/internal/client/compute"
	"usage-report-server/internal/client/network"
	db "usage-report-server/internal/database"
	log "usage-report-server/internal/logger"
	"usage-report-server/internal/render"
	"usage-report-server/internal/usage"
	"usage-report-server/internal/worker"
)

type Server struct {
	app    *fiber.App
	cache  *cache2.Cache
	db     *gorm.DB
	worker *worker.Worker
	logger *zap.Logger
}

func NewServer(opts *options.Options, logger *zap.Logger, errCh chan<- error) *Server {
	// snapshot history (postgres), optional
	conn, err := db.Connect(*opts.Mode)
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}
	if conn == nil {
		logger.Info("DB_HOST is not set, snapshot history is disabled")
	}

	cache, err := cache2.NewCache()
	if err != nil {
		logger.Fatal("Unable to init cache", zap.Error(err))
	}

	computeClient, err := compute.NewClient(*opts.ComputeURL, opts.Env.ServiceToken)
	if err != nil {
		logger.Fatal("Invalid compute endpoint", zap.Error(err))
	}
	deps := usage.Deps{
		Compute: computeClient,
		Cache:   cache,
		Clock:   clockwork.NewRealClock(),
	}
	if *opts.NetworkURL != "" {
		networkClient, err := network.NewClient(*opts.NetworkURL, opts.Env.ServiceToken)
		if err != nil {
			logger.Fatal("Invalid network endpoint", zap.Error(err))
		}
		deps.Network = networkClient
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Fatal("Unable to parse report templates", zap.Error(err))
	}

	accessLog, err := log.NewAccessLogWriter(*opts.AccessLog)
	if err != nil {
		logger.Fatal("Unable to open access log", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName: "Usage Report API Server",
		Prefork: false,
	})

	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(etag.New())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] [${ip}:${port}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     accessLog,
	}))

	if *opts.Mode == "debug" {
		app.Use(pprof.New())
	}

	api := app.Group("/api/v1", auth.Middleware(opts.Env.JWTSecret)...)

	// snapshot
	snapshotLogger := logger.Named("snapshot")
	var snapshotRepository snapshot.SnapshotRepository
	if conn != nil {
		snapshotRepository = snapshot.NewSnapshotRepository(conn)
	}
	snapshotService := snapshot.NewSnapshotService(snapshotRepository, deps.Clock, snapshotLogger)
	snapshot.SnapshotRouter(api, snapshotService, snapshotLogger)

	// report
	reportLogger := logger.Named("report")
	usageService := report.NewUsageService(deps, snapshotService, reportLogger)
	report.ReportRouter(api, usageService, renderer, deps.Clock, reportLogger)

	// export
	var w *worker.Worker
	if *opts.DisableWorker {
		logger.Info("export worker is disabled")
	} else {
		exportLogger := logger.Named("export")
		w, err = worker.NewWorker(cache, exportLogger, log.NewTaskLogger(os.Stdout, *opts.Mode), errCh)
		if err != nil {
			logger.Fatal("Unable to initialize worker", zap.Error(err))
		}
		exportDeps := deps
		exportDeps.Logger = exportLogger
		exportService, err := export.NewExportService(w, exportDeps, renderer, exportLogger)
		if err != nil {
			logger.Fatal("Unable to register export task", zap.Error(err))
		}
		export.ExportRouter(api, exportService, deps.Clock, exportLogger)
	}

	app.Get("/dashboard", monitor.New())

	app.Get("/swagger/*", swagger.Handler) // default

	app.All("*", func(c *fiber.Ctx) error {
		errorMessage := fmt.Sprintf("Route '%s' does not exist in this API!", c.OriginalURL())

		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"status":  "fail",
			"message": errorMessage,
		})
	})

	return &Server{
		app:    app,
		cache:  cache,
		db:     conn,
		worker: w,
		logger: logger,
	}
}

func (app *Server) Listen(port int, certFile, keyFile *string) error {
	app.logger.Info("Starting Usage Report api-server ...")

	address := fmt.Sprintf(":%d", port)
	if certFile != nil && keyFile != nil {
		if *certFile != "" && *keyFile != "" {
			return app.app.ListenTLS(address, *certFile, *keyFile)
		}
	}
	return app.app.Listen(address)
}

func (app *Server) Shutdown(parentCtx context.Context) error {
	g, ctx := errgroup.WithContext(parentCtx)
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	g.Go(func() error {
		return app.app.Shutdown()
	})
	g.Go(func() error {
		if app.worker != nil {
			if err := app.worker.Stop(ctx); err != nil {
				return err
			}
		}
		return db.Close(app.db)
	})
	err := g.Wait()
	app.cache.Clear()
	return err
}

func Run(opts *options.Options, logger *zap.Logger) error {
	// Start api-server
	apiServerError := make(chan error)

	server := NewServer(opts, logger, apiServerError)

	go func() {
		if err := server.Listen(*opts.Port, opts.CertFile, opts.KeyFile); err != nil && err != http.ErrServerClosed {
			logger.Error("Listen for api-server failed", zap.Error(err))
			apiServerError <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown server ...")

		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("close api-server failed", zap.Error(err))
			return err
		}
	case err := <-apiServerError:
		return err
	}

	return nil
}
