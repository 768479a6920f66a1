// Package server wires the development identity server: Postgres storage,
// the Redis revocation store, the mailer, the copilot runtime and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/growthpods/growthpods/internal/logging"
	"github.com/growthpods/growthpods/internal/server/config"
	"github.com/growthpods/growthpods/internal/server/copilot"
	"github.com/growthpods/growthpods/internal/server/httpapi"
	"github.com/growthpods/growthpods/internal/server/mailer"
	"github.com/growthpods/growthpods/internal/server/repositories/repomanager"
	"github.com/growthpods/growthpods/internal/server/services"
	"github.com/growthpods/growthpods/internal/server/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.LogFormat, os.Stdout, "info")

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	rdb, err := sessions.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	var m mailer.Mailer = mailer.NewLogMailer(logger)
	if cfg.ResendAPIKey != "" {
		rs, err := mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
		if err != nil {
			db.Close()
			rdb.Close()
			return nil, fmt.Errorf("mailer init error: %w", err)
		}
		m = rs
	} else {
		logger.Warn(ctx, "no resend api key, reset links will only be logged")
	}

	cp := copilot.NewRuntime(cfg.CopilotAPIKey, cfg.CopilotModel)
	us := services.NewUserService(db, rm, sessions.NewRedisStore(rdb), m, logger, cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := httpapi.NewRouter(httpapi.NewHandler(us, cp, logger), registry, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
		server: httpapi.NewServer(cfg.EndpointAddr, router, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if cerr := app.redis.Close(); cerr != nil {
		app.logger.Error(ctx, "redis close", "error", cerr)
	}
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close", "error", cerr)
	}
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
