// Package server wires the users service together and runs it: storage,
// mail delivery, the auth primitives, the gRPC endpoint and the Prometheus
// metrics endpoint, with graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kuba1e/food-delivery/internal/buildinfo"
	"github.com/kuba1e/food-delivery/internal/logging"
	"github.com/kuba1e/food-delivery/internal/server/auth"
	"github.com/kuba1e/food-delivery/internal/server/config"
	"github.com/kuba1e/food-delivery/internal/server/guard"
	"github.com/kuba1e/food-delivery/internal/server/mail"
	"github.com/kuba1e/food-delivery/internal/server/metrics"
	"github.com/kuba1e/food-delivery/internal/server/repositories/repomanager"
	"github.com/kuba1e/food-delivery/internal/server/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/kuba1e/food-delivery/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	registry    *prometheus.Registry
	userService *users.Service
	guard       *guard.Guard
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger, registry: prometheus.NewRegistry()}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := buildinfo.Register(app.registry); err != nil {
		return nil, fmt.Errorf("metrics init error: %w", err)
	}
	collector := metrics.NewCollector(app.registry)

	directory, err := app.openDirectory(ctx)
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(c, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	settings := auth.Settings{
		ActivationSecret: c.ActivationSecret,
		ActivationTTL:    c.ActivationTokenTTL,
		AccessSecret:     c.AccessTokenSecret,
		AccessTTL:        c.AccessTokenTTL,
		RefreshSecret:    c.RefreshTokenSecret,
		RefreshTTL:       c.RefreshTokenTTL,
	}
	issuer := auth.NewSessionIssuer(settings)

	app.userService = users.NewService(
		directory,
		mailer,
		auth.NewPasswordHasher(c.PasswordHashCost),
		auth.NewActivationCodec(settings),
		issuer,
		users.WithLogger(logger),
		users.WithMetrics(collector),
		users.WithTimeouts(c.DirectoryTimeout, c.MailTimeout),
	)
	app.guard = guard.New(issuer, directory, logger, collector, guard.WithLookupTimeout(c.DirectoryTimeout))

	return app, nil
}

// openDirectory connects to Postgres and migrates the schema. An empty DSN
// selects the in-memory directory, which loses all accounts on exit.
func (app *App) openDirectory(ctx context.Context) (users.Directory, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, using in-memory user directory")
		return users.NewMemoryRepository(), nil
	}

	db, err := repomanager.Open(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app.db = db
	return rm.Users(db), nil
}

func newMailer(c *config.Config, logger logging.Logger) (mail.Dispatcher, error) {
	renderer, err := mail.NewRenderer()
	if err != nil {
		return nil, err
	}

	if c.SMTPHost == "" {
		return mail.NewLogDispatcher(renderer, logger), nil
	}

	return mail.NewSMTPDispatcher(mail.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		User:     c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.MailFrom,
	}, renderer), nil
}

// Close releases the database handle, if any.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.guard,
		gs.WithRateLimit(app.config.RateLimitRPS, app.config.RateLimitBurst))

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(app.registry))

	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
