package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutdown Server, waiting before killing")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server Shutdown")
	}

	log.Info().Msg("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Info().Str("version", version).Msg("Starting Library")

	db, err := database.NewDatabase(cfg.Database.Driver, cfg.Database.Path, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	service := catalog.NewService(database.NewStore(db.DB), auditService)

	sessionManager, err := newSessionManager(db, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session manager")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	cleanup := scheduler.NewAuditCleanupScheduler(cfg.Audit.CleanupSchedule, auditCleanupJob(taskClient, auditService, cfg.Audit.RetentionDays))
	if err := cleanup.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start audit cleanup scheduler")
	}

	var csrfSecret []byte
	if cfg.Security.CSRFSecret != "" {
		csrfSecret = []byte(cfg.Security.CSRFSecret)
	} else {
		log.Warn().Msg("CSRF_SECRET is not set, CSRF protection is disabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Service:       service,
		Database:      db,
		Audit:         auditService,
		Sessions:      sessionManager,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Security.SecureCookies,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// newSessionManager keeps sessions next to the catalog when it lives in
// sqlite and in memory otherwise.
func newSessionManager(db *database.Database, cfg *config.Config) (*security.SessionManager, error) {
	sessionCfg := security.SessionConfig{
		Lifetime:      cfg.Security.SessionLifetime,
		SecureCookies: cfg.Security.SecureCookies,
	}
	if db.Driver != database.DriverSQLite {
		return security.NewMemorySessionManager(sessionCfg), nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db for sessions: %w", err)
	}
	return security.NewSQLiteSessionManager(sqlDB, sessionCfg)
}

// auditCleanupJob enqueues a cleanup task when the queue runs, and cleans up
// inline otherwise.
func auditCleanupJob(client *tasks.Client, cleaner tasks.AuditEventCleaner, retentionDays int) scheduler.Job {
	return func(ctx context.Context) error {
		if client == nil {
			_, err := tasks.CleanupAuditEvents(ctx, cleaner, retentionDays)
			return err
		}
		return client.Enqueue(ctx, tasks.CleanupAuditEventsTask{RetentionDays: retentionDays})
	}
}
