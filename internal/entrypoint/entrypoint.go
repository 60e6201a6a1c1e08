package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/flashcards/internal/auth"
	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database"
	http_controllers "github.com/mrlokans/flashcards/internal/http"
	"github.com/mrlokans/flashcards/internal/importers"
	"github.com/mrlokans/flashcards/internal/scheduler"
	"github.com/mrlokans/flashcards/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired server and its background workers.
type App struct {
	Handler    http.Handler
	DB         *database.Database
	TaskClient *tasks.Client
	Scheduler  *scheduler.CleanupScheduler

	taskCancel context.CancelFunc
}

// NewApp opens the database, seeds it and builds the HTTP handler. Background
// workers are created but not started.
func NewApp(cfg *config.Config, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app := &App{DB: db}

	seed(db, cfg.Seed.Path)

	// Task queue is SQLite-backed and lives next to the main database file
	if cfg.Tasks.Enabled {
		if cfg.Database.Driver == config.DriverSQLite {
			app.TaskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
			if err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to initialize task queue: %w", err)
			}
			app.TaskClient.Register(tasks.NewCleanupOrphansQueue(db))
		} else {
			log.Printf("Task queue disabled: only available with the sqlite driver")
		}
	}

	if cfg.Cleanup.Enabled {
		app.Scheduler = scheduler.NewCleanupScheduler(cfg.Cleanup.Schedule, app.cleanupJob())
	}

	authService := auth.NewService(db, cfg.Auth)
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var rateLimiter *auth.RateLimiter

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		if cfg.Database.Driver == config.DriverSQLite {
			sqlDB, err := db.DB.DB()
			if err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
			}
			sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
			if err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to initialize session manager: %w", err)
			}
		} else {
			log.Printf("Sessions are kept in memory for driver %s", cfg.Database.Driver)
			sessionManager = auth.NewMemorySessionManager(cfg.Auth)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)
		rateLimiter = auth.NewRateLimiter(auth.RateLimitConfig{})
	} else {
		log.Printf("Authentication mode: none (every request acts as user %d)", cfg.Auth.DefaultUserID)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		RateLimiter:    rateLimiter,
		DefaultUserID:  cfg.Auth.DefaultUserID,
		CORS:           cfg.CORS,
		Version:        version,
	}
	if app.TaskClient != nil {
		routerCfg.Cleanup = app.TaskClient
	}

	app.Handler = http_controllers.NewHandler(routerCfg)
	return app, nil
}

func seed(db *database.Database, path string) {
	cards, err := importers.SeedDeck(path)
	if err != nil {
		log.Printf("WARNING: Failed to load seed deck: %v", err)
		return
	}
	if _, err := db.SeedFlashcards(cards); err != nil {
		log.Printf("WARNING: Failed to seed flashcards: %v", err)
	}
}

// cleanupJob goes through the queue when one exists so retries and history
// are kept, and runs inline otherwise.
func (a *App) cleanupJob() scheduler.CleanupJob {
	return func() error {
		if a.TaskClient != nil {
			_, err := a.TaskClient.EnqueueOrphanCleanup("scheduled")
			return err
		}
		deleted, err := a.DB.DeleteOrphanRecords()
		if err != nil {
			return err
		}
		log.Printf("Removed %d orphan records", deleted)
		return nil
	}
}

// Start launches the task workers and the cleanup scheduler.
func (a *App) Start(ctx context.Context) {
	if a.TaskClient != nil {
		var taskCtx context.Context
		taskCtx, a.taskCancel = context.WithCancel(ctx)
		a.TaskClient.Start(taskCtx)
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			log.Printf("WARNING: Cleanup scheduler not started: %v", err)
		}
	}
}

// Shutdown stops background work, waiting at most until ctx expires.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.TaskClient != nil && a.taskCancel != nil {
		a.TaskClient.Stop(ctx)
		a.taskCancel()
	}
}

// Close releases the task queue and database handles.
func (a *App) Close() {
	if a.TaskClient != nil {
		if err := a.TaskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill sends SIGTERM. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Flashcards v%s", version)

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Start(context.Background())
	Serve(app.Handler, cfg, app.Shutdown)
}
