package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/mtran-dev/fitcoach/internal/envstruct"
	"github.com/mtran-dev/fitcoach/internal/logging"
	"github.com/mtran-dev/fitcoach/internal/schedule"
	"github.com/mtran-dev/fitcoach/internal/sqlite"
)

type application struct {
	logger          *slog.Logger
	sessionManager  *scs.SessionManager
	scheduleService *schedule.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITCOACH_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITCOACH_SQLITE_URL" envDefault:"./fitcoach.sqlite3"`
	// OpenAIAPIKey enables AI-generated exercise descriptions when set.
	OpenAIAPIKey string `env:"FITCOACH_OPENAI_API_KEY" envDefault:""`
	// SessionLifetimeHours bounds how long a draft plan survives in the session.
	SessionLifetimeHours int `env:"FITCOACH_SESSION_LIFETIME_HOURS" envDefault:"12"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return fmt.Errorf("populate config: %w", err)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return fmt.Errorf("open db %s: %w", cfg.SqliteURL, err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	app := application{
		logger:          logger,
		sessionManager:  initializeSessionManager(db, cfg.SessionLifetimeHours),
		scheduleService: schedule.NewService(db, logger, cfg.OpenAIAPIKey),
	}

	if err = app.serve(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

func initializeSessionManager(db *sqlite.Database, lifetimeHours int) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = time.Duration(lifetimeHours) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", slog.Any("error", err))
		os.Exit(1)
	}
}
