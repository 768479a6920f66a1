package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/growthpods/growthpods/internal/client/client"
	"github.com/growthpods/growthpods/internal/client/config"
	"github.com/growthpods/growthpods/internal/client/repositories/metadata"
	"github.com/growthpods/growthpods/internal/client/services"
	"github.com/growthpods/growthpods/internal/client/session"
	"github.com/growthpods/growthpods/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	logger      logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := session.NewStore(metadata.NewSQLiteRepository(db))

	apiClient, err := client.NewHTTPClient(c.ServerBaseURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:      c,
		authService: services.NewAuthService(apiClient, store),
		logger:      logger,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// Run blocks in the REPL until the user exits or ctx is cancelled, then
// releases the transport and the local database.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		if err := a.authService.Close(ctx); err != nil {
			a.logger.Warn(ctx, "close transport", "error", err)
		}
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to Growth Pods CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	ok, err := a.authService.IsLoggedIn(ctx)
	if err != nil {
		a.logger.Error(ctx, "read session", "error", err)
		return false
	}
	return ok
}

func (a *App) getStatus(ctx context.Context) string {
	s := "logged out"
	if a.isLoggedIn(ctx) {
		s = "logged in"
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher probes the server once immediately and then on
// every tick until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.authService.Ping(pingCtx)
		cancel()

		if err != nil {
			a.setMode(ctx, ModeOffline)
		} else {
			a.setMode(ctx, ModeOnline)
		}
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
