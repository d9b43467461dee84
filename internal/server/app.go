// Package server wires configuration, the user store, the services and the
// HTTP API together and runs them until the process is signalled.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/hasher"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"

	hs "github.com/dmitrijs2005/gophauth/internal/server/http"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	repomanager     repomanager.RepositoryManager
	authService     *services.AuthService
	identityService *services.IdentityService
}

// NewLogger builds the logger described by c, writing to stdout.
func NewLogger(c *config.Config) (logging.Logger, error) {
	return logging.New(os.Stdout, c.LogFormat, c.LogLevel)
}

// Services opens the configured store, runs its migrations and builds the
// identity and auth services on top of it. The caller owns the returned
// manager and must Close it.
func Services(ctx context.Context, c *config.Config, l logging.Logger) (repomanager.RepositoryManager, *services.IdentityService, *services.AuthService, error) {
	rm, err := repomanager.Open(ctx, repomanager.Options{
		Driver:        c.StoreDriver,
		DSN:           c.StoreDSN(),
		MongoDatabase: c.MongoDatabase,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, nil, nil, fmt.Errorf("migrations error: %w", err)
	}

	h := hasher.NewBcryptHasher(c.BcryptCost)
	tm := auth.NewTokenManager([]byte(c.SecretKey), c.TokenIssuer, c.AccessTokenValidityDuration)

	is := services.NewIdentityService(rm.Users(), h, l)
	as := services.NewAuthService(rm.Users(), is, h, tm, l)

	return rm, is, as, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := NewLogger(c)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, is, as, err := Services(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "store ready", "driver", c.StoreDriver)

	return &App{config: c, logger: logger, repomanager: rm, authService: as, identityService: is}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.identityService, app.config.AllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
