// Package server wires the account store together: configuration, the
// connection gateway, repositories, services and the CLI front end.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/socialnet/internal/cryptox"
	"github.com/dmitrijs2005/socialnet/internal/dbx"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/cli"
	"github.com/dmitrijs2005/socialnet/internal/server/config"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/socialnet/internal/server/seed"
	"github.com/dmitrijs2005/socialnet/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repomanager  repomanager.RepositoryManager
	userService  *services.UserService
	resetService *services.ResetService
}

// NewApp builds the application over PostgreSQL. Logs go to stderr so that
// command output on stdout stays clean.
func NewApp(c *config.Config) *App {
	logger := logging.NewJSONLogger(os.Stderr, slog.LevelInfo)

	gateway := dbx.NewGateway(dbx.PgxOpener(c.DatabaseDSN), c.ConnectTimeout, logger)
	rm := repomanager.NewPostgresRepositoryManager(gateway, logger)

	return newApp(c, logger, rm, seed.NewFileSource(c.SeedFile))
}

func newApp(c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager, src seed.Source) *App {
	hash := cryptox.NewPasswordHasher(c.PasswordSalt)

	return &App{
		config:       c,
		logger:       logger,
		repomanager:  rm,
		userService:  services.NewUserService(rm.Users(), hash, c, logger),
		resetService: services.NewResetService(rm.Documents(), rm.Users(), src, hash, logger),
	}
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

// Run applies the migrations and executes cmd, reading prompts from in and
// writing results to out.
func (app *App) Run(ctx context.Context, cmd string, in io.Reader, out io.Writer) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "Unable to prepare the database", "error", err)
		return fmt.Errorf("db init error: %w", err)
	}

	commands := cli.NewCommands(app.userService, app.resetService, in, out)
	return commands.Run(ctx, cmd)
}
