package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kuba1e/food-delivery/internal/client/client"
	"github.com/kuba1e/food-delivery/internal/client/config"
	"github.com/kuba1e/food-delivery/internal/client/models"
	"github.com/kuba1e/food-delivery/internal/logging"
)

// userAPI is the part of client.GRPCClient the commands use.
type userAPI interface {
	Register(ctx context.Context, r client.Registration) (string, error)
	Activate(ctx context.Context, token, code string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) (string, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	LoggedIn() bool
	Close() error
}

type App struct {
	config *config.Config
	api    userAPI
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// activationToken is held between register and activate.
	activationToken string
	userName        string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewUserClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel).With("component", "cli")

	return &App{
		config: c,
		api:    apiClient,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) status() string {
	if a.isLoggedIn() && a.userName != "" {
		return "(" + a.userName + ")"
	}
	return ""
}

// report prints err for the user and keeps the detail in the log.
func (a *App) report(ctx context.Context, command string, err error) error {
	fmt.Fprintf(a.out, "Error: %s\n", err)
	a.logger.Debug(ctx, "command failed", "command", command, "error", err)
	return err
}

// Run blocks in the REPL until the user exits, input ends or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			a.logger.Warn(ctx, "closing connection", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to the users CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
}
