// Command fintrack is a local personal-finance tracker. Records are kept in a
// SQLite blob store on disk and belong to the locally signed-in user.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubh-aarambh/fintrack/internal/auth"
	"github.com/shubh-aarambh/fintrack/internal/config"
	"github.com/shubh-aarambh/fintrack/internal/records"
	"github.com/shubh-aarambh/fintrack/internal/storage"
	"github.com/shubh-aarambh/fintrack/internal/storage/backend"
	"github.com/shubh-aarambh/fintrack/pkg/logging"
)

const appName = "fintrack"

// app holds what every subcommand needs. Storage is opened in
// PersistentPreRunE so that --help works without a database.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time

	// openStorage is replaced in tests.
	openStorage func(ctx context.Context, cfg *config.Config) (storage.Store, error)

	blobs     storage.Store
	directory *auth.Directory
	auth      auth.Authenticator

	// stdout and stdin override the process streams when set.
	stdout io.Writer
	stdin  io.Reader

	// password is read from --password, then FINTRACK_PASSWORD, then a prompt.
	password string
	asJSON   bool
}

func main() {
	cfg := config.Load()
	a := &app{
		cfg:         cfg,
		logger:      logging.SetupWith(cfg.LogLevel, cfg.LogFormat),
		now:         time.Now,
		openStorage: backend.Open,
	}

	if err := execute(context.Background(), a, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs one command line and closes storage however it ends.
func execute(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	if a.stdout != nil {
		root.SetOut(a.stdout)
	}
	if a.stdin != nil {
		root.SetIn(a.stdin)
	}
	err := root.ExecuteContext(ctx)
	if a.blobs != nil {
		if cerr := a.blobs.Close(); cerr != nil && err == nil {
			err = cerr
		}
		a.blobs = nil
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Track income, expenses and budgets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(false); err != nil {
				return err
			}
			blobs, err := a.openStorage(cmd.Context(), a.cfg)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			a.blobs = blobs
			a.directory = auth.NewDirectory(blobs)
			a.auth = auth.NewPasswordAuthenticator(a.directory)
			a.logger.Debug("Storage opened", "backend", a.cfg.StorageBackend, "location", backend.Describe(a.cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "Path to the SQLite database")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newCategoriesCmd(a),
		newBudgetCmd(a),
		newDashboardCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// recordStore opens the signed-in user's records. seed runs the first-use
// defaults, which only register and login ask for.
func (a *app) recordStore(ctx context.Context, seed bool) (*records.Store, error) {
	user, ok, err := a.directory.Active(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: run '%s login' first", records.ErrNoActiveUser, appName)
	}

	session := records.NewSession(a.blobs, seed,
		records.WithClock(a.now),
		records.WithLogger(a.logger),
	)
	return session.Open(ctx, user.ID)
}
