package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"parm-catalog/config"
	"parm-catalog/internal/catalog"
	"parm-catalog/internal/db"
	"parm-catalog/internal/logging"
	"parm-catalog/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

type rootOptions struct {
	ConfigPath string
}

// New builds the parmctl root command.
func New() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "parmctl",
		Short:        "Manage the PARM asset catalog.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", configPathFromEnv(),
		"Path to the configuration file. Defaults to $CONFIG_PATH.")

	addCommands(cmd, opts)
	return cmd
}

func addCommands(topLevel *cobra.Command, opts *rootOptions) {
	addImport(topLevel, opts)
	addTree(topLevel, opts)
	addAssets(topLevel, opts)
}

func configPathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

// env is what a subcommand needs to reach the database.
type env struct {
	cfg    *config.Config
	store  store.Store
	logger *slog.Logger
	close  func()
}

func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", o.ConfigPath, err)
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, err
	}
	closeDB := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return &env{cfg: cfg, store: store.NewGormStore(gormDB), logger: logger, close: closeDB}, nil
}

func (e *env) catalog(ctx context.Context) (*catalog.Catalog, error) {
	return store.LoadCatalog(ctx, e.store)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
