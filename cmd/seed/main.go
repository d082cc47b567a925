// Command seed loads a YAML fixture file into the local content database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms/local"
	"github.com/liangwei/kuaikuaichuhai-website/internal/config"
)

type options struct {
	configPath   string
	fixturesPath string
	migrate      bool
	dryRun       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import articles, tags, services and cases into the local content store",
		Long: `Reads a fixture file and upserts every entry by slug in one transaction.
Running it again with an edited file updates rows in place.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "path to configuration file")
	cmd.Flags().StringVarP(&opts.fixturesPath, "fixtures", "f", "configs/fixtures.yaml", "path to fixture file")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "create or update tables before importing")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and check the fixture file without writing")
	return cmd
}

func run(ctx context.Context, opts *options, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fx, err := local.LoadFixtures(opts.fixturesPath)
	if err != nil {
		return err
	}
	if opts.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "fixtures ok: %d tags, %d articles, %d services, %d cases\n",
			len(fx.Tags), len(fx.Articles), len(fx.Services), len(fx.Cases))
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.CMS.IsRemote() {
		return fmt.Errorf("seed writes to the local store, but cms.provider is %q", cfg.CMS.Provider)
	}

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer log.Close()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if opts.migrate {
		if err := local.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	stats, err := local.Import(ctx, db, fx)
	if err != nil {
		return fmt.Errorf("import %s: %w", opts.fixturesPath, err)
	}
	log.Info("fixtures imported",
		slog.String("file", opts.fixturesPath),
		slog.Int("tags", stats.Tags),
		slog.Int("articles", stats.Articles),
		slog.Int("services", stats.Services),
		slog.Int("cases", stats.Cases),
	)
	return nil
}
