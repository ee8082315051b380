// Package cli wires the collector's cobra command tree.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/collector"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/config"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/fetch"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/fingerprint"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/logging"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/repositories"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/services"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/sources"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Execute runs the command tree and returns the process exit code.
func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "odyssey-collector",
		Short: "Collect hunting draw data from state agency sites",
		Long: `odyssey-collector scrapes state wildlife agency sites for hunting
units, draw statistics, deadlines, fees, seasons, regulations, and
leftover tag availability, and upserts them into PostgreSQL.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newCollectCmd(version))
	root.AddCommand(newSourcesCmd())
	root.AddCommand(newHistoryCmd(version))
	return root
}

// app bundles the dependencies the database-backed commands boot.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
	store  *repositories.Store
}

func bootstrap(ctx context.Context, version string) (*app, func(), error) {
	cfg, err := config.Load(version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Connect(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
		MinConnections: cfg.Database.MinConnections,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cleanup := func() {
		db.Close()
		_ = logger.Sync()
	}
	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		store:  repositories.NewStore(db),
	}, cleanup, nil
}

func newCollectCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "collect [source...]",
		Short: "Run a collection pass over the registered sources",
		Long: `Collect scrapes each requested source in order, one at a time, and
prints a per-source summary when the batch finishes. With no arguments
every registered source runs in id order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd.Context(), version, args)
		},
	}
}

func runCollect(ctx context.Context, version string, ids []string) error {
	a, cleanup, err := bootstrap(ctx, version)
	if err != nil {
		return err
	}
	defer cleanup()

	a.logger.Info("starting collection run",
		zap.String("version", a.cfg.Version),
		zap.String("env", a.cfg.Env),
		zap.Strings("sources", ids))

	if err := migrate(a.cfg, a.logger); err != nil {
		return err
	}

	catalog := sources.DefaultCatalog()
	if err := catalog.Load(a.cfg.Collector.SourcesFile); err != nil {
		return err
	}

	client := fetch.NewClient(a.cfg.Collector, a.logger)
	fingerprints := fingerprint.NewService(a.store.Fingerprints, a.logger)
	pages := sources.NewPageClient(client, fingerprints, a.logger)

	runner := collector.NewRunner(newRegistry(pages, catalog, a.logger), a.store,
		a.cfg.Collector.PolitenessDelay(), a.logger)
	return runner.Run(ctx, ids)
}

// migrate applies pending schema migrations. golang-migrate drives
// database/sql, not pgx's native pool, so it gets its own short-lived
// connection.
func migrate(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open sql connection: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the registered sources and their configured pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Listing metadata must not require database credentials, so
			// this skips config.Load and reads the one knob it needs.
			path := os.Getenv("COLLECTOR_SOURCES_FILE")
			if path == "" {
				path = "sources.yaml"
			}

			catalog := sources.DefaultCatalog()
			if err := catalog.Load(path); err != nil {
				return err
			}

			registry := newRegistry(nil, catalog, zap.NewNop())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPAGES")
			for _, src := range registry.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					src.ID(), src.Name(), strings.Join(catalog.Pages(src.ID()), ", "))
			}
			return w.Flush()
		},
	}
}

func newHistoryCmd(version string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <source>",
		Short: "Show recent collection runs and fee summaries for a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), version, args[0], limit, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	return cmd
}

func runHistory(ctx context.Context, version, source string, limit int, out io.Writer) error {
	a, cleanup, err := bootstrap(ctx, version)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := services.NewAuditService(a.store.RunAudits, a.store.TagCostSummaries, a.logger)

	runs, err := svc.RecentRuns(ctx, source, limit)
	if err != nil {
		return err
	}

	costs, err := svc.TagCosts(ctx, source)
	if err != nil {
		return err
	}

	return printHistory(out, source, runs, costs)
}

func printHistory(out io.Writer, source string, runs []*models.RunAudit, costs []models.TagCostSummary) error {
	if len(runs) == 0 {
		fmt.Fprintf(out, "no recorded runs for %s\n", source)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tROWS\tSKIPPED\tERRORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n",
			run.CreatedAt.UTC().Format(time.RFC3339), run.TotalRows, run.RowsSkipped, len(run.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if latest := runs[0]; latest.Failed() {
		fmt.Fprintln(out, "\nlast run errors:")
		for _, msg := range latest.Errors {
			fmt.Fprintf(out, "  %s\n", msg)
		}
	}

	if len(costs) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tRESIDENT\tNONRESIDENT\tAPP\tQUALIFYING\tPOINT")
	for _, c := range costs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Species,
			fmtMoney(c.ResidentTag), fmtMoney(c.NonresidentTag), fmtMoney(c.AppFee),
			fmtMoney(c.QualifyingLicenseFee), fmtMoney(c.PointFee))
	}
	return w.Flush()
}

func fmtMoney(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *amount)
}

// newRegistry wires every production source. pages may be nil only for
// metadata listings that never collect.
func newRegistry(pages *sources.PageClient, catalog *sources.Catalog, logger *zap.Logger) *sources.Registry {
	return sources.NewRegistry(
		sources.NewColorado(pages, catalog, logger),
		sources.NewWyoming(pages, catalog, logger),
	)
}
