package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/pgsink/internal/config"
	"github.com/vvka-141/pgsink/internal/db"
	"github.com/vvka-141/pgsink/internal/loader"
	"github.com/vvka-141/pgsink/internal/logging"
	"github.com/vvka-141/pgsink/internal/mapping"
	"github.com/vvka-141/pgsink/internal/pipeline"
	"github.com/vvka-141/pgsink/pkg/pgsink"
)

var loadCmd = &cobra.Command{
	Use:   "load <csv_path>",
	Short: "Bulk-load a CSV file into a destination table",
	Long: `Load streams the rows of a CSV file through the batching bulk-load
pipeline into a PostgreSQL table. Rows are grouped into fixed-size
batches and each batch is written with one COPY operation. Field values
are sent as text; the server parses them against the destination column
types. Destination columns are resolved from the table definition in
declaration order.

Use "-" as the path to read from stdin.

Connection Resolution:
  For security, the connection string is NOT required as a CLI flag.
  Resolution order:
    1. --connection flag
    2. connection key in pgsink.yaml next to the CSV file
    3. $PGSINK_CONNECTION, then $DATABASE_URL (optionally via --env-file)

Examples:
  # Load a CSV with a header row
  pgsink load ./events.csv --table events --header

  # Stream from another tool, running ANALYZE after each batch
  gunzip -c events.csv.gz | pgsink load - --table analytics.events --analyze

  # Defaults from pgsink.yaml, credentials from a .env file
  pgsink load ./events.csv --env-file prod.env`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	connection, table, label, name string
	batchSize, queueDepth          int
	concurrency                    int
	timeout                        time.Duration
	envFile                        string
	header                         bool
	analyze                        bool
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFlags.connection, "connection", "", "PostgreSQL connection string")
	loadCmd.Flags().StringVarP(&loadFlags.table, "table", "t", "", "Destination table (optionally schema-qualified)")
	loadCmd.Flags().StringVarP(&loadFlags.label, "label", "l", "", "Destination label for mapping resolution (default: table name)")
	loadCmd.Flags().StringVar(&loadFlags.name, "name", "", "Stage instance name used in logs")
	loadCmd.Flags().IntVarP(&loadFlags.batchSize, "batch-size", "b", 0, fmt.Sprintf("Records per batch (default %d)", pgsink.DefaultBatchSize))
	loadCmd.Flags().IntVar(&loadFlags.queueDepth, "queue-depth", 0, fmt.Sprintf("Sealed batches buffered before backpressure (default %d)", pgsink.DefaultQueueDepth))
	loadCmd.Flags().IntVarP(&loadFlags.concurrency, "concurrency", "c", 0, fmt.Sprintf("Concurrent bulk transfers; above 1 batches may complete out of order (default %d)", pgsink.DefaultConcurrency))
	loadCmd.Flags().DurationVar(&loadFlags.timeout, "timeout", 0, "Per-batch transfer timeout (0 = none)")
	loadCmd.Flags().StringVar(&loadFlags.envFile, "env-file", "", "Env file with connection credentials (default: .env if present)")
	loadCmd.Flags().BoolVar(&loadFlags.header, "header", false, "Skip the first CSV row")
	loadCmd.Flags().BoolVar(&loadFlags.analyze, "analyze", false, "Run ANALYZE on the table after each batch (post-load hook)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	csvPath := args[0]
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	cfg, err := resolveLoadConfig(csvPath)
	if err != nil {
		return err
	}
	if loadFlags.analyze {
		cfg.Hook = analyzeHook
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ApplyDefaults()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connector := db.NewStandardConnector(cfg, logger)
	pool, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	adapter := db.NewPoolAdapter(pool)
	resolver := mapping.NewResolver(adapter, nil)
	stage := pipeline.New(cfg, loader.New(cfg, adapter, resolver, logger), logger)

	logger.Verbose("%s: loading %s into %q (batch size %d, concurrency %d)",
		stage.Name(), csvPath, cfg.Table, cfg.BatchSize, cfg.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stage.Run(gctx)
	})
	g.Go(func() error {
		return produceCSV(gctx, stage, csvPath, loadFlags.header)
	})
	return g.Wait()
}

// resolveLoadConfig layers CLI flags over pgsink.yaml over environment
// variables. Flags win; the env file never overrides the environment.
func resolveLoadConfig(csvPath string) (pgsink.LoadConfig, error) {
	var cfg pgsink.LoadConfig

	if err := config.LoadEnv(loadFlags.envFile); err != nil {
		return cfg, err
	}

	project, err := config.Load(projectDir(csvPath))
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return cfg, err
		}
		project = &config.ProjectConfig{}
	}

	cfg.ConnectionString = firstOf(loadFlags.connection, project.Connection, config.ConnectionFromEnv())
	cfg.Table = firstOf(loadFlags.table, project.Table)
	cfg.Label = firstOf(loadFlags.label, project.Label, cfg.Table)
	cfg.Name = firstOf(loadFlags.name, project.Name)
	cfg.BatchSize = firstNonZero(loadFlags.batchSize, project.BatchSize)
	cfg.QueueDepth = firstNonZero(loadFlags.queueDepth, project.QueueDepth)
	cfg.Concurrency = firstNonZero(loadFlags.concurrency, project.Concurrency)

	cfg.Timeout = loadFlags.timeout
	if cfg.Timeout == 0 && project.Timeout != "" {
		d, err := time.ParseDuration(project.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("timeout in %s: %w: %w", config.ConfigFileName, pgsink.ErrInvalidConfig, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// projectDir is the directory pgsink.yaml is searched in: next to the
// CSV file, or the working directory when reading stdin.
func projectDir(csvPath string) string {
	if csvPath == "-" {
		return "."
	}
	return filepath.Dir(csvPath)
}

// produceCSV pushes every CSV row into the stage and signals completion.
// Each row becomes a []string record; the default field accessor reads
// it by ordinal.
func produceCSV(ctx context.Context, stage *pipeline.Stage, path string, skipHeader bool) error {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	r := csv.NewReader(in)
	r.ReuseRecord = false

	if skipHeader {
		if _, err := r.Read(); err != nil && err != io.EOF {
			return fmt.Errorf("read header: %w", err)
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		if err := stage.Push(ctx, row); err != nil {
			return err
		}
	}
	return stage.Close(ctx)
}

// analyzeHook refreshes planner statistics for the destination table on
// the same connection the batch was written on.
func analyzeHook(ctx context.Context, dbc pgsink.Executor, table, _ string) error {
	ident := pgx.Identifier(splitQualified(table))
	_, err := dbc.Exec(ctx, "ANALYZE "+ident.Sanitize())
	return err
}

func splitQualified(table string) []string {
	return strings.SplitN(table, ".", 2)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
