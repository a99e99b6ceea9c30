package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/spektr-viz/engine"
	"github.com/spektr-org/spektr-viz/helpers"
	"github.com/spektr-org/spektr-viz/internal/config"
	"github.com/spektr-org/spektr-viz/internal/logging"
	"github.com/spektr-org/spektr-viz/internal/server"
	"github.com/spektr-org/spektr-viz/internal/telemetry"
)

// ============================================================================
// SPEKTR-VIZ CLI — Dataset + chart config → ECharts option JSON
// ============================================================================

const version = "0.3.0"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dataURL    string
	chartURL   string
	chartType  string
	xAxisKey   string
	seriesKeys string
	cross      string
	discover   bool
	serve      bool
	format     string
	outFile    string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opt := &options{}
	fset := flag.NewFlagSet("spektr-viz", flag.ContinueOnError)
	fset.SetOutput(stderr)

	// ── Flags ─────────────────────────────────────────────────────────────
	fset.StringVar(&opt.configPath, "config", "spektr-viz.yaml", "Path to YAML config (optional)")
	fset.StringVar(&opt.dataURL, "data", "", "Dataset location: .json, .yaml or .csv (local path or afs URL)")
	fset.StringVar(&opt.chartURL, "chart", "", "Chart config location: .json or .yaml")
	fset.StringVar(&opt.chartType, "type", "", "Override chart type: line, bar, pie, scatter")
	fset.StringVar(&opt.xAxisKey, "x", "", "Override x-axis field key")
	fset.StringVar(&opt.seriesKeys, "series", "", "Override series field keys (comma-separated)")
	fset.StringVar(&opt.cross, "cross", "", "Cross dimensions (comma-separated)")
	fset.BoolVar(&opt.discover, "discover", false, "Print the auto-detected CSV schema and exit")
	fset.BoolVar(&opt.serve, "serve", false, "Run the HTTP server")
	fset.StringVar(&opt.format, "format", "json", "Output format: json, pretty, yaml, csv, text")
	fset.StringVar(&opt.outFile, "out", "", "Write output to file instead of stdout")
	fset.BoolVar(&opt.version, "version", false, "Print version and exit")

	fset.Usage = func() {
		fmt.Fprintf(stderr, `spektr-viz — dataset + chart config → chart option JSON

Usage:
  spektr-viz --data sales.json --chart line.yaml --format pretty
  spektr-viz --data sales.csv --type bar --x 月份 --series 销售额 --format csv
  spektr-viz --data sales.csv --discover --format pretty
  spektr-viz --serve

Flags:
`)
		fset.PrintDefaults()
		fmt.Fprintf(stderr, `
Formats:
  json      Full result JSON (default)
  pretty    Pretty-printed JSON
  yaml      Result as YAML
  csv       Chart data as CSV (ready for Sheets/Excel)
  text      One-line summary only
`)
	}

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	return opt, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	opt, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if opt.version {
		fmt.Fprintf(stdout, "spektr-viz %s\n", version)
		return nil
	}

	// Env-only logger until the config file is read.
	logging.InitFromEnv()
	cfg, err := config.Load(opt.configPath)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	log := logging.L()

	// ── Serve mode ────────────────────────────────────────────────────────
	if opt.serve {
		var metrics *telemetry.Metrics
		if cfg.Server.Metrics {
			metrics = telemetry.NewMetrics()
		}
		return server.New(cfg, metrics).ListenAndServe(ctx)
	}

	if opt.dataURL == "" {
		return fmt.Errorf("--data is required")
	}

	// ── Output writer ─────────────────────────────────────────────────────
	writer := stdout
	if opt.outFile != "" {
		f, cerr := os.Create(opt.outFile)
		if cerr != nil {
			return fmt.Errorf("failed to create output file: %w", cerr)
		}
		defer closeOutput(f, &err)
		writer = f
	}

	// ── Discover mode ─────────────────────────────────────────────────────
	if opt.discover {
		if helpers.Format(opt.dataURL) != "csv" {
			return fmt.Errorf("--discover needs a .csv dataset")
		}
		sch, err := helpers.DiscoverSchema(ctx, nil, opt.dataURL)
		if err != nil {
			return err
		}
		log.Info("🔍 Auto-Detect", "name", sch.Name, "dimensions", len(sch.DimensionKeys()),
			"metrics", len(sch.MetricKeys()), "skipped", len(sch.SkippedColumns))
		return writeStructured(writer, sch, opt.format)
	}

	// ── Load inputs ───────────────────────────────────────────────────────
	ds, err := helpers.LoadDataset(ctx, nil, opt.dataURL)
	if err != nil {
		return err
	}
	log.Info("📊 Loaded dataset", "records", len(ds.Data), "fields", ds.Headers.Len())

	chart, err := buildChartConfig(ctx, opt, ds.Headers)
	if err != nil {
		return err
	}
	chart = cfg.Chart.ApplyTo(chart)

	result, err := engine.Execute(ds, chart, cfg.Chart.EngineOptions()...)
	if err != nil {
		return err
	}

	// ── Render output ─────────────────────────────────────────────────────
	switch opt.format {
	case "csv":
		if err := writeCSV(writer, engine.BuildTable(result.Spec)); err != nil {
			return err
		}
		if opt.outFile != "" {
			log.Info("📄 CSV written", "path", opt.outFile)
		}
		return nil
	case "text":
		_, err := fmt.Fprintln(writer, result.Info)
		return err
	default:
		return writeStructured(writer, result, opt.format)
	}
}

// buildChartConfig loads --chart when given, else starts from the header
// defaults, then applies the flag overrides.
func buildChartConfig(ctx context.Context, opt *options, headers engine.Headers) (engine.ChartConfig, error) {
	var chart engine.ChartConfig
	var err error
	switch {
	case opt.chartURL != "":
		chart, err = helpers.LoadChartConfig(ctx, nil, opt.chartURL)
	case opt.xAxisKey != "" && opt.seriesKeys != "":
		chart = engine.ChartConfig{ChartType: engine.ChartLine}
	default:
		chart, err = engine.DefaultChartConfig(headers)
	}
	if err != nil {
		return chart, err
	}

	if opt.chartType != "" {
		chart.ChartType = engine.ChartType(opt.chartType)
	}
	if opt.xAxisKey != "" {
		chart.XAxisKey = opt.xAxisKey
	}
	if opt.seriesKeys != "" {
		chart.SeriesKeys = splitList(opt.seriesKeys)
	}
	if opt.cross != "" {
		chart.CrossDimensions = splitList(opt.cross)
	}
	return chart, nil
}

// closeOutput closes c and reports its error through err unless err is
// already set.
func closeOutput(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close output file: %w", cerr)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ============================================================================
// OUTPUT
// ============================================================================

func writeStructured(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	switch format {
	case "pretty":
		out, err = json.MarshalIndent(v, "", "  ")
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(out), "\n"))
	return err
}

func writeCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return err
	}
	return cw.Error()
}
