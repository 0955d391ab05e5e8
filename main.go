package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/time/rate"

	"github.com/insightdelivered/transcript-gwa/internal/api"
	"github.com/insightdelivered/transcript-gwa/internal/config"
	"github.com/insightdelivered/transcript-gwa/internal/extractor"
	"github.com/insightdelivered/transcript-gwa/internal/logger"
	"github.com/insightdelivered/transcript-gwa/internal/metrics"
	"github.com/insightdelivered/transcript-gwa/internal/models"
	"github.com/insightdelivered/transcript-gwa/internal/parser"
	"github.com/insightdelivered/transcript-gwa/internal/report"
	"github.com/insightdelivered/transcript-gwa/internal/session"
	"github.com/insightdelivered/transcript-gwa/internal/transcript"
	"github.com/insightdelivered/transcript-gwa/internal/writer"
)

const version = "1.0.0"

type cliOptions struct {
	report    bool
	csv       bool
	xlsx      bool
	header    bool
	debug     bool
	outputDir string
}

func main() {
	// CLI flags
	serveFlag := flag.Bool("serve", false, "Run the HTTP server instead of processing files")
	configFlag := flag.String("config", "", "Path to a YAML config file")
	reportFlag := flag.Bool("report", false, "Write the PDF GWA report next to each input")
	csvFlag := flag.Bool("csv", false, "Write a CSV export next to each input")
	xlsxFlag := flag.Bool("xlsx", false, "Write an Excel export next to each input")
	headerFlag := flag.Bool("header", true, "Include student metadata rows in the CSV export")
	outputFlag := flag.String("output-dir", "", "Directory for report and export files (defaults to the input's directory)")
	debugFlag := flag.Bool("debug", false, "Print what the parser did with every course line")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Transcript GWA Calculator
by Insight Delivered

Reads transcript-of-records PDFs, computes the general weighted average
over academic courses and reports the Latin honor the student qualifies for.

Usage:
  gwa-calculator [flags] <transcript.pdf> [transcript2.pdf ...]
  gwa-calculator --serve [--config=config.yaml]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Print the computation table
  gwa-calculator transcript.pdf

  # Also write the PDF report and a CSV export
  gwa-calculator --report --csv transcript.pdf

  # Run the web service
  gwa-calculator --serve --config=config.yaml

Excluded from the GWA:
  Course codes starting with PE, NSTP or STEM (configurable).
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("gwa-calculator v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("Config error: %v\n", err)
	}

	if *serveFlag {
		if err := serve(cfg); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	// CLI output goes to stdout; keep logs to warnings unless debugging.
	level := "warn"
	if *debugFlag {
		level = "debug"
	}
	logger.Configure(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

	opts := parserOptions(cfg.Parser)
	opts.Debug = *debugFlag
	proc := transcript.NewProcessor(&extractor.PDFExtractor{Pdftotext: true}, parser.New(opts), nil)

	cli := cliOptions{
		report:    *reportFlag,
		csv:       *csvFlag,
		xlsx:      *xlsxFlag,
		header:    *headerFlag,
		debug:     *debugFlag,
		outputDir: *outputFlag,
	}

	// Process each input file
	failed := false
	for _, inputPath := range flag.Args() {
		if err := processFile(context.Background(), proc, inputPath, cli); err != nil {
			color.Red("Error processing %s: %v", inputPath, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func processFile(ctx context.Context, proc *transcript.Processor, inputPath string, cli cliOptions) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("input file not readable: %w", err)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	res, err := proc.Process(ctx, filepath.Base(inputPath), data)
	if err != nil {
		return err
	}
	c := res.Computation

	if cli.debug {
		printDebugLines(res.DebugLines)
	}
	printComputation(c)

	outDir := cli.outputDir
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if cli.report {
		outPath := filepath.Join(outDir, report.Filename(c.Header.StudentName))
		if err := writeReport(outPath, c); err != nil {
			return fmt.Errorf("report write failed: %w", err)
		}
		fmt.Printf("  Report: %s\n", outPath)
	}
	if cli.csv {
		outPath := filepath.Join(outDir, base+".csv")
		w := &writer.CSVWriter{IncludeHeader: cli.header}
		if err := w.WriteToFile(outPath, c); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		fmt.Printf("  CSV: %s\n", outPath)
	}
	if cli.xlsx {
		outPath := filepath.Join(outDir, base+".xlsx")
		if err := (&writer.XLSXWriter{}).WriteToFile(outPath, c); err != nil {
			return fmt.Errorf("XLSX write failed: %w", err)
		}
		fmt.Printf("  XLSX: %s\n", outPath)
	}

	fmt.Println("  Done.")
	return nil
}

func printComputation(c *models.Computation) {
	t := report.BuildTable(c)

	if t.StudentName != "" {
		fmt.Printf("  Name: %s\n", t.StudentName)
	}
	if t.StudentNumber != "" {
		fmt.Printf("  Student No: %s\n", t.StudentNumber)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(report.Headers)
	for _, r := range t.Rows {
		table.Append([]string{fmt.Sprint(r.Index), r.Code, r.Name, r.Units, r.Grade, r.Weighted})
	}
	table.SetFooter([]string{"", "TOTAL", "", t.TotalUnits, "", t.TotalWeighted})
	table.Render()

	fmt.Printf("  %s %s = %s\n", t.Formula, t.FormulaValues, t.Average)
	honor := color.New(color.FgGreen, color.Bold)
	if t.Honor == models.HonorNone {
		honor = color.New(color.FgYellow)
	}
	honor.Printf("  Latin Honor Qualification: %s\n", t.Honor)
}

func printDebugLines(lines []models.DebugLine) {
	color.Cyan("\nParser trace")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Page", "Line", "Result", "Method", "Text", "Error"})
	for _, d := range lines {
		table.Append([]string{fmt.Sprint(d.Page), fmt.Sprint(d.LineNum), d.Result, d.Method, d.Text, d.Error})
	}
	table.Render()
}

func writeReport(path string, c *models.Computation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Render(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parserOptions(pc config.ParserConfig) parser.Options {
	return parser.Options{
		ExcludedPrefixes: pc.ExcludedPrefixes,
		DefaultUnits:     pc.DefaultUnits,
		SpecialUnits:     pc.SpecialUnits,
	}
}

func serve(cfg *config.Config) error {
	logger.Configure(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	opts := parserOptions(cfg.Parser)
	opts.Debug = true
	proc := transcript.NewProcessor(&extractor.PDFExtractor{Pdftotext: true}, parser.New(opts), m)

	store := session.NewStore(cfg.Session.TTL)
	sweeper := session.NewSweeper(store, cfg.Session.SweepSchedule, m)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", cfg.Session.SweepSchedule, err)
	}
	defer sweeper.Stop()

	h := &api.Handler{
		Processor:    proc,
		Sessions:     store,
		Metrics:      m,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
	}
	if api.StaticDirExists(cfg.Server.StaticDir) {
		h.StaticDir = cfg.Server.StaticDir
	} else if cfg.Server.StaticDir != "" {
		logger.Warn().Str("dir", cfg.Server.StaticDir).Msg("static directory not found, serving API only")
	}
	if cfg.Server.RateLimitPerSecond > 0 {
		h.Limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimitPerSecond), cfg.Server.RateLimitBurst)
	}

	app := api.NewApp(cfg.Server.BodyLimit)
	h.RegisterRoutes(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr()).Str("version", version).Msg("server listening")
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
