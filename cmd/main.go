package main

//
//  @title           stockperf API
//  @version         1.0
//  @description     Portfolio performance: XIRR, capital, inpayments and dividends.
//  @termsOfService  https://github.com/guttosm/stockperf
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockperf
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        performance
//  @tag.description Portfolio performance calculations
//
//  @tag.name        xirr
//  @tag.description Stand-alone XIRR solver
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/stockperf/config"
	_ "github.com/guttosm/stockperf/docs" // swagger docs
	"github.com/guttosm/stockperf/internal/app"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/ingestion"
	"github.com/guttosm/stockperf/internal/logger"
	"github.com/guttosm/stockperf/internal/scheduler"
	"github.com/guttosm/stockperf/internal/service"
	"github.com/shopspring/decimal"
)

// options holds the parsed command line.
type options struct {
	mode      string
	port      string
	dir       string
	days      int
	parallel  int
	force     bool
	now       bool
	file      string
	portfolio string
	start     string
	end       string
	tag       string
	stocks    string
}

func parseFlags(args []string, cfg config.Config) (options, error) {
	var o options
	fs := flag.NewFlagSet("stockperf", flag.ContinueOnError)
	fs.StringVar(&o.mode, "mode", "api", "Mode: api, import-quotes, import-transactions, scheduler or calc")
	fs.StringVar(&o.port, "port", cfg.Server.Port, "Port for API mode")
	fs.StringVar(&o.dir, "dir", cfg.Quotes.Dir, "Directory with DD-MM-YYYY_QUOTES.csv files")
	fs.IntVar(&o.days, "days", cfg.Quotes.Days, "Number of last business days to import (1-30)")
	fs.IntVar(&o.parallel, "parallel", cfg.Quotes.Parallel, "How many files to process concurrently (0=auto up to CPU, max 7)")
	fs.BoolVar(&o.force, "force", false, "Reimport days even if already ingested (deletes existing quotes for that day)")
	fs.BoolVar(&o.now, "now", false, "Run one quote import before waiting for the schedule (scheduler)")
	fs.StringVar(&o.file, "file", "", "Transactions file for import-transactions")
	fs.StringVar(&o.portfolio, "portfolio", "", "YAML portfolio for calc")
	fs.StringVar(&o.start, "start", "", "Period start YYYY-MM-DD for calc")
	fs.StringVar(&o.end, "end", "", "Period end YYYY-MM-DD for calc")
	fs.StringVar(&o.tag, "tag", "", "Only transactions with this tag (calc)")
	fs.StringVar(&o.stocks, "stocks", "", "Comma separated stock ids (calc)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// waitForSignal blocks until SIGINT or SIGTERM is received.
func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	waitForSignal()
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the stockperf application.
//
// Modes (selected via --mode flag):
//   - api:                 Starts the REST API.
//   - import-quotes:       Imports the daily quote files of the last --days business days from --dir.
//   - import-transactions: Imports a ';' separated transactions --file.
//   - scheduler:           Runs the quote import on QUOTES_CRON until interrupted.
//   - calc:                Prints the performance of a YAML --portfolio as JSON.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Configure(cfg.Log.Level, cfg.Log.Pretty)

	opts, err := parseFlags(os.Args[1:], cfg)
	if err != nil {
		os.Exit(2)
	}

	if err := run(ctx, opts, cfg, os.Stdout); err != nil {
		logger.L().Fatal().Err(err).Str("mode", opts.mode).Msg("command failed")
	}
}

func run(ctx context.Context, opts options, cfg config.Config, stdout io.Writer) error {
	switch opts.mode {
	case "api":
		logger.L().Info().Msg("starting API server")
		router, cleanup, err := app.InitializeApp()
		if err != nil {
			return fmt.Errorf("app init: %w", err)
		}
		server := startServer(router, opts.port)
		gracefulShutdown(ctx, server, cleanup)
		return nil

	case "import-quotes":
		stores, err := app.OpenStores(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer func() { _ = stores.Close() }()

		if err := ingestion.ImportQuotesDirectory(ctx, opts.dir, stores.Quotes, opts.days, opts.parallel, opts.force); err != nil {
			return fmt.Errorf("quote import: %w", err)
		}
		logger.L().Info().Msg("quote import completed successfully")
		return nil

	case "import-transactions":
		if opts.file == "" {
			return errors.New("--file is required")
		}
		stores, err := app.OpenStores(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer func() { _ = stores.Close() }()

		if _, err := ingestion.ImportTransactionsFile(ctx, opts.file, stores.Transactions); err != nil {
			return fmt.Errorf("transaction import: %w", err)
		}
		return nil

	case "scheduler":
		stores, err := app.OpenStores(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer func() { _ = stores.Close() }()

		s, err := startScheduler(stores.Quotes, cfg, opts)
		if err != nil {
			return err
		}
		waitForSignal()
		s.Stop()
		return nil

	case "calc":
		return runCalc(ctx, opts, stdout)
	}
	return fmt.Errorf("unknown mode %q", opts.mode)
}

// startScheduler registers the quote import on QUOTES_CRON and starts it. With
// --now one import runs first, synchronously.
func startScheduler(quotes ingestion.QuoteStore, cfg config.Config, opts options) (*scheduler.Scheduler, error) {
	s, err := scheduler.New(quotes, scheduler.Options{
		Spec:     cfg.Quotes.Cron,
		Dir:      opts.dir,
		Days:     opts.days,
		Parallel: opts.parallel,
		Timeout:  30 * time.Minute,
	})
	if err != nil {
		return nil, err
	}
	if opts.now {
		s.RunNow()
	}
	s.Start()
	logger.L().Info().Time("next_run", s.Next()).Msg("waiting for the next quote import")
	return s, nil
}

// calcResult is the JSON document printed by the calc mode.
type calcResult struct {
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Tag         string          `json:"tag,omitempty"`
	StockIDs    []string        `json:"stock_ids,omitempty"`
	Performance decimal.Decimal `json:"performance"`
	Capital     decimal.Decimal `json:"capital"`
	Inpayments  decimal.Decimal `json:"inpayments"`
	Dividends   decimal.Decimal `json:"dividends"`
}

// runCalc evaluates a portfolio file without a database. The period defaults
// to the current year up to today.
func runCalc(ctx context.Context, opts options, stdout io.Writer) error {
	if opts.portfolio == "" {
		return errors.New("--portfolio is required")
	}
	store, err := ingestion.LoadPortfolioFile(opts.portfolio)
	if err != nil {
		return err
	}

	today := time.Now().UTC()
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if opts.end != "" {
		if end, err = time.Parse(time.DateOnly, opts.end); err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	}
	start := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if opts.start != "" {
		if start, err = time.Parse(time.DateOnly, opts.start); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}

	var stocks []string
	for _, s := range strings.Split(opts.stocks, ",") {
		if s = models.NormalizeStockID(s); s != "" {
			stocks = append(stocks, s)
		}
	}

	svc := service.NewPerformanceService(store, store)
	f := service.Filter{StockIDs: stocks, Tag: opts.tag}

	res := calcResult{Start: start.Format(time.DateOnly), End: end.Format(time.DateOnly), Tag: opts.tag, StockIDs: stocks}
	if res.Performance, err = svc.Performance(ctx, f, start, end); err != nil {
		return err
	}
	if res.Capital, err = svc.Capital(ctx, f, end); err != nil {
		return err
	}
	period := service.Filter{StockIDs: stocks, Tag: opts.tag, Start: &start, End: &end}
	if res.Inpayments, err = svc.Inpayments(ctx, period); err != nil {
		return err
	}
	if res.Dividends, err = svc.Dividends(ctx, period); err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
