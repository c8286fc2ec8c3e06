package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockperf/internal/calendar"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/logger"
)

const (
	fileDateLayout   = "02-01-2006" // DD-MM-YYYY
	fileSuffix       = "_QUOTES.csv"
	defaultBatchSize = 5000
	maxDays          = 30
	maxParallelFiles = 7
)

// QuoteStore is the part of the quote repository used by the importer.
type QuoteStore interface {
	InsertQuotesBatch(ctx context.Context, quotes []models.Quote) error
	HasIngestionForDate(ctx context.Context, date time.Time) (bool, error)
	UpsertIngestionLog(ctx context.Context, date time.Time, filename string, rowCount int) error
	DeleteQuotesByDate(ctx context.Context, date time.Time) error
}

// now is an indirection for tests.
var now = time.Now

// FileNameFor returns the expected quote file name for a business day.
func FileNameFor(day time.Time) string {
	return day.Format(fileDateLayout) + fileSuffix
}

// ImportQuotesDirectory loads the daily quote files of the last nDays exchange
// business days from dir.
//
//   - Expects exactly one file per business day named "DD-MM-YYYY_QUOTES.csv".
//   - Uses a concurrency limit of parallel files, min(7, NumCPU) when parallel <= 0.
//   - A day already recorded in the ingestion log is skipped unless force is set;
//     with force its quotes are deleted and loaded again.
//   - The first failing file cancels the rest and its error is returned.
func ImportQuotesDirectory(ctx context.Context, dir string, repo QuoteStore, nDays int, parallel int, force bool) error {
	log := logger.Component("ingestion")

	if nDays < 1 {
		nDays = 1
	}
	if nDays > maxDays {
		nDays = maxDays
	}
	dates := calendar.LastNBusinessDays(nDays, now())

	// Build expected filenames & validate presence upfront.
	var files []string
	var missing []string
	for _, d := range dates {
		name := FileNameFor(d)
		full := filepath.Join(dir, name)
		files = append(files, full)

		if _, err := os.Stat(full); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, name)
			} else {
				return fmt.Errorf("stat failed for %s: %w", full, err)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required files: %s", strings.Join(missing, ", "))
	}

	maxParallel := maxParallelFiles
	if parallel > 0 {
		maxParallel = min(parallel, maxParallelFiles)
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}
	log.Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("quote import start")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, f := range files {
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			flog := log.With().Int("idx", i+1).Int("total", len(files)).Str("file", base).Logger()

			d, err := time.Parse(fileDateLayout, strings.TrimSuffix(base, fileSuffix))
			if err != nil {
				return fmt.Errorf("file %s: parse date from filename: %w", f, err)
			}

			exists, err := repo.HasIngestionForDate(gctx, d)
			if err != nil {
				flog.Error().Err(err).Msg("check ingestion log failed")
				return fmt.Errorf("file %s: check ingestion log: %w", f, err)
			}
			if exists && !force {
				flog.Info().Bool("skipped", true).Msg("already ingested")
				return nil
			}
			if exists {
				if err := repo.DeleteQuotesByDate(gctx, d); err != nil {
					flog.Error().Err(err).Msg("delete existing failed")
					return fmt.Errorf("file %s: delete existing: %w", f, err)
				}
			}

			total, err := parseAndPersistQuotes(gctx, f, d, repo, defaultBatchSize)
			if err != nil {
				flog.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			if err := repo.UpsertIngestionLog(gctx, d, base, total); err != nil {
				flog.Error().Err(err).Msg("update ingestion log failed")
				return fmt.Errorf("file %s: upsert ingestion log: %w", f, err)
			}
			flog.Info().Int("rows", total).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("file done")
			return nil
		})
	}

	return g.Wait()
}
