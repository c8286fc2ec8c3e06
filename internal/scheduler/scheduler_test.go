package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopStore struct{}

func (nopStore) InsertQuotesBatch(context.Context, []models.Quote) error          { return nil }
func (nopStore) HasIngestionForDate(context.Context, time.Time) (bool, error)     { return false, nil }
func (nopStore) UpsertIngestionLog(context.Context, time.Time, string, int) error { return nil }
func (nopStore) DeleteQuotesByDate(context.Context, time.Time) error              { return nil }

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New(nopStore{}, Options{Spec: "every day"})
	require.Error(t, err)

	// five fields are rejected once seconds are enabled
	_, err = New(nopStore{}, Options{Spec: "30 19 * * MON-FRI"})
	require.Error(t, err)
}

func TestRunNow_PassesOptions(t *testing.T) {
	s, err := New(nopStore{}, Options{Spec: "0 30 19 * * MON-FRI", Dir: "/data/quotes", Days: 0, Parallel: 3, Timeout: time.Minute})
	require.NoError(t, err)

	var gotDir string
	var gotDays, gotParallel int
	var gotForce, hadDeadline bool
	s.run = func(ctx context.Context, dir string, _ ingestion.QuoteStore, days, parallel int, force bool) error {
		gotDir, gotDays, gotParallel, gotForce = dir, days, parallel, force
		_, hadDeadline = ctx.Deadline()
		return nil
	}

	s.RunNow()
	assert.Equal(t, "/data/quotes", gotDir)
	assert.Equal(t, 1, gotDays, "days default to one")
	assert.Equal(t, 3, gotParallel)
	assert.False(t, gotForce)
	assert.True(t, hadDeadline)
}

func TestRunNow_ErrorIsLogged(t *testing.T) {
	s, err := New(nopStore{}, Options{Spec: "@every 1h"})
	require.NoError(t, err)

	var calls int32
	s.run = func(context.Context, string, ingestion.QuoteStore, int, int, bool) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("dir missing")
	}
	assert.NotPanics(t, s.RunNow)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestStartStop_RunsOnSchedule(t *testing.T) {
	s, err := New(nopStore{}, Options{Spec: "* * * * * *"})
	require.NoError(t, err)

	ran := make(chan struct{}, 1)
	var cancelled atomic.Bool
	s.run = func(ctx context.Context, _ string, _ ingestion.QuoteStore, _, _ int, _ bool) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}

	assert.True(t, s.Next().IsZero())
	s.Start()
	assert.False(t, s.Next().IsZero())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	s.Stop()
	assert.True(t, cancelled.Load(), "stop cancels the running import")
}
