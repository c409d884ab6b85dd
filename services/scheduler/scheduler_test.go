package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelscraper/offerworker/logger"
	"travelscraper/offerworker/services/lock"
)

func TestNewRegistersJobs(t *testing.T) {
	s, err := New(Options{
		ScrapeSpec:  "0 0 * * *",
		CleanupSpec: "@weekly",
		Collect:     func(ctx context.Context) error { return nil },
		Cleanup:     func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New(Options{
		ScrapeSpec: "every day",
		Collect:    func(ctx context.Context) error { return nil },
	})
	assert.Error(t, err)
}

func TestRunCollectSkipsWhileLocked(t *testing.T) {
	locker := lock.NewLocalLocker()
	calls := 0
	s, err := New(Options{
		ScrapeSpec: "@daily",
		Collect: func(ctx context.Context) error {
			calls++
			return nil
		},
		Locker: locker,
	})
	require.NoError(t, err)

	release, err := locker.Acquire(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, s.RunCollect(context.Background()), lock.ErrHeld)
	assert.Zero(t, calls)

	release()
	require.NoError(t, s.RunCollect(context.Background()))
	assert.Equal(t, 1, calls)

	// the lock is released after the run
	require.NoError(t, s.RunCollect(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestJobErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "debug", Environment: "production", Output: &buf})

	s, err := New(Options{
		ScrapeSpec:  "@daily",
		CleanupSpec: "@weekly",
		Collect:     func(ctx context.Context) error { return errors.New("database gone") },
		Cleanup:     func(ctx context.Context) error { return errors.New("history locked") },
		Logger:      log,
	})
	require.NoError(t, err)

	assert.Error(t, s.RunCollect(context.Background()))
	assert.Error(t, s.RunCleanup(context.Background()))
	assert.Contains(t, buf.String(), "database gone")
	assert.Contains(t, buf.String(), "history locked")
	assert.Contains(t, buf.String(), `"component":"scheduler"`)
}

func TestStartStop(t *testing.T) {
	s, err := New(Options{
		ScrapeSpec: "@daily",
		Collect:    func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	assert.Equal(t, ctx, s.context())
	s.Stop()
}
