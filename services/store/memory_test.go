package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUncommittedWritesAreInvisible(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	agencyID, err := tx.GetOrCreateAgency(ctx, "Fly.pl", "https://www.fly.pl/")
	require.NoError(t, err)
	destID, err := tx.GetOrCreateDestination(ctx, "Hurghada", "Egipt")
	require.NoError(t, err)

	dep := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	created, err := tx.UpsertOffer(ctx, StoredOffer{
		HotelName: "Albatros Palace", AgencyID: agencyID, DestinationID: destID,
		DepartureDate: dep, ReturnDate: dep.AddDate(0, 0, 7), DepartureCity: "Katowice",
	})
	require.NoError(t, err)
	assert.True(t, created)

	n, _ := s.CountOffers(ctx)
	assert.Zero(t, n)

	require.NoError(t, tx.Rollback())
	n, _ = s.CountOffers(ctx)
	assert.Zero(t, n)
}

func TestMemoryGetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tx, _ := NewMemory().Begin(ctx)

	a1, _ := tx.GetOrCreateAgency(ctx, "Wakacje.pl", "https://www.wakacje.pl/")
	a2, _ := tx.GetOrCreateAgency(ctx, "Wakacje.pl", "https://other/")
	d1, _ := tx.GetOrCreateDestination(ctx, "Obzor", "Bułgaria")
	d2, _ := tx.GetOrCreateDestination(ctx, "Obzor", "Bułgaria")
	d3, _ := tx.GetOrCreateDestination(ctx, "Obzor", "Turcja")

	assert.Equal(t, a1, a2)
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}

func TestMemoryRejectsInconsistentDates(t *testing.T) {
	ctx := context.Background()
	tx, _ := NewMemory().Begin(ctx)

	dep := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := tx.UpsertOffer(ctx, StoredOffer{HotelName: "Rixos Sungate", DepartureDate: dep, ReturnDate: dep})
	assert.True(t, errors.Is(err, ErrConstraint))
}

func TestMemoryGuardRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	tx, _ := s.Begin(ctx)

	err := tx.Guard(ctx, func() error {
		tx.GetOrCreateAgency(ctx, "Travelplanet", "")
		return errors.New("boom")
	})
	assert.Error(t, err)

	require.NoError(t, tx.Commit())
	assert.Empty(t, s.state.agencies)
	assert.Error(t, tx.Commit(), "second commit")
}

func TestMemoryRunHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordRun(ctx, Run{ID: "old", StartedAt: now.Add(-10 * 24 * time.Hour)}))
	require.NoError(t, s.RecordRun(ctx, Run{ID: "new", StartedAt: now.Add(-time.Hour)}))

	deleted, err := s.DeleteRunsBefore(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	runs := s.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)
}
