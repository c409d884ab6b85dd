package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrConstraint is returned when a record breaks a table constraint
var ErrConstraint = errors.New("constraint violation")

// StoredOffer is one row of the offer catalog. The natural key is
// (HotelName, DestinationID, AgencyID, DepartureDate, ReturnDate,
// DepartureCity); every other field is overwritten on re-collection.
type StoredOffer struct {
	ID            int64
	HotelName     string
	DestinationID int64
	AgencyID      int64
	DepartureDate time.Time
	ReturnDate    time.Time
	DepartureCity string
	Price         decimal.Decimal
	Duration      int
	MealPlan      string
	HasWifi       bool
	HasSunbeds    bool
	OfferURL      string
	Provenance    string
	ScrapeDate    time.Time
}

// Run is the history record of one collection run
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Found      int
	Saved      int
	Skipped    int
	Samples    int
}

// Tx is a write transaction on the catalog
type Tx interface {
	// GetOrCreateAgency returns the id of the agency with this name,
	// creating it with the given website when missing
	GetOrCreateAgency(ctx context.Context, name, website string) (int64, error)

	// GetOrCreateDestination returns the id for (name, country)
	GetOrCreateDestination(ctx context.Context, name, country string) (int64, error)

	// UpsertOffer inserts or updates an offer by its natural key and
	// reports whether a new row was created
	UpsertOffer(ctx context.Context, offer StoredOffer) (bool, error)

	// Guard runs fn so that a failure undoes only fn's writes and leaves
	// the transaction usable
	Guard(ctx context.Context, fn func() error) error

	Commit() error
	Rollback() error
}

// Store is the offer catalog
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	EnsureSchema(ctx context.Context) error
	RecordRun(ctx context.Context, run Run) error
	DeleteRunsBefore(ctx context.Context, before time.Time) (int64, error)
	CountOffers(ctx context.Context) (int, error)
	Close() error
}

// Run statuses
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)
