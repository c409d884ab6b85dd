package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS agencies (
	id      BIGSERIAL PRIMARY KEY,
	name    TEXT NOT NULL UNIQUE,
	website TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS destinations (
	id      BIGSERIAL PRIMARY KEY,
	name    TEXT NOT NULL,
	country TEXT NOT NULL,
	CONSTRAINT destinations_name_country_key UNIQUE (name, country)
);

CREATE TABLE IF NOT EXISTS offers (
	id             BIGSERIAL PRIMARY KEY,
	hotel_name     TEXT NOT NULL CHECK (hotel_name <> ''),
	destination_id BIGINT NOT NULL REFERENCES destinations(id),
	agency_id      BIGINT NOT NULL REFERENCES agencies(id),
	departure_date DATE NOT NULL,
	return_date    DATE NOT NULL,
	departure_city TEXT NOT NULL,
	price          NUMERIC(10, 2) NOT NULL,
	duration       INTEGER NOT NULL,
	meal_plan      TEXT NOT NULL,
	has_wifi       BOOLEAN NOT NULL DEFAULT FALSE,
	has_sunbeds    BOOLEAN NOT NULL DEFAULT FALSE,
	offer_url      TEXT NOT NULL,
	provenance     TEXT NOT NULL DEFAULT 'live',
	scrape_date    TIMESTAMPTZ NOT NULL,
	CONSTRAINT offers_dates_check CHECK (return_date > departure_date),
	CONSTRAINT offers_natural_key UNIQUE (hotel_name, destination_id, agency_id, departure_date, return_date, departure_city)
);

CREATE INDEX IF NOT EXISTS offers_scrape_date_idx ON offers (scrape_date);

CREATE TABLE IF NOT EXISTS collection_runs (
	id          UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	status      TEXT NOT NULL,
	found       INTEGER NOT NULL,
	saved       INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	samples     INTEGER NOT NULL
);
`

const (
	getOrCreateAgencySQL = `INSERT INTO agencies (name, website) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

	getOrCreateDestinationSQL = `INSERT INTO destinations (name, country) VALUES ($1, $2)
ON CONFLICT ON CONSTRAINT destinations_name_country_key DO UPDATE SET name = EXCLUDED.name
RETURNING id`

	upsertOfferSQL = `INSERT INTO offers (hotel_name, destination_id, agency_id, departure_date, return_date,
	departure_city, price, duration, meal_plan, has_wifi, has_sunbeds, offer_url, provenance, scrape_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT ON CONSTRAINT offers_natural_key DO UPDATE SET
	price = EXCLUDED.price,
	duration = EXCLUDED.duration,
	meal_plan = EXCLUDED.meal_plan,
	has_wifi = EXCLUDED.has_wifi,
	has_sunbeds = EXCLUDED.has_sunbeds,
	offer_url = EXCLUDED.offer_url,
	provenance = EXCLUDED.provenance,
	scrape_date = EXCLUDED.scrape_date
RETURNING id, (xmax = 0) AS created`

	insertRunSQL = `INSERT INTO collection_runs (id, started_at, finished_at, status, found, saved, skipped, samples)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	savepointName = "offer_record"
)

// PostgresStore keeps the catalog in PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the database at url and checks the connection
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, scrapeerrors.NewPersistence("", "open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, scrapeerrors.NewPersistence("", "ping database", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an open database handle
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables when they do not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return scrapeerrors.NewPersistence("", "create schema", err)
	}
	return nil
}

// Begin starts a catalog transaction
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, scrapeerrors.NewPersistence("", "begin transaction", err)
	}
	return &postgresTx{tx: tx}, nil
}

// RecordRun stores a run history entry
func (s *PostgresStore) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, insertRunSQL,
		run.ID, run.StartedAt, run.FinishedAt, run.Status,
		run.Found, run.Saved, run.Skipped, run.Samples)
	if err != nil {
		return scrapeerrors.NewPersistence("", "record run", err)
	}
	return nil
}

// DeleteRunsBefore removes run history that started before the cutoff
func (s *PostgresStore) DeleteRunsBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collection_runs WHERE started_at < $1`, before)
	if err != nil {
		return 0, scrapeerrors.NewPersistence("", "delete runs", err)
	}
	return res.RowsAffected()
}

// CountOffers returns the number of stored offers
func (s *PostgresStore) CountOffers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers`).Scan(&n); err != nil {
		return 0, scrapeerrors.NewPersistence("", "count offers", err)
	}
	return n, nil
}

// Close closes the database handle
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) GetOrCreateAgency(ctx context.Context, name, website string) (int64, error) {
	var id int64
	if err := t.tx.QueryRowContext(ctx, getOrCreateAgencySQL, name, website).Scan(&id); err != nil {
		return 0, wrapPQ("agency "+name, err)
	}
	return id, nil
}

func (t *postgresTx) GetOrCreateDestination(ctx context.Context, name, country string) (int64, error) {
	var id int64
	if err := t.tx.QueryRowContext(ctx, getOrCreateDestinationSQL, name, country).Scan(&id); err != nil {
		return 0, wrapPQ("destination "+name, err)
	}
	return id, nil
}

func (t *postgresTx) UpsertOffer(ctx context.Context, o StoredOffer) (bool, error) {
	var (
		id      int64
		created bool
	)
	err := t.tx.QueryRowContext(ctx, upsertOfferSQL,
		o.HotelName, o.DestinationID, o.AgencyID, o.DepartureDate, o.ReturnDate,
		o.DepartureCity, o.Price, o.Duration, o.MealPlan, o.HasWifi, o.HasSunbeds,
		o.OfferURL, o.Provenance, o.ScrapeDate,
	).Scan(&id, &created)
	if err != nil {
		return false, wrapPQ("offer "+o.HotelName, err)
	}
	return created, nil
}

// Guard wraps fn in a savepoint. A failed statement aborts a PostgreSQL
// transaction until the savepoint is rolled back.
func (t *postgresTx) Guard(ctx context.Context, fn func() error) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return wrapPQ("savepoint", err)
	}

	if err := fn(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
			return errors.Join(err, wrapPQ("rollback to savepoint", rbErr))
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return wrapPQ("release savepoint", err)
	}
	return nil
}

func (t *postgresTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return scrapeerrors.NewPersistence("", "commit", err)
	}
	return nil
}

func (t *postgresTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return scrapeerrors.NewPersistence("", "rollback", err)
	}
	return nil
}

// wrapPQ turns a driver error into a persistence error, marking
// integrity violations with ErrConstraint
func wrapPQ(what string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg := fmt.Sprintf("%s: %s (%s)", what, pqErr.Message, pqErr.Code.Name())
		if pqErr.Code.Class() == "23" {
			if pqErr.Constraint != "" {
				msg += " constraint " + pqErr.Constraint
			}
			return scrapeerrors.NewPersistence("", msg, errors.Join(ErrConstraint, err))
		}
		return scrapeerrors.NewPersistence("", msg, err)
	}
	return scrapeerrors.NewPersistence("", what, err)
}
