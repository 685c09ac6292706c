package marketdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/meenmo/fipricer/curve"
)

// ErrNoQuotes is returned when a store query matches no rows.
var ErrNoQuotes = errors.New("marketdata: no quotes")

// Store reads curve quotes from a Postgres database. Rates are stored as
// numeric and parsed through decimal so a quote like 0.0365 survives the
// round trip without binary float drift in the text scan.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres with the given DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool, for callers that manage their
// own database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Quotes loads the quote set for a currency as of a date, ordered short to
// long so the result feeds the bootstrap directly.
func (s *Store) Quotes(ctx context.Context, currency string, asOf time.Time) ([]curve.Quote, error) {
	const q = `
		SELECT tenor, kind, rate
		FROM curve_quotes
		WHERE currency = $1 AND quote_date = $2
		ORDER BY sort_order`

	rows, err := s.db.QueryContext(ctx, q, currency, asOf)
	if err != nil {
		return nil, fmt.Errorf("Quotes: %w", err)
	}
	defer rows.Close()

	var quotes []curve.Quote
	for rows.Next() {
		var (
			tenor string
			kind  string
			rate  decimal.Decimal
		)
		if err := rows.Scan(&tenor, &kind, &rate); err != nil {
			return nil, fmt.Errorf("Quotes: scan: %w", err)
		}
		k, err := parseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("Quotes: tenor %s: %w", tenor, err)
		}
		r, _ := rate.Float64()
		quotes = append(quotes, curve.Quote{Tenor: tenor, Rate: r, Kind: k})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("Quotes: %s as of %s: %w", currency, asOf.Format("2006-01-02"), ErrNoQuotes)
	}
	return quotes, nil
}

// SaveQuotes replaces the stored quote set for a currency and date in a
// single transaction.
func (s *Store) SaveQuotes(ctx context.Context, currency string, asOf time.Time, quotes []curve.Quote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveQuotes: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM curve_quotes WHERE currency = $1 AND quote_date = $2`,
		currency, asOf); err != nil {
		return fmt.Errorf("SaveQuotes: delete: %w", err)
	}

	const ins = `
		INSERT INTO curve_quotes (currency, quote_date, tenor, kind, rate, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, q := range quotes {
		rate := decimal.NewFromFloat(q.Rate)
		if _, err := tx.ExecContext(ctx, ins, currency, asOf, q.Tenor, kindLabel(q.Kind), rate, i); err != nil {
			return fmt.Errorf("SaveQuotes: insert %s: %w", q.Tenor, err)
		}
	}
	return tx.Commit()
}

func parseKind(s string) (curve.Kind, error) {
	switch s {
	case "deposit":
		return curve.KindDeposit, nil
	case "swap":
		return curve.KindSwap, nil
	}
	return "", fmt.Errorf("unknown quote kind %q", s)
}

func kindLabel(k curve.Kind) string {
	if k == curve.KindDeposit {
		return "deposit"
	}
	return "swap"
}
