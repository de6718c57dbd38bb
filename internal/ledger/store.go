package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS cash_ledger_entries (
	entry_id    TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	entry_date  DATE NOT NULL,
	entry_type  TEXT NOT NULL CHECK (entry_type IN ('inflow', 'outflow')),
	amount      NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cash_ledger_user_date
	ON cash_ledger_entries (user_id, entry_date);
CREATE TABLE IF NOT EXISTS cash_ledger_day_summaries (
	user_id           TEXT NOT NULL,
	entry_date        DATE NOT NULL,
	opening_balance   NUMERIC(14, 2) NOT NULL,
	total_inflow      NUMERIC(14, 2) NOT NULL,
	total_outflow     NUMERIC(14, 2) NOT NULL,
	closing_balance   NUMERIC(14, 2) NOT NULL,
	transaction_count INT NOT NULL,
	computed_at       TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, entry_date)
);
`

// Store persists ledger entries in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the ledger table and index if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// AddEntry validates, persists and returns the stored entry.
func (s *Store) AddEntry(ctx context.Context, req CreateEntry) (Entry, error) {
	day, err := req.Validate()
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		EntryID:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:      req.UserID,
		EntryDate:   day,
		EntryType:   req.EntryType,
		Amount:      req.Amount,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO cash_ledger_entries
			(entry_id, user_id, entry_date, entry_type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.EntryID, entry.UserID, entry.EntryDate, entry.EntryType,
		entry.Amount, entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert ledger entry: %w", err)
	}
	return entry, nil
}

// EntriesForUser loads a user's full ledger in summary order.
func (s *Store) EntriesForUser(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entry_id, user_id, entry_date, entry_type, amount, description, created_at
		FROM cash_ledger_entries
		WHERE user_id = $1
		ORDER BY entry_date, created_at, entry_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.EntryID, &e.UserID, &e.EntryDate, &e.EntryType,
			&e.Amount, &e.Description, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveDailySummaries upserts the materialized day summaries for one user.
// The nightly job calls this so reads can skip recomputation.
func (s *Store) SaveDailySummaries(ctx context.Context, summaries []DaySummary) error {
	now := time.Now().UTC()
	for _, summary := range summaries {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO cash_ledger_day_summaries
				(user_id, entry_date, opening_balance, total_inflow,
				 total_outflow, closing_balance, transaction_count, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id, entry_date) DO UPDATE SET
				opening_balance = EXCLUDED.opening_balance,
				total_inflow = EXCLUDED.total_inflow,
				total_outflow = EXCLUDED.total_outflow,
				closing_balance = EXCLUDED.closing_balance,
				transaction_count = EXCLUDED.transaction_count,
				computed_at = EXCLUDED.computed_at`,
			summary.UserID, summary.EntryDate, summary.OpeningBalance,
			summary.TotalInflow, summary.TotalOutflow, summary.ClosingBalance,
			summary.TransactionCount, now,
		)
		if err != nil {
			return fmt.Errorf("upsert day summary: %w", err)
		}
	}
	return nil
}

// UserIDs lists every user with at least one ledger entry.
func (s *Store) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT user_id FROM cash_ledger_entries ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query ledger users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ledger user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
