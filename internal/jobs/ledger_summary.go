package jobs

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"FinAwareSaas/internal/ledger"
)

// RunLedgerSummaryJob recomputes and persists every user's day summaries so
// report reads can serve from the materialized table.
func RunLedgerSummaryJob(db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store := ledger.NewStore(db)
	users, err := store.UserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list ledger users: %w", err)
	}

	for _, userID := range users {
		entries, err := store.EntriesForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load entries for %s: %w", userID, err)
		}
		summaries := ledger.DailySummaries(userID, entries)
		if err := store.SaveDailySummaries(ctx, summaries); err != nil {
			return fmt.Errorf("save summaries for %s: %w", userID, err)
		}
	}
	audit(fmt.Sprintf("Materialized day summaries for %d user(s)", len(users)))
	return nil
}

// RetryWithBackoff executes fn with exponential backoff between attempts.
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			audit(fmt.Sprintf("Retrying after %v (attempt %d/%d)", delay, attempt, maxRetries))
			time.Sleep(delay)
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		audit(fmt.Sprintf("Attempt %d failed: %v", attempt+1, lastErr))
	}
	return fmt.Errorf("failed after %d attempts: %v", maxRetries+1, lastErr)
}
