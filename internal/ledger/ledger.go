package ledger

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Entry is one cash movement in a user's ledger.
type Entry struct {
	EntryID     string
	UserID      string
	EntryDate   time.Time
	EntryType   string
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// CreateEntry is the validated input for a new ledger entry.
type CreateEntry struct {
	UserID      string          `json:"user_id"`
	EntryDate   string          `json:"entry_date"`
	EntryType   string          `json:"entry_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// DaySummary is the rolled-up view of one ledger day.
type DaySummary struct {
	UserID           string  `json:"user_id"`
	EntryDate        string  `json:"entry_date"`
	OpeningBalance   float64 `json:"opening_balance"`
	TotalInflow      float64 `json:"total_inflow"`
	TotalOutflow     float64 `json:"total_outflow"`
	ClosingBalance   float64 `json:"closing_balance"`
	TransactionCount int     `json:"transaction_count"`
}

func (c CreateEntry) Validate() (time.Time, error) {
	if c.UserID == "" || len(c.UserID) > 64 {
		return time.Time{}, errors.New("user_id must be 1 to 64 characters")
	}
	day, err := time.Parse(dateLayout, c.EntryDate)
	if err != nil {
		return time.Time{}, errors.New("entry_date must be formatted as YYYY-MM-DD")
	}
	if c.EntryType != "inflow" && c.EntryType != "outflow" {
		return time.Time{}, errors.New("entry_type must be inflow or outflow")
	}
	if !c.Amount.IsPositive() {
		return time.Time{}, errors.New("amount must be positive")
	}
	if len(c.Description) > 200 {
		return time.Time{}, errors.New("description cannot exceed 200 characters")
	}
	return day, nil
}

// sortEntries orders by date, then insertion time, then id, so summaries are
// deterministic even for same-instant entries.
func sortEntries(entries []Entry) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.EntryID < b.EntryID
	})
	return sorted
}

// DailySummaries groups a user's entries by day and threads the running
// balance through the days in order.
func DailySummaries(userID string, entries []Entry) []DaySummary {
	sorted := sortEntries(entries)

	type dayTotals struct {
		date    time.Time
		inflow  decimal.Decimal
		outflow decimal.Decimal
		count   int
	}
	var days []*dayTotals
	byDate := make(map[string]*dayTotals)
	for _, e := range sorted {
		key := e.EntryDate.Format(dateLayout)
		totals, ok := byDate[key]
		if !ok {
			totals = &dayTotals{date: e.EntryDate}
			byDate[key] = totals
			days = append(days, totals)
		}
		if e.EntryType == "inflow" {
			totals.inflow = totals.inflow.Add(e.Amount)
		} else {
			totals.outflow = totals.outflow.Add(e.Amount)
		}
		totals.count++
	}

	summaries := make([]DaySummary, 0, len(days))
	running := decimal.Zero
	for _, d := range days {
		opening := running
		running = running.Add(d.inflow).Sub(d.outflow)
		summaries = append(summaries, DaySummary{
			UserID:           userID,
			EntryDate:        d.date.Format(dateLayout),
			OpeningBalance:   toMoney(opening),
			TotalInflow:      toMoney(d.inflow),
			TotalOutflow:     toMoney(d.outflow),
			ClosingBalance:   toMoney(running),
			TransactionCount: d.count,
		})
	}
	return summaries
}

// CurrentBalance is the closing balance of the most recent ledger day.
func CurrentBalance(userID string, entries []Entry) float64 {
	summaries := DailySummaries(userID, entries)
	if len(summaries) == 0 {
		return 0
	}
	return summaries[len(summaries)-1].ClosingBalance
}

// FilterSummaries keeps the day summaries inside [from, to]. Balances are
// computed over the full history first, so a filtered window still carries
// the true running balance.
func FilterSummaries(summaries []DaySummary, from, to *time.Time) []DaySummary {
	var filtered []DaySummary
	for _, s := range summaries {
		day, err := time.Parse(dateLayout, s.EntryDate)
		if err != nil {
			continue
		}
		if from != nil && day.Before(*from) {
			continue
		}
		if to != nil && day.After(*to) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// SummaryForDay returns the summary for one day. A day with no entries
// reports the closing balance carried forward from the last prior day.
func SummaryForDay(userID string, entries []Entry, day time.Time) DaySummary {
	summaries := DailySummaries(userID, entries)
	key := day.Format(dateLayout)

	carried := 0.0
	for _, s := range summaries {
		if s.EntryDate == key {
			return s
		}
		if s.EntryDate < key {
			carried = s.ClosingBalance
		}
	}
	return DaySummary{
		UserID:         userID,
		EntryDate:      key,
		OpeningBalance: carried,
		ClosingBalance: carried,
	}
}

func toMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
