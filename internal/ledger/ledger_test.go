package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(id, date, kind string, amount float64) Entry {
	return Entry{
		EntryID:   id,
		UserID:    "u1",
		EntryDate: day(date),
		EntryType: kind,
		Amount:    decimal.NewFromFloat(amount),
		CreatedAt: day(date).Add(10 * time.Hour),
	}
}

func TestDailySummariesRunningBalance(t *testing.T) {
	entries := []Entry{
		entry("a", "2026-02-01", "inflow", 45000),
		entry("b", "2026-02-01", "outflow", 1200),
		entry("c", "2026-02-03", "outflow", 800),
	}
	summaries := DailySummaries("u1", entries)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, "2026-02-01", first.EntryDate)
	assert.Equal(t, 0.0, first.OpeningBalance)
	assert.Equal(t, 45000.0, first.TotalInflow)
	assert.Equal(t, 1200.0, first.TotalOutflow)
	assert.Equal(t, 43800.0, first.ClosingBalance)
	assert.Equal(t, 2, first.TransactionCount)

	second := summaries[1]
	assert.Equal(t, "2026-02-03", second.EntryDate)
	assert.Equal(t, 43800.0, second.OpeningBalance)
	assert.Equal(t, 43000.0, second.ClosingBalance)
	assert.Equal(t, 1, second.TransactionCount)
}

func TestDailySummariesUnsortedInput(t *testing.T) {
	entries := []Entry{
		entry("c", "2026-02-03", "outflow", 800),
		entry("a", "2026-02-01", "inflow", 45000),
	}
	summaries := DailySummaries("u1", entries)
	require.Len(t, summaries, 2)

	assert.Equal(t, "2026-02-01", summaries[0].EntryDate)
	assert.Equal(t, 44200.0, summaries[1].ClosingBalance)
}

func TestCurrentBalance(t *testing.T) {
	entries := []Entry{
		entry("a", "2026-02-01", "inflow", 1000),
		entry("b", "2026-02-02", "outflow", 400),
	}

	assert.Equal(t, 600.0, CurrentBalance("u1", entries))
	assert.Equal(t, 0.0, CurrentBalance("u1", nil))
}

func TestFilterSummariesKeepsTrueBalances(t *testing.T) {
	entries := []Entry{
		entry("a", "2026-01-15", "inflow", 10000),
		entry("b", "2026-02-01", "outflow", 2000),
		entry("c", "2026-02-10", "inflow", 500),
	}
	summaries := DailySummaries("u1", entries)

	from := day("2026-02-01")
	to := day("2026-02-05")
	filtered := FilterSummaries(summaries, &from, &to)
	require.Len(t, filtered, 1)

	// The January inflow still shows up in the February opening balance.
	assert.Equal(t, "2026-02-01", filtered[0].EntryDate)
	assert.Equal(t, 10000.0, filtered[0].OpeningBalance)
	assert.Equal(t, 8000.0, filtered[0].ClosingBalance)
}

func TestSummaryForDayFallsBackToPriorClosing(t *testing.T) {
	entries := []Entry{
		entry("a", "2026-02-01", "inflow", 5000),
		entry("b", "2026-02-05", "outflow", 1000),
	}

	active := SummaryForDay("u1", entries, day("2026-02-05"))
	assert.Equal(t, 4000.0, active.ClosingBalance)
	assert.Equal(t, 1, active.TransactionCount)

	quiet := SummaryForDay("u1", entries, day("2026-02-03"))
	assert.Equal(t, 5000.0, quiet.OpeningBalance)
	assert.Equal(t, 5000.0, quiet.ClosingBalance)
	assert.Equal(t, 0, quiet.TransactionCount)

	before := SummaryForDay("u1", entries, day("2026-01-20"))
	assert.Equal(t, 0.0, before.ClosingBalance)
}

func TestCreateEntryValidate(t *testing.T) {
	valid := CreateEntry{
		UserID:    "u1",
		EntryDate: "2026-02-01",
		EntryType: "inflow",
		Amount:    decimal.NewFromInt(100),
	}
	parsed, err := valid.Validate()
	require.NoError(t, err)
	assert.Equal(t, day("2026-02-01"), parsed)

	cases := []CreateEntry{
		{UserID: "", EntryDate: "2026-02-01", EntryType: "inflow", Amount: decimal.NewFromInt(1)},
		{UserID: "u1", EntryDate: "01/02/2026", EntryType: "inflow", Amount: decimal.NewFromInt(1)},
		{UserID: "u1", EntryDate: "2026-02-01", EntryType: "transfer", Amount: decimal.NewFromInt(1)},
		{UserID: "u1", EntryDate: "2026-02-01", EntryType: "outflow", Amount: decimal.Zero},
	}
	for i, c := range cases {
		_, err := c.Validate()
		assert.Error(t, err, i)
	}
}

func TestSortEntriesTieBreaks(t *testing.T) {
	shared := day("2026-02-01")
	entries := []Entry{
		{EntryID: "b", EntryDate: shared, CreatedAt: shared, EntryType: "inflow", Amount: decimal.NewFromInt(1)},
		{EntryID: "a", EntryDate: shared, CreatedAt: shared, EntryType: "inflow", Amount: decimal.NewFromInt(1)},
	}
	sorted := sortEntries(entries)

	assert.Equal(t, "a", sorted[0].EntryID)
	assert.Equal(t, "b", sorted[1].EntryID)
}
