package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45000", 45000, true},
		{"1,234.56", 1234.56, true},
		{"₹ 2,500.00", 2500, true},
		{"-250", -250, true},
		{"(500)", 500, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"--", 0, false},
		{"12.34.56", 0, false},
	}
	for _, tc := range cases {
		got, ok := normalizeNumeric(tc.in)
		assert.Equal(t, tc.ok, ok, "cell %q", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 0.001, "cell %q", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"01/02/2026", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-02-01", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"01-Feb-2026", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"44927", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := parseDate(tc.in)
		require.True(t, ok, "date %q", tc.in)
		assert.True(t, tc.want.Equal(got), "date %q parsed as %v", tc.in, got)
	}

	for _, in := range []string{"", "not a date", "999999999"} {
		_, ok := parseDate(in)
		assert.False(t, ok, "date %q", in)
	}
}

func TestNormalizeTableDualColumns(t *testing.T) {
	table := RawTable{
		Headers: []string{"Txn Date", "Narration", "CR Amt", "DR Amt"},
		Rows: [][]string{
			{"2026-02-01", "Salary credit", "45000", "0"},
			{"2026-02-02", "UPI grocery payment", "", "1200"},
			{"2026-02-03", "Reversal", "-100", ""},
		},
	}
	roles := resolveColumns(table)
	txns := normalizeTable(table, roles)
	require.Len(t, txns, 3)

	assert.Equal(t, TxCredit, txns[0].Type)
	assert.InDelta(t, 45000, txns[0].Amount, 0.001)
	require.NotNil(t, txns[0].Date)
	assert.Equal(t, 2026, txns[0].Date.Year())

	assert.Equal(t, TxDebit, txns[1].Type)
	assert.InDelta(t, 1200, txns[1].Amount, 0.001)

	// Negative credits are folded to absolute before comparison.
	assert.Equal(t, TxCredit, txns[2].Type)
	assert.InDelta(t, 100, txns[2].Amount, 0.001)
}

func TestNormalizeTableTypeColumn(t *testing.T) {
	table := RawTable{
		Headers: []string{"Date", "Amount", "Type"},
		Rows: [][]string{
			{"2026-02-01", "45000", "CR"},
			{"2026-02-02", "1200", "DR"},
			{"2026-02-03", "300", "???"},
		},
	}
	roles := resolveColumns(table)
	txns := normalizeTable(table, roles)
	require.Len(t, txns, 3)

	assert.Equal(t, TxCredit, txns[0].Type)
	assert.Equal(t, TxDebit, txns[1].Type)
	assert.Equal(t, TxDebit, txns[2].Type, "unrecognized marker defaults to debit")
}

func TestNormalizeTableDescriptionKeywords(t *testing.T) {
	table := RawTable{
		Headers: []string{"Narration", "Amount"},
		Rows: [][]string{
			{"Salary received for Feb", "45000"},
			{"ATM withdrawal", "2000"},
			{"Misc entry", "10"},
		},
	}
	roles := resolveColumns(table)
	txns := normalizeTable(table, roles)
	require.Len(t, txns, 3)

	assert.Equal(t, TxCredit, txns[0].Type)
	assert.Equal(t, TxDebit, txns[1].Type)
	assert.Equal(t, TxDebit, txns[2].Type)
}

func TestNormalizeTableSignFallback(t *testing.T) {
	table := RawTable{
		Headers: []string{"Amount"},
		Rows:    [][]string{{"100"}, {"-50"}},
	}
	roles := resolveColumns(table)
	txns := normalizeTable(table, roles)
	require.Len(t, txns, 2)

	for i, tx := range txns {
		assert.Equal(t, TxDebit, tx.Type, "row %d", i)
	}
	assert.InDelta(t, 50, txns[1].Amount, 0.001)
}

func TestNormalizeTableDropsUnresolvableAmounts(t *testing.T) {
	table := RawTable{
		Headers: []string{"Narration", "Amount"},
		Rows: [][]string{
			{"Salary received", "45000"},
			{"pending", ""},
			{"failed", "n/a"},
		},
	}
	roles := resolveColumns(table)
	txns := normalizeTable(table, roles)
	require.Len(t, txns, 1)
	assert.InDelta(t, 45000, txns[0].Amount, 0.001)
}
