package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Txn Date", "txndate"},
		{"TXN_DATE", "txndate"},
		{" txn date ", "txndate"},
		{"CR Amt", "cramt"},
		{"Running Bal.", "runningbal"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeHeader(tc.in), "header %q", tc.in)
	}
}

func TestResolveColumnsCaseInsensitive(t *testing.T) {
	for _, header := range []string{"Txn Date", "TXN_DATE", " txn date "} {
		table := RawTable{
			Headers: []string{header, "Amount"},
			Rows:    [][]string{{"2026-02-01", "100"}},
		}
		roles := resolveColumns(table)
		require.True(t, roles.Has(RoleDate), "header %q", header)
		assert.Equal(t, 0, roles.Col(RoleDate))
	}
}

func TestResolveColumnsDualColumnStatement(t *testing.T) {
	table := RawTable{
		Headers: []string{"Txn Date", "Narration", "CR Amt", "DR Amt", "Running Bal"},
		Rows:    [][]string{{"2026-02-01", "Salary credit", "45000", "0", "52000"}},
	}
	roles := resolveColumns(table)

	assert.Equal(t, 0, roles.Col(RoleDate))
	assert.Equal(t, 1, roles.Col(RoleDescription))
	assert.Equal(t, 2, roles.Col(RoleCredit))
	assert.Equal(t, 3, roles.Col(RoleDebit))
	assert.Equal(t, 4, roles.Col(RoleBalance))
	// "CR Amt" also satisfies the amount keywords; the dual debit/credit
	// pair takes precedence downstream, so the overlap is harmless.
	assert.Equal(t, 2, roles.Col(RoleAmount))
}

func TestResolveColumnsNumericFallback(t *testing.T) {
	table := RawTable{
		Headers: []string{"ref", "value"},
		Rows: [][]string{
			{"alpha", "100"},
			{"beta", "-50"},
			{"gamma", "200"},
		},
	}
	roles := resolveColumns(table)

	require.True(t, roles.Has(RoleAmount))
	assert.Equal(t, 1, roles.Col(RoleAmount))
}

func TestResolveColumnsFallbackFloor(t *testing.T) {
	// Only one of four values coerces; below the 30% floor nothing is drafted.
	table := RawTable{
		Headers: []string{"ref", "value"},
		Rows: [][]string{
			{"alpha", "n/a"},
			{"beta", "n/a"},
			{"gamma", "n/a"},
			{"delta", "100"},
		},
	}
	roles := resolveColumns(table)
	assert.False(t, roles.Has(RoleAmount))
}

func TestResolveColumnsFallbackSkipsDateAndBalance(t *testing.T) {
	table := RawTable{
		Headers: []string{"Date", "Bal", "value"},
		Rows: [][]string{
			{"45000", "52000", "100"},
			{"45001", "50800", "200"},
		},
	}
	roles := resolveColumns(table)

	require.True(t, roles.Has(RoleAmount))
	assert.Equal(t, 2, roles.Col(RoleAmount))
}

func TestRoleMapMisses(t *testing.T) {
	roles := RoleMap{}
	assert.False(t, roles.Has(RoleType))
	assert.Equal(t, -1, roles.Col(RoleType))
}
