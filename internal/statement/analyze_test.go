package statement

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dualColumnCSV = `Txn Date,Narration,CR Amt,DR Amt,Running Bal
2026-02-01,Salary credit,45000,0,52000
2026-02-02,UPI grocery payment,0,1200,50800
2026-02-03,UPI fuel payment,0,800,50000
`

func TestAnalyzeDualColumnStatement(t *testing.T) {
	summary, source, err := Analyze([]byte(dualColumnCSV), "statement.csv")
	require.NoError(t, err)
	assert.Equal(t, "delimited", source)

	assert.InDelta(t, 45000.00, summary.MonthlyIncomeEstimate, 0.001)
	assert.InDelta(t, 2000.00, summary.MonthlyExpenseEstimate, 0.001)
	assert.InDelta(t, 50933.33, summary.AvgMonthlyBalance, 0.001)
	assert.InDelta(t, 0, summary.IncomeVolatilityIndex, 0.001)
	assert.GreaterOrEqual(t, summary.UpiTransactionFrequency, 2)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	first, firstSource, err := Analyze([]byte(dualColumnCSV), "statement.csv")
	require.NoError(t, err)
	second, secondSource, err := Analyze([]byte(dualColumnCSV), "statement.csv")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSource, secondSource)
}

func TestAnalyzeTextFallback(t *testing.T) {
	text := "statement for February\n2026-02-01 Salary credit 45000.00\nthank you for banking with us"
	summary, source, err := Analyze([]byte(text), "statement.txt")
	require.NoError(t, err)

	assert.Equal(t, "text", source)
	assert.Greater(t, summary.MonthlyIncomeEstimate, 0.0)
}

func TestAnalyzeAmbiguousNumericColumnDefaultsToDebit(t *testing.T) {
	csv := "ref,value\nalpha,100\nbeta,-50\ngamma,200\n"
	summary, _, err := Analyze([]byte(csv), "export.csv")
	require.NoError(t, err)

	assert.InDelta(t, 0, summary.MonthlyIncomeEstimate, 0.001)
	assert.InDelta(t, 350.00, summary.MonthlyExpenseEstimate, 0.001)
}

func TestAnalyzeBinaryGarbage(t *testing.T) {
	var garbage bytes.Buffer
	for i := 0; i < 8; i++ {
		for b := 0x80; b <= 0xFF; b++ {
			garbage.WriteByte(byte(b))
		}
	}

	summary, source, err := Analyze(garbage.Bytes(), "blob.bin")
	require.NoError(t, err)
	assert.Equal(t, "unparsed", source)
	assert.Equal(t, Summary{}, summary)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	summary, source, err := Analyze(nil, "empty.csv")
	require.NoError(t, err)
	assert.Equal(t, "unparsed", source)
	assert.Equal(t, Summary{}, summary)
}

func TestAnalyzeSizeLimit(t *testing.T) {
	oversized := make([]byte, MaxStatementBytes+1)
	_, _, err := Analyze(oversized, "huge.csv")
	assert.ErrorIs(t, err, ErrStatementTooLarge)
}

func TestAnalyzeJSONStatement(t *testing.T) {
	doc := `[
		{"date":"2026-02-01","description":"Salary credit","amount":45000,"balance":52000},
		{"date":"2026-02-02","description":"UPI grocery payment","amount":1200,"balance":50800}
	]`
	summary, source, err := Analyze([]byte(doc), "statement.json")
	require.NoError(t, err)

	assert.Equal(t, "json", source)
	assert.InDelta(t, 45000.00, summary.MonthlyIncomeEstimate, 0.001)
	assert.InDelta(t, 1200.00, summary.MonthlyExpenseEstimate, 0.001)
	assert.Equal(t, 1, summary.UpiTransactionFrequency)
}

func TestOrderedLoadersExtensionBias(t *testing.T) {
	ordered := orderedLoaders("report.xlsx")
	require.NotEmpty(t, ordered)
	assert.Equal(t, "xlsx", ordered[0].name)
	assert.Len(t, ordered, len(loaderChain))

	ordered = orderedLoaders("no-extension")
	assert.Equal(t, "delimited", ordered[0].name)
}

func TestLoadTableUnknownExtensionStillParses(t *testing.T) {
	table := loadTable([]byte(dualColumnCSV), "download")
	require.False(t, table.Empty())
	assert.Equal(t, "delimited", table.Source)
	assert.Equal(t, []string{"Txn Date", "Narration", "CR Amt", "DR Amt", "Running Bal"}, table.Headers)
}

func TestDocumentExtractorUnsupported(t *testing.T) {
	ex := documentExtractorFor("odt")
	_, err := ex.Extract([]byte("anything"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "format unsupported"))
}
