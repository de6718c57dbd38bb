package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONArray(t *testing.T) {
	doc := `[
		{"date":"2026-02-01","description":"Salary credit","amount":45000},
		{"date":"2026-02-02","description":"UPI payment","amount":1200,"balance":50800}
	]`
	table, err := parseJSON([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "description", "amount", "balance"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "45000", table.Cell(0, 2))
	assert.Equal(t, "", table.Cell(0, 3), "missing keys read as empty")
	assert.Equal(t, "50800", table.Cell(1, 3))
}

func TestParseJSONSingleObject(t *testing.T) {
	table, err := parseJSON([]byte(`{"date":"2026-02-01","amount":"45000"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "amount"}, table.Headers)
	require.Len(t, table.Rows, 1)
}

func TestParseJSONRejectsNonTabular(t *testing.T) {
	for _, doc := range []string{
		``,
		`"scalar"`,
		`[1,2,3]`,
		`{"nested":{"a":1}}`,
		`[]`,
	} {
		_, err := parseJSON([]byte(doc))
		assert.Error(t, err, "document %q", doc)
	}
}

func TestParseXMLRecords(t *testing.T) {
	doc := `<statement>
		<txn><date>2026-02-01</date><description>Salary credit</description><amount>45000</amount></txn>
		<txn><date>2026-02-02</date><description>UPI payment</description><amount>1200</amount></txn>
	</statement>`
	table, err := parseXML([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "description", "amount"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1200", table.Cell(1, 2))
}

func TestParseXMLRejectsEmpty(t *testing.T) {
	_, err := parseXML([]byte(`<statement></statement>`))
	assert.Error(t, err)

	_, err = parseXML([]byte(`not xml at all`))
	assert.Error(t, err)
}
