package statement

import "errors"

// MaxStatementBytes caps how much of an upload the pipeline will look at.
// Statements are small; anything past this is either not a statement or an
// attempt to exhaust the worker.
const MaxStatementBytes = 16 << 20

// ErrStatementTooLarge is the only failure Analyze ever propagates. Every
// malformed, empty or unreadable input instead degrades to a zero summary.
var ErrStatementTooLarge = errors.New("statement exceeds the size limit")

// Analyze runs the full pipeline over one uploaded statement: load a raw
// table, resolve column roles, normalize rows into transactions and reduce
// them to the aggregate summary. The returned source names the loader that
// produced the table ("unparsed" when none did).
func Analyze(data []byte, filename string) (Summary, string, error) {
	if len(data) > MaxStatementBytes {
		return Summary{}, "", ErrStatementTooLarge
	}

	table := loadTable(data, filename)
	if table.Empty() {
		return Summary{}, table.Source, nil
	}

	roles := resolveColumns(table)
	txns := normalizeTable(table, roles)
	return summarize(txns, roles), table.Source, nil
}
