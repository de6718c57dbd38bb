package statement

import "strconv"

// RawTable is the intermediate shape every extractor produces: an ordered
// header row plus data rows aligned to it. Headers are not required to be
// unique; positional access is what matters downstream.
type RawTable struct {
	Headers []string
	Rows    [][]string
	Source  string
}

// Empty reports whether the table carries no data rows.
func (t RawTable) Empty() bool {
	return len(t.Rows) == 0
}

// Cell returns the value at row r, column c, tolerating ragged rows the way
// bank exports tend to produce them.
func (t RawTable) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) {
		return ""
	}
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

// positionalHeaders synthesizes col_1..col_n names for headerless tables.
func positionalHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = "col_" + strconv.Itoa(i+1)
	}
	return headers
}

// allDistinct reports whether every trimmed value in the row is unique and
// non-empty, the test used to decide if a document table brought its own
// header row.
func allDistinct(row []string) bool {
	seen := make(map[string]struct{}, len(row))
	for _, cell := range row {
		key := trimCell(cell)
		if key == "" {
			return false
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return len(row) > 0
}
