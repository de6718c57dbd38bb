package statement

import (
	"encoding/csv"
	"errors"
	"strings"
)

var delimiterCandidates = []rune{',', ';', '\t', '|'}

// parseDelimited handles CSV/TSV and friends. The delimiter is sniffed from
// a sample of lines; the first record becomes the header unless it looks
// degenerate, in which case positional names are synthesized and the record
// is kept as data.
func parseDelimited(data []byte) (RawTable, error) {
	text := decodeText(data)
	delimiter, ok := sniffDelimiter(text)
	if !ok {
		return RawTable{}, errors.New("no consistent delimiter found")
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return RawTable{}, err
	}
	if len(records) == 0 {
		return RawTable{}, errors.New("empty delimited document")
	}

	table := RawTable{Source: "delimited"}
	if degenerateHeader(records[0]) {
		table.Headers = positionalHeaders(len(records[0]))
		table.Rows = records
	} else {
		table.Headers = records[0]
		table.Rows = records[1:]
	}
	return table, nil
}

// sniffDelimiter scores each candidate by how consistently it splits the
// first few non-empty lines into more than one field.
func sniffDelimiter(text string) (rune, bool) {
	lines := sampleLines(text, 10)
	if len(lines) == 0 {
		return 0, false
	}

	best := rune(0)
	bestScore := 0
	for _, cand := range delimiterCandidates {
		counts := make(map[int]int)
		for _, line := range lines {
			counts[strings.Count(line, string(cand))]++
		}
		// Most common per-line occurrence; a delimiter should appear the
		// same number of times on every record.
		mode, modeLines := 0, 0
		for n, c := range counts {
			if n > 0 && (c > modeLines || (c == modeLines && n > mode)) {
				mode, modeLines = n, c
			}
		}
		score := mode * modeLines
		if mode > 0 && modeLines >= (len(lines)+1)/2 && score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}

func sampleLines(text string, limit int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

// degenerateHeader reports whether the first record cannot serve as a header:
// blank or duplicate cells, or a row that is mostly numbers.
func degenerateHeader(record []string) bool {
	if len(record) == 0 {
		return true
	}
	if !allDistinct(record) {
		return true
	}
	numeric := 0
	for _, cell := range record {
		if _, ok := normalizeNumeric(cell); ok {
			numeric++
		}
	}
	return numeric*2 > len(record)
}
