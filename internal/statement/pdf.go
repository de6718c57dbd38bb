package statement

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Text fragments whose Y coordinates differ by less than this sit on the
// same visual line; fragments separated horizontally by more than the gap
// belong to different columns.
const (
	pdfLineTolerance = 2.0
	pdfColumnGap     = 12.0
)

type pdfExtractor struct{}

func (pdfExtractor) Name() string { return "pdf" }

// Extract reconstructs tabular rows from positioned text fragments. When no
// consistent column structure emerges the page text is handed to the
// line-scanning transaction extractor instead.
func (pdfExtractor) Extract(data []byte) (RawTable, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return RawTable{}, err
	}

	var rows [][]string
	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range pdfPageLines(page) {
			cells := pdfLineCells(line)
			if len(cells) > 1 {
				rows = append(rows, cells)
			}
			lines = append(lines, strings.Join(cells, " "))
		}
	}

	if table, ok := pdfTableFromRows(rows); ok {
		return table, nil
	}

	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return RawTable{}, errors.New("pdf has no extractable text")
	}
	table := extractTextTransactions(text)
	if table.Empty() {
		return RawTable{}, errors.New("pdf text has no transaction lines")
	}
	table.Source = "pdf"
	return table, nil
}

// pdfPageLines groups a page's text fragments into visual lines, top to
// bottom, each line ordered left to right.
func pdfPageLines(page pdf.Page) [][]pdf.Text {
	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y // PDF Y grows upward
		}
		return texts[i].X < texts[j].X
	})

	var lines [][]pdf.Text
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		n := len(lines)
		if n > 0 && lines[n-1][0].Y-t.Y < pdfLineTolerance {
			lines[n-1] = append(lines[n-1], t)
			continue
		}
		lines = append(lines, []pdf.Text{t})
	}
	return lines
}

// pdfLineCells merges adjacent fragments and starts a new cell at every
// horizontal gap wide enough to be a column boundary.
func pdfLineCells(line []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	lastEnd := 0.0
	for i, t := range line {
		if i > 0 && t.X-lastEnd > pdfColumnGap {
			cells = append(cells, trimCell(cell.String()))
			cell.Reset()
		}
		cell.WriteString(t.S)
		lastEnd = t.X + t.W
	}
	if s := trimCell(cell.String()); s != "" {
		cells = append(cells, s)
	}
	return cells
}

// pdfTableFromRows keeps only rows matching the dominant column count and
// requires enough of them to call the page tabular.
func pdfTableFromRows(rows [][]string) (RawTable, bool) {
	if len(rows) < 2 {
		return RawTable{}, false
	}
	counts := make(map[int]int)
	for _, row := range rows {
		counts[len(row)]++
	}
	width, widthRows := 0, 0
	for n, c := range counts {
		if n >= 2 && c > widthRows {
			width, widthRows = n, c
		}
	}
	if width == 0 || widthRows < 2 || widthRows*2 < len(rows) {
		return RawTable{}, false
	}

	var kept [][]string
	for _, row := range rows {
		if len(row) == width {
			kept = append(kept, row)
		}
	}

	table := RawTable{Source: "pdf"}
	if degenerateHeader(kept[0]) {
		table.Headers = positionalHeaders(width)
		table.Rows = kept
	} else {
		table.Headers = kept[0]
		table.Rows = kept[1:]
	}
	if table.Empty() {
		return RawTable{}, false
	}
	return table, true
}
