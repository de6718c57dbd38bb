package statement

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// WordprocessingML slices of word/document.xml, just deep enough to pull
// table cells and paragraph text out of a statement export.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []string `xml:"t"`
}

type docxExtractor struct{}

func (docxExtractor) Name() string { return "docx" }

// Extract prefers the first real table in the document body; documents that
// are prose all the way through go to the line-scanning extractor.
func (docxExtractor) Extract(data []byte) (RawTable, error) {
	doc, err := readDocxDocument(data)
	if err != nil {
		return RawTable{}, err
	}

	for _, tbl := range doc.Body.Tables {
		if table, ok := docxTableToRaw(tbl); ok {
			return table, nil
		}
	}

	var lines []string
	for _, p := range doc.Body.Paragraphs {
		if text := paragraphText(p); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return RawTable{}, errors.New("document has no text")
	}
	table := extractTextTransactions(strings.Join(lines, "\n"))
	if table.Empty() {
		return RawTable{}, errors.New("document text has no transaction lines")
	}
	table.Source = "docx"
	return table, nil
}

func readDocxDocument(data []byte) (*docxDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		var doc docxDocument
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	return nil, errors.New("archive is not a word document")
}

func docxTableToRaw(tbl docxTable) (RawTable, bool) {
	var rows [][]string
	for _, tr := range tbl.Rows {
		var cells []string
		for _, tc := range tr.Cells {
			var parts []string
			for _, p := range tc.Paragraphs {
				if text := paragraphText(p); text != "" {
					parts = append(parts, text)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if !rowEmpty(cells) {
			rows = append(rows, cells)
		}
	}
	if len(rows) < 2 {
		return RawTable{}, false
	}

	table := RawTable{Source: "docx"}
	if degenerateHeader(rows[0]) {
		table.Headers = positionalHeaders(widestRow(rows))
		table.Rows = rows
	} else {
		table.Headers = rows[0]
		table.Rows = rows[1:]
	}
	return table, !table.Empty()
}

func paragraphText(p docxParagraph) string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t)
		}
	}
	return trimCell(b.String())
}
