package statement

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func docxParagraphXML(text string) string {
	return "<w:p><w:r><w:t>" + text + "</w:t></w:r></w:p>"
}

func docxRowXML(cells ...string) string {
	var b strings.Builder
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString("<w:tc>")
		b.WriteString(docxParagraphXML(c))
		b.WriteString("</w:tc>")
	}
	b.WriteString("</w:tr>")
	return b.String()
}

func TestDocxExtractTable(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:tbl>` +
		docxRowXML("Date", "Description", "Amount") +
		docxRowXML("2026-02-01", "Salary credit", "45000") +
		docxRowXML("2026-02-02", "UPI payment", "1200") +
		`</w:tbl></w:body></w:document>`

	table, err := docxExtractor{}.Extract(buildDocx(t, doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "45000", table.Cell(0, 2))
}

func TestDocxExtractParagraphFallback(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		docxParagraphXML("Statement for February") +
		docxParagraphXML("2026-02-01 Salary credit 45000.00") +
		`</w:body></w:document>`

	table, err := docxExtractor{}.Extract(buildDocx(t, doc))
	require.NoError(t, err)

	assert.Equal(t, "docx", table.Source)
	assert.False(t, table.Empty())
}

func TestDocxExtractRejectsPlainZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("other.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = docxExtractor{}.Extract(buf.Bytes())
	assert.Error(t, err)
}

func TestDocxExtractRejectsGarbage(t *testing.T) {
	_, err := docxExtractor{}.Extract([]byte("not a zip"))
	assert.Error(t, err)
}

func TestAnalyzeDocxEndToEnd(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:tbl>` +
		docxRowXML("Narration", "CR Amt", "DR Amt") +
		docxRowXML("Salary credit", "45000", "0") +
		docxRowXML("UPI grocery payment", "0", "1200") +
		`</w:tbl></w:body></w:document>`

	summary, source, err := Analyze(buildDocx(t, doc), "statement.docx")
	require.NoError(t, err)

	assert.Equal(t, "docx", source)
	assert.InDelta(t, 45000, summary.MonthlyIncomeEstimate, 0.001)
	assert.InDelta(t, 1200, summary.MonthlyExpenseEstimate, 0.001)
}
