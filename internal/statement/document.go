package statement

import "fmt"

// documentExtractor pulls a table out of a binary document format.
type documentExtractor interface {
	Name() string
	Extract(data []byte) (RawTable, error)
}

// Resolved once at process start. Formats without a working extractor fall
// through to the unsupported stub so the loader sees a uniform miss instead
// of a special case.
var documentExtractors = map[string]documentExtractor{
	"pdf":  pdfExtractor{},
	"docx": docxExtractor{},
}

func documentExtractorFor(format string) documentExtractor {
	if ex, ok := documentExtractors[format]; ok {
		return ex
	}
	return unsupportedExtractor{format: format}
}

type unsupportedExtractor struct {
	format string
}

func (u unsupportedExtractor) Name() string { return u.format }

func (u unsupportedExtractor) Extract([]byte) (RawTable, error) {
	return RawTable{}, fmt.Errorf("format unsupported: %s", u.format)
}
