package statement

import (
	"fmt"
	"path/filepath"
	"strings"
)

type loaderFunc func([]byte) (RawTable, error)

type loader struct {
	name string
	fn   loaderFunc
}

// loaderChain is the full strategy order tried after any extension-specific
// candidates. Each loader either returns a usable table or is silently
// skipped; the chain itself never fails.
var loaderChain = []loader{
	{"delimited", parseDelimited},
	{"xlsx", parseXLSX},
	{"xls", parseXLS},
	{"json", parseJSON},
	{"xml", parseXML},
	{"pdf", documentExtractorFor("pdf").Extract},
	{"docx", documentExtractorFor("docx").Extract},
}

// extensionLoaders biases the chain: a recognized file extension moves its
// loaders to the front but never excludes the rest.
var extensionLoaders = map[string][]string{
	".csv":  {"delimited"},
	".tsv":  {"delimited"},
	".txt":  {"delimited"},
	".xlsx": {"xlsx"},
	".xlsm": {"xlsx"},
	".xls":  {"xls"},
	".json": {"json"},
	".xml":  {"xml"},
	".pdf":  {"pdf"},
	".docx": {"docx"},
}

// loadTable runs the loader chain and returns the first non-empty table,
// tagged with the winning loader's name. When nothing structured parses, the
// decoded bytes go through the free-text extractor; a table that is still
// empty after that comes back tagged "unparsed".
func loadTable(data []byte, filename string) RawTable {
	for _, ld := range orderedLoaders(filename) {
		table, err := runLoader(ld, data)
		if err != nil || table.Empty() {
			continue
		}
		table.Source = ld.name
		return table
	}

	if table := extractTextTransactions(decodeText(data)); !table.Empty() {
		return table
	}
	return RawTable{Source: "unparsed"}
}

// runLoader invokes one strategy and converts a panic inside it into a miss.
// The pdf and xls readers panic on malformed documents instead of returning
// an error.
func runLoader(ld loader, data []byte) (table RawTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			table = RawTable{}
			err = fmt.Errorf("%s loader: %v", ld.name, r)
		}
	}()
	return ld.fn(data)
}

func orderedLoaders(filename string) []loader {
	ext := strings.ToLower(filepath.Ext(filename))
	preferred := extensionLoaders[ext]
	if len(preferred) == 0 {
		return loaderChain
	}

	ordered := make([]loader, 0, len(loaderChain))
	taken := make(map[string]bool, len(preferred))
	for _, name := range preferred {
		for _, ld := range loaderChain {
			if ld.name == name {
				ordered = append(ordered, ld)
				taken[name] = true
			}
		}
	}
	for _, ld := range loaderChain {
		if !taken[ld.name] {
			ordered = append(ordered, ld)
		}
	}
	return ordered
}
