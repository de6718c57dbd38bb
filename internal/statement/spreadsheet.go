package statement

import (
	"bytes"
	"errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet of a modern workbook. Rows come back as
// strings exactly as excelize renders them, so date cells may arrive as
// serial numbers and are handled downstream.
func parseXLSX(data []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return RawTable{}, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return RawTable{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return RawTable{}, err
	}
	return tableFromRows(rows, "xlsx")
}

// parseXLS reads a legacy BIFF workbook via the extrame reader.
func parseXLS(data []byte) (RawTable, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return RawTable{}, err
	}
	rows := wb.ReadAllCells(10000)
	return tableFromRows(rows, "xls")
}

// tableFromRows applies the shared header rule: the first non-empty row is
// the header unless it looks degenerate, in which case positional names are
// synthesized and every row is data.
func tableFromRows(rows [][]string, source string) (RawTable, error) {
	var kept [][]string
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return RawTable{}, errors.New("workbook has no data")
	}

	table := RawTable{Source: source}
	if degenerateHeader(kept[0]) {
		table.Headers = positionalHeaders(widestRow(kept))
		table.Rows = kept
	} else {
		table.Headers = kept[0]
		table.Rows = kept[1:]
	}
	return table, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if trimCell(cell) != "" {
			return false
		}
	}
	return true
}

func widestRow(rows [][]string) int {
	widest := 0
	for _, row := range rows {
		if len(row) > widest {
			widest = len(row)
		}
	}
	return widest
}
