package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Workbook holds the raw cell grids of every sheet in an uploaded file,
// keyed by sheet name. CSV files appear as a single sheet named after the
// file.
type Workbook map[string][][]string

// ReadWorkbook parses an uploaded spreadsheet export into raw string grids.
// Supports .xlsx (excelize), legacy .xls (extrame/xls) and .csv.
func ReadWorkbook(r io.Reader, filename string) (Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return readCSV(r, filename)
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	}
	return nil, fmt.Errorf("unsupported file type: %s", filename)
}

func readCSV(r io.Reader, filename string) (Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return Workbook{name: records}, nil
}

func readXLSX(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	wb := Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		wb[name] = rows
	}
	if len(wb) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	return wb, nil
}

func readXLS(r io.Reader) (Workbook, error) {
	// extrame/xls needs a ReadSeeker; uploads arrive as plain readers.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer xls file: %w", err)
	}
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls file: %w", err)
	}

	wb := Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		var rows [][]string
		for ri := 0; ri <= int(ws.MaxRow); ri++ {
			row := ws.Row(ri)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			var cells []string
			for ci := 0; ci <= row.LastCol(); ci++ {
				cells = append(cells, row.Col(ci))
			}
			rows = append(rows, cells)
		}
		wb[ws.Name] = rows
	}
	if len(wb) == 0 {
		return nil, fmt.Errorf("no sheets found in xls file")
	}
	return wb, nil
}

// PickSheet returns the grid of the first sheet whose lower-cased name
// contains any of the hints, falling back to the sheet at fallbackIdx in
// name order when nothing matches. Returns nil when the workbook is empty.
func (wb Workbook) PickSheet(hints []string, fallbackIdx int) ([][]string, string) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, ""
	}
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, h := range hints {
			if strings.Contains(lower, h) {
				return wb[name], name
			}
		}
	}
	if fallbackIdx < 0 || fallbackIdx >= len(names) {
		return nil, ""
	}
	return wb[names[fallbackIdx]], names[fallbackIdx]
}

// SheetNames returns sheet names in stable (sorted) order.
func (wb Workbook) SheetNames() []string {
	names := make([]string, 0, len(wb))
	for name := range wb {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
