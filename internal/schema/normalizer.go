package schema

import (
	"fmt"
	"log"
	"strings"

	"ComexCore/internal/sheet"

	"github.com/google/uuid"
)

// ColumnMap maps canonical field name to source column index; -1 when
// unmapped after both passes.
type ColumnMap map[string]int

// Record is one normalized data row: canonical field name to cleaned value.
// Absent fields are simply missing from the map.
type Record map[string]string

// MapColumns resolves source headers onto the canonical fields of a sheet
// definition in two passes: case-insensitive synonym match first, then
// positional fallback for fields whose documented ordinal exists in the
// sheet. A source column stays eligible after being consumed; duplicate
// headers in source files are observed in practice and this ambiguity is
// accepted. Required fields left unmapped produce a warning, not an error:
// downstream row validation decides what absence means.
func MapColumns(header []string, def SheetDef) (ColumnMap, []string) {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = strings.ToLower(CleanText(h))
	}

	cm := ColumnMap{}
	var warnings []string

	for _, f := range def.Fields {
		cm[f.Name] = -1
		for _, syn := range f.Synonyms {
			idx := indexOf(cleaned, strings.ToLower(syn))
			if idx >= 0 {
				cm[f.Name] = idx
				break
			}
		}
	}

	// positional fallback only when the sheet is wide enough
	for _, f := range def.Fields {
		if cm[f.Name] >= 0 || f.Position < 0 {
			continue
		}
		if f.Position < len(header) {
			cm[f.Name] = f.Position
		}
	}

	for _, f := range def.Fields {
		if f.Required && cm[f.Name] < 0 {
			w := fmt.Sprintf("required field %q unmapped in %s sheet, values will be treated as absent", f.Name, def.Type)
			warnings = append(warnings, w)
			log.Printf("[WARN] schema: %s", w)
		}
	}
	return cm, warnings
}

func indexOf(haystack []string, needle string) int {
	for i, h := range haystack {
		if h == needle {
			return i
		}
	}
	return -1
}

// ProcessSheet runs the full normalization pipeline for one raw grid:
// header location, column mapping and per-cell cleaning. It never fails on
// shape problems; a missing header only lowers confidence and the result
// degrades to treating row 0 as the header.
func ProcessSheet(rows [][]string, t SheetType) ([]Record, []string, error) {
	def, ok := Definition(t)
	if !ok {
		return nil, nil, fmt.Errorf("unknown sheet type: %s", t)
	}
	if len(rows) == 0 {
		return nil, []string{"sheet is empty"}, nil
	}

	headerIdx := sheet.LocateHeader(rows, def.HeaderKeywords, def.MinHeaderMatches)
	cm, warnings := MapColumns(rows[headerIdx], def)

	var records []Record
	for ri := headerIdx + 1; ri < len(rows); ri++ {
		row := rows[ri]
		if isBlank(row) {
			continue
		}
		rec := Record{}
		for _, f := range def.Fields {
			col := cm[f.Name]
			if col < 0 || col >= len(row) {
				continue
			}
			val := CleanText(row[col])
			if val == "" {
				continue
			}
			if f.Kind == KindUUID {
				norm, ok := NormalizeUUID(val)
				if !ok {
					log.Printf("[WARN] schema: row %d field %s: invalid UUID %q treated as absent", ri+1, f.Name, val)
					continue
				}
				val = norm
			}
			rec[f.Name] = val
		}
		if len(rec) == 0 {
			continue
		}
		records = append(records, rec)
	}
	return records, warnings, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// CleanText trims and collapses internal whitespace to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeUUID upper-cases and validates a fiscal UUID. Invalid values are
// reported as absent rather than raised.
func NormalizeUUID(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}
