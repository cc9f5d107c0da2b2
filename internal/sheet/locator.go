package sheet

import (
	"log"
	"strings"

	"ComexCore/internal/config"
)

// LocateHeader returns the zero-based index of the row most likely to hold
// column headers. It scans at most the first config.HeaderScanRows rows,
// lower-cases and concatenates each row's cells, and counts keyword
// substring hits. Ties keep the lowest index. If no row scores above
// minMatches the locator degrades to row 0 and logs a low-confidence
// warning; absence of a header is never an error.
func LocateHeader(rows [][]string, keywords []string, minMatches int) int {
	bestRow := 0
	bestScore := 0

	limit := len(rows)
	if limit > config.HeaderScanRows {
		limit = config.HeaderScanRows
	}

	for i := 0; i < limit; i++ {
		score := scoreRow(rows[i], keywords)
		if score > bestScore {
			bestScore = score
			bestRow = i
		}
	}

	if bestScore <= minMatches {
		log.Printf("[WARN] header locator: no row scored above %d (best %d), falling back to row 0", minMatches, bestScore)
		return 0
	}
	return bestRow
}

func scoreRow(row []string, keywords []string) int {
	var b strings.Builder
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		b.WriteString(strings.ToLower(cell))
		b.WriteString(" ")
	}
	joined := b.String()
	if joined == "" {
		return 0
	}
	count := 0
	for _, kw := range keywords {
		if strings.Contains(joined, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}
