package sheets

import (
	"strconv"
	"time"
)

// cellAt reads a cell tolerant of ragged rows: spreadsheet APIs drop
// trailing empty cells.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseIntCell(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseTimeCell(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTimeCell(t time.Time) string {
	return t.Format(time.RFC3339)
}
