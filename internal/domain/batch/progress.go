package batch

import (
	"fmt"
	"strings"
)

// Progress counts items with a non-empty trimmed link. Percent is the
// integer floor of filled/total, or 0 for an empty item set.
func Progress(items []Item) (filled, total, percent int) {
	total = len(items)
	for _, it := range items {
		if strings.TrimSpace(it.Link) != "" {
			filled++
		}
	}
	if total > 0 {
		percent = filled * 100 / total
	}
	return filled, total, percent
}

// FormatProgress renders the persisted "<filled>/<total>" progress string.
func FormatProgress(filled, total int) string {
	return fmt.Sprintf("%d/%d", filled, total)
}
