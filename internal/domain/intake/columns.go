package intake

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Canonical column keys after normalization. Upload headers arrive in
// Portuguese with decorations like "Quantidade no Lote*".
const (
	colEAN         = "ean"
	colDescription = "descricao"
	colSite        = "site"
	colPostalCode  = "cep"
	colAddress     = "endereco"
	colLotSize     = "quantidadenolote"
)

// normalizeHeader maps a raw header cell to its canonical key: lowercase,
// accents stripped, whitespace and marker punctuation removed.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripAccents(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripAccents(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// columnIndex locates canonical keys in a raw header row.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// forwardFill replaces each blank value with the nearest preceding non-blank
// value. Bulk uploads carry one context value for a contiguous run of rows.
func forwardFill(values []string) []string {
	filled := make([]string, len(values))
	last := ""
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			last = v
		}
		filled[i] = last
	}
	return filled
}
