// Package export produces the tabular downloads the admin panel serves:
// collected links for one project and the blank upload template. Output is
// CSV; converting to spreadsheet file formats happens outside this module.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/coletalabs/coleta/internal/domain/batch"
)

// TemplateHeader is the header row of the upload template. Starred columns
// are required by intake.
var TemplateHeader = []string{"Site*", "Descrição*", "EAN*", "Quantidade no Lote*", "CEP", "Endereço"}

// Writer generates project downloads.
type Writer struct {
	items batch.ItemRepository
}

// NewWriter creates a new export writer.
func NewWriter(items batch.ItemRepository) *Writer {
	return &Writer{items: items}
}

// WriteProject streams one project's items as CSV.
func (e *Writer) WriteProject(ctx context.Context, w io.Writer, projectID string) error {
	items, err := e.items.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading project items: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"EAN", "Description", "Collected Link"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write([]string{it.EAN, it.Description, it.Link}); err != nil {
			return fmt.Errorf("writing item %s: %w", it.EAN, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplate streams the blank upload template.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateHeader); err != nil {
		return fmt.Errorf("writing template header: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
