package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleStore implements RowStore against the Google Sheets API.
type GoogleStore struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleStore opens the spreadsheet identified by spreadsheetID using a
// service-account credentials file.
func NewGoogleStore(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleStore, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Rows returns every row of a table including the header row.
func (g *GoogleStore) Rows(ctx context.Context, table string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", table, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

// RowAt returns one row by its 1-based position.
func (g *GoogleStore) RowAt(ctx context.Context, table string, row int) ([]string, error) {
	rng := fmt.Sprintf("%s!%d:%d", table, row, row)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading row %d of %s: %w", row, table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	out := make([]string, len(resp.Values[0]))
	for j, v := range resp.Values[0] {
		out[j] = fmt.Sprint(v)
	}
	return out, nil
}

// UpdateCell writes one cell.
func (g *GoogleStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", table, columnLetter(col), row)
	vr := &sheetsapi.ValueRange{Values: [][]any{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing cell %s: %w", rng, err)
	}
	return nil
}

// UpdateRange writes several cells in one batched request.
func (g *GoogleStore) UpdateRange(ctx context.Context, table string, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*sheetsapi.ValueRange, len(updates))
	for i, u := range updates {
		data[i] = &sheetsapi.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", table, columnLetter(u.Col), u.Row),
			Values: [][]any{{u.Value}},
		}
	}
	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	_, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch updating %s: %w", table, err)
	}
	return nil
}

// Append adds rows after the last non-empty row of the table.
func (g *GoogleStore) Append(ctx context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, cell := range row {
			vals[j] = cell
		}
		values[i] = vals
	}
	vr := &sheetsapi.ValueRange{Values: values}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, table+"!A1", vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to %s: %w", table, err)
	}
	return nil
}

// EnsureTable creates the worksheet with a header row if it is missing.
func (g *GoogleStore) EnsureTable(ctx context.Context, table string, header []string) error {
	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("inspecting spreadsheet: %w", err)
	}
	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == table {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}
	return g.Append(ctx, table, [][]string{header})
}

// columnLetter converts a 1-based column number to its A1 letter form.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
