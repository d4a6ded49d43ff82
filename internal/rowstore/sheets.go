package rowstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/assettrack/apiserver/config"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const newSheetRows = 1000
const newSheetCols = 26

// SheetsBackend stores each logical table as a named tab of a single
// Google Sheets document. All cell values are written and read back as
// text. Tabs are created on demand the first time a table is touched.
type SheetsBackend struct {
	service       *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewSheetsBackend constructs a backend for the configured spreadsheet.
func NewSheetsBackend(ctx context.Context, cfg config.SheetsConfig) (*SheetsBackend, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsBackend{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// ReadAll returns every data row of the tab keyed by the header row.
func (b *SheetsBackend) ReadAll(ctx context.Context, table string) ([]Row, error) {
	values, err := b.readValues(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return []Row{}, nil
	}

	header := values[0]
	rows := make([]Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(raw) {
				row[name] = raw[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append writes a new row, bootstrapping the header from the row keys
// when the tab is empty.
func (b *SheetsBackend) Append(ctx context.Context, table string, row Row) error {
	if err := b.ensureSheet(ctx, table); err != nil {
		return err
	}

	header, err := b.readHeader(ctx, table)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		header = sortedKeys(row)
		if err := b.appendValues(ctx, table, header); err != nil {
			return fmt.Errorf("write header for %s: %w", table, err)
		}
	}

	return b.appendValues(ctx, table, projectRow(header, row))
}

// Update overwrites the data row at the given 1-based position.
func (b *SheetsBackend) Update(ctx context.Context, table string, pos int, row Row) error {
	if pos < 1 {
		return fmt.Errorf("invalid row position %d", pos)
	}
	header, err := b.readHeader(ctx, table)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		return fmt.Errorf("table %s has no header", table)
	}

	values := projectRow(header, row)
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	// Data position 1 is spreadsheet row 2.
	rng := fmt.Sprintf("%s!A%d", table, pos+1)
	_, err = b.service.Spreadsheets.Values.Update(b.spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d of %s: %w", pos, table, err)
	}
	return nil
}

// Delete removes the data row at the given 1-based position.
func (b *SheetsBackend) Delete(ctx context.Context, table string, pos int) error {
	if pos < 1 {
		return fmt.Errorf("invalid row position %d", pos)
	}
	sheetID, err := b.sheetID(ctx, table)
	if err != nil {
		return err
	}

	// DeleteDimension uses 0-based half-open row indexes; the header
	// occupies index 0, so data position 1 is index 1.
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(pos),
					EndIndex:   int64(pos + 1),
				},
			},
		}},
	}
	if _, err := b.service.Spreadsheets.BatchUpdate(b.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", pos, table, err)
	}
	return nil
}

// Find scans the tab for the first case-insensitive column match.
func (b *SheetsBackend) Find(ctx context.Context, table, column, value string) (int, error) {
	rows, err := b.ReadAll(ctx, table)
	if err != nil {
		return PositionNotFound, err
	}
	for i, row := range rows {
		if strings.EqualFold(row[column], value) {
			return i + 1, nil
		}
	}
	return PositionNotFound, nil
}

// EnsureHeader creates the tab if needed and writes the header row when
// the tab is still empty.
func (b *SheetsBackend) EnsureHeader(ctx context.Context, table string, header []string) error {
	existing, err := b.readHeader(ctx, table)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return b.appendValues(ctx, table, header)
}

func (b *SheetsBackend) readValues(ctx context.Context, table string) ([][]string, error) {
	if err := b.ensureSheet(ctx, table); err != nil {
		return nil, err
	}
	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, table).
		ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	values := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		values = append(values, row)
	}
	return values, nil
}

func (b *SheetsBackend) readHeader(ctx context.Context, table string) ([]string, error) {
	if err := b.ensureSheet(ctx, table); err != nil {
		return nil, err
	}
	rng := fmt.Sprintf("%s!1:1", table)
	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, fmt.Sprint(cell))
	}
	return header, nil
}

func (b *SheetsBackend) appendValues(ctx context.Context, table string, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	_, err := b.service.Spreadsheets.Values.Append(b.spreadsheetID, table, &sheets.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	return nil
}

// ensureSheet creates the named tab if the document does not have it yet.
func (b *SheetsBackend) ensureSheet(ctx context.Context, table string) error {
	_, err := b.sheetID(ctx, table)
	if err == nil {
		return nil
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: table,
					GridProperties: &sheets.GridProperties{
						RowCount:    newSheetRows,
						ColumnCount: newSheetCols,
					},
				},
			},
		}},
	}
	resp, err := b.service.Spreadsheets.BatchUpdate(b.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", table, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range resp.Replies {
		if r.AddSheet != nil && r.AddSheet.Properties != nil {
			b.sheetIDs[table] = r.AddSheet.Properties.SheetId
		}
	}
	return nil
}

// sheetID resolves the numeric sheet id of a tab, refreshing the local
// cache from the document when the tab is unknown.
func (b *SheetsBackend) sheetID(ctx context.Context, table string) (int64, error) {
	b.mu.Lock()
	if id, ok := b.sheetIDs[table]; ok {
		b.mu.Unlock()
		return id, nil
	}
	b.mu.Unlock()

	doc, err := b.service.Spreadsheets.Get(b.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			b.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	if id, ok := b.sheetIDs[table]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("sheet %s not found", table)
}

// projectRow serializes a row positionally by header order, supplying
// empty strings for missing headers and dropping unknown keys.
func projectRow(header []string, row Row) []string {
	values := make([]string, len(header))
	for i, name := range header {
		values[i] = row[name]
	}
	return values
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	// Deterministic header order for bootstrapped tables.
	sort.Strings(keys)
	return keys
}
