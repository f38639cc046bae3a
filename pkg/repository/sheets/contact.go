package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	"google.golang.org/api/sheets/v4"
)

type contactRepository struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	sheetTitle    string
}

var _ interfaces.ContactRepository = &contactRepository{}

func newContactRepository(values *sheets.SpreadsheetsValuesService, spreadsheetID, sheetTitle string) *contactRepository {
	return &contactRepository{
		values:        values,
		spreadsheetID: spreadsheetID,
		sheetTitle:    sheetTitle,
	}
}

// a1 returns an A1 range on the target sheet, quoting the title
func (r *contactRepository) a1(cells string) string {
	title := "'" + strings.ReplaceAll(r.sheetTitle, "'", "''") + "'"
	if cells == "" {
		return title
	}
	return title + "!" + cells
}

// ListUserIDs reads the user ID column (D). The header cell, if any, is
// returned as well; it never collides with a Slack user ID.
func (r *contactRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	col := columnLetter(model.UserIDColumn)
	rng := r.a1(col + ":" + col)

	resp, err := r.values.Get(r.spreadsheetID, rng).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read user ID column",
			goerr.V("spreadsheet_id", r.spreadsheetID),
			goerr.V("range", rng),
		)
	}

	if len(resp.Values) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(resp.Values[0]))
	for _, v := range resp.Values[0] {
		ids = append(ids, fmt.Sprint(v))
	}
	return ids, nil
}

// Append adds the record as a new row after the last row of the table
func (r *contactRepository) Append(ctx context.Context, record *model.ContactRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}

	row := record.Row()
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	rng := r.a1("A:" + columnLetter(len(row)))
	_, err := r.values.Append(r.spreadsheetID, rng, &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{cells},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return goerr.Wrap(err, "failed to append contact row",
			goerr.V("spreadsheet_id", r.spreadsheetID),
			goerr.V("user_id", record.UserID),
		)
	}

	return nil
}

// columnLetter converts a 1-indexed column number to its A1 letter (1 -> A)
func columnLetter(n int) string {
	var s string
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
