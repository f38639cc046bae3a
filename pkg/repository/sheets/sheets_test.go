package sheets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	"github.com/secmon-lab/introbridge/pkg/repository/sheets"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// fakeSheetsAPI serves the subset of the Sheets and Drive REST APIs used by
// the repository, backed by an in-memory grid.
type fakeSheetsAPI struct {
	mu          sync.Mutex
	title       string
	rows        [][]string
	driveQuery  string
	failAppend  bool
	appendQuery string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case path == "/files":
		f.driveQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{{"id": "sheet-from-drive", "name": "CC Intros"}},
		})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		if f.failAppend {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"permission denied"}}`))
			return
		}
		f.appendQuery = r.URL.RawQuery
		var vr sheetsapi.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, row := range vr.Values {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i], _ = c.(string)
			}
			f.rows = append(f.rows, cells)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sid"})

	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		col := []any{}
		for _, row := range f.rows {
			if len(row) >= model.UserIDColumn {
				col = append(col, row[model.UserIDColumn-1])
			}
		}
		resp := map[string]any{"majorDimension": "COLUMNS"}
		if len(col) > 0 {
			resp["values"] = [][]any{col}
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/"):
		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": strings.TrimPrefix(path, "/v4/spreadsheets/"),
			"sheets": []map[string]any{
				{"properties": map[string]any{"sheetId": 0, "title": f.title, "index": 0}},
			},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestSheets(t *testing.T, api *fakeSheetsAPI, opts ...sheets.Option) *sheets.Sheets {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	opts = append(opts, sheets.WithClientOptions(
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	))
	s, err := sheets.New(context.Background(), opts...)
	gt.NoError(t, err).Required()
	return s
}

func TestNew(t *testing.T) {
	t.Run("requires spreadsheet ID or name", func(t *testing.T) {
		_, err := sheets.New(context.Background())
		gt.Value(t, err).NotNil()
	})

	t.Run("opens first sheet by spreadsheet ID", func(t *testing.T) {
		api := &fakeSheetsAPI{title: "Intros"}
		s := newTestSheets(t, api, sheets.WithSpreadsheetID("sid"))

		gt.Value(t, s.SpreadsheetID()).Equal("sid")
		gt.Value(t, s.SheetTitle()).Equal("Intros")
		gt.Value(t, api.driveQuery).Equal("")
	})

	t.Run("resolves spreadsheet by name via Drive", func(t *testing.T) {
		api := &fakeSheetsAPI{title: "Sheet1"}
		s := newTestSheets(t, api, sheets.WithSheetName("CC Intros"))

		gt.Value(t, s.SpreadsheetID()).Equal("sheet-from-drive")
		gt.String(t, api.driveQuery).Contains("name = 'CC Intros'")
		gt.String(t, api.driveQuery).Contains("trashed = false")
	})
}

func TestContactRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("append then list user IDs", func(t *testing.T) {
		api := &fakeSheetsAPI{title: "Intros", rows: [][]string{
			{"Name", "Timestamp", "Message", "Slack User ID", "Email"},
		}}
		s := newTestSheets(t, api, sheets.WithSpreadsheetID("sid"))

		recordedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		rec := &model.ContactRecord{
			DisplayName: "Jane Doe",
			RecordedAt:  recordedAt,
			MessageText: "hello",
			UserID:      "U1",
			Email:       "jane@example.com",
		}
		gt.NoError(t, s.Contact().Append(ctx, rec)).Required()

		gt.Array(t, api.rows).Length(2).Required()
		gt.Value(t, api.rows[1]).Equal([]string{"Jane Doe", "2025-01-02 03:04:05", "hello", "U1", "jane@example.com"})
		gt.String(t, api.appendQuery).Contains("valueInputOption=RAW")

		ids, err := s.Contact().ListUserIDs(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, ids).Equal([]string{"Slack User ID", "U1"})
	})

	t.Run("empty sheet yields no IDs", func(t *testing.T) {
		api := &fakeSheetsAPI{title: "Intros"}
		s := newTestSheets(t, api, sheets.WithSpreadsheetID("sid"))

		ids, err := s.Contact().ListUserIDs(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, ids).Length(0)
	})

	t.Run("append failure is returned", func(t *testing.T) {
		api := &fakeSheetsAPI{title: "Intros", failAppend: true}
		s := newTestSheets(t, api, sheets.WithSpreadsheetID("sid"))

		err := s.Contact().Append(ctx, &model.ContactRecord{UserID: "U1", RecordedAt: time.Now()})
		gt.Value(t, err).NotNil()
	})
}

func TestColumnLetter(t *testing.T) {
	gt.Value(t, sheets.ColumnLetter(1)).Equal("A")
	gt.Value(t, sheets.ColumnLetter(4)).Equal("D")
	gt.Value(t, sheets.ColumnLetter(26)).Equal("Z")
	gt.Value(t, sheets.ColumnLetter(27)).Equal("AA")
}

func TestEscapeQuery(t *testing.T) {
	gt.Value(t, sheets.EscapeQuery("Bob's Intros")).Equal(`Bob\'s Intros`)
}
