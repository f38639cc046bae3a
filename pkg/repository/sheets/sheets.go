package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scopes required by the sheet sink: read/append values and look up a
// spreadsheet by name.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveMetadataReadonlyScope,
}

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Sheets is a contact log stored in the first sheet of a Google spreadsheet
type Sheets struct {
	spreadsheetID string
	sheetTitle    string
	contact       *contactRepository
}

var _ interfaces.Repository = &Sheets{}

type config struct {
	spreadsheetID string
	sheetName     string
	clientOpts    []option.ClientOption
}

type Option func(*config)

// WithSpreadsheetID opens the spreadsheet directly by ID
func WithSpreadsheetID(id string) Option {
	return func(c *config) {
		c.spreadsheetID = id
	}
}

// WithSheetName opens the spreadsheet by its Drive file name. Ignored when a
// spreadsheet ID is given.
func WithSheetName(name string) Option {
	return func(c *config) {
		c.sheetName = name
	}
}

// WithClientOptions passes options (credentials, endpoint) to the Google API clients
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *config) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// New connects to the spreadsheet and resolves its first sheet
func New(ctx context.Context, opts ...Option) (*Sheets, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.spreadsheetID == "" && cfg.sheetName == "" {
		return nil, goerr.New("either spreadsheet ID or sheet name is required")
	}

	svc, err := sheets.NewService(ctx, cfg.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create sheets service")
	}

	spreadsheetID := cfg.spreadsheetID
	if spreadsheetID == "" {
		id, err := findSpreadsheet(ctx, cfg.sheetName, cfg.clientOpts)
		if err != nil {
			return nil, err
		}
		spreadsheetID = id
	}

	ss, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get spreadsheet", goerr.V("spreadsheet_id", spreadsheetID))
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, goerr.New("spreadsheet has no sheets", goerr.V("spreadsheet_id", spreadsheetID))
	}
	title := ss.Sheets[0].Properties.Title

	logging.From(ctx).Info("Opened contact sheet",
		"spreadsheet_id", spreadsheetID,
		"sheet", title,
	)

	return &Sheets{
		spreadsheetID: spreadsheetID,
		sheetTitle:    title,
		contact:       newContactRepository(svc.Spreadsheets.Values, spreadsheetID, title),
	}, nil
}

// findSpreadsheet looks up a spreadsheet by exact file name. When several
// files share the name, the first one returned by Drive wins.
func findSpreadsheet(ctx context.Context, name string, clientOpts []option.ClientOption) (string, error) {
	driveSvc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create drive service")
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), spreadsheetMimeType)
	resp, err := driveSvc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", goerr.Wrap(err, "failed to search spreadsheet", goerr.V("name", name))
	}
	if len(resp.Files) == 0 {
		return "", goerr.New("spreadsheet not found", goerr.V("name", name))
	}
	if len(resp.Files) > 1 {
		logging.From(ctx).Warn("multiple spreadsheets share the name, using the first",
			"name", name,
			"count", len(resp.Files),
		)
	}

	return resp.Files[0].Id, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func (s *Sheets) Contact() interfaces.ContactRepository {
	return s.contact
}

// SpreadsheetID returns the resolved spreadsheet ID
func (s *Sheets) SpreadsheetID() string {
	return s.spreadsheetID
}

// SheetTitle returns the title of the sheet rows are appended to
func (s *Sheets) SheetTitle() string {
	return s.sheetTitle
}

func (s *Sheets) Close() error {
	return nil
}
