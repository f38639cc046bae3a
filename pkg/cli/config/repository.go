package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/repository/firestore"
	"github.com/secmon-lab/introbridge/pkg/repository/memory"
	"github.com/secmon-lab/introbridge/pkg/repository/sheets"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

const (
	BackendSheets    = "sheets"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	spreadsheetID    string
	sheetName        string
	credentialsFile  string
	credentialsJSON  string
	projectID        string
	databaseID       string
	collectionPrefix string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (sheets, firestore or memory)",
			Category:    "Repository",
			Value:       BackendSheets,
			Sources:     cli.EnvVars("INTROBRIDGE_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "spreadsheet-id",
			Usage:       "Google spreadsheet ID of the contact log",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_SPREADSHEET_ID"),
			Destination: &r.spreadsheetID,
		},
		&cli.StringFlag{
			Name:        "sheet-name",
			Usage:       "Google spreadsheet file name, resolved through Drive (used when no ID is given)",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_SHEET_NAME", "SHEET_NAME"),
			Destination: &r.sheetName,
		},
		&cli.StringFlag{
			Name:        "google-credentials-file",
			Usage:       "Service account key file (application default credentials when empty)",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_GOOGLE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"),
			Destination: &r.credentialsFile,
		},
		&cli.StringFlag{
			Name:        "google-credentials-json",
			Usage:       "Service account key JSON",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_GOOGLE_CREDENTIALS_JSON"),
			Destination: &r.credentialsJSON,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names",
			Category:    "Repository",
			Sources:     cli.EnvVars("INTROBRIDGE_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("spreadsheet-id", r.spreadsheetID),
		slog.String("sheet-name", r.sheetName),
		slog.String("credentials-file", r.credentialsFile),
		slog.Int("credentials-json.len", len(r.credentialsJSON)),
		slog.String("firestore-project-id", r.projectID),
		slog.String("firestore-database-id", r.databaseID),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Validate checks the flag combination without touching any backend
func (r *Repository) Validate() error {
	switch r.backend {
	case BackendSheets:
		if r.spreadsheetID == "" && r.sheetName == "" {
			return goerr.Wrap(ErrMissingSpreadsheet, "set --spreadsheet-id or --sheet-name")
		}
	case BackendFirestore:
		if r.projectID == "" {
			return goerr.Wrap(ErrMissingProjectID, "set --firestore-project-id")
		}
	case BackendMemory:
	default:
		return goerr.Wrap(ErrInvalidBackend, "unknown backend", goerr.V(BackendKey, r.backend))
	}
	return nil
}

// credentialOptions returns the explicit Google credentials, if any. Without
// them the clients fall back to application default credentials.
func (r *Repository) credentialOptions() []option.ClientOption {
	switch {
	case r.credentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(r.credentialsJSON))}
	case r.credentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(r.credentialsFile)}
	}
	return nil
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.backend {
	case BackendSheets:
		repo, err := sheets.New(ctx,
			sheets.WithSpreadsheetID(r.spreadsheetID),
			sheets.WithSheetName(r.sheetName),
			sheets.WithClientOptions(append([]option.ClientOption{option.WithScopes(sheets.Scopes...)}, r.credentialOptions()...)...),
		)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sheets repository")
		}
		logging.Default().Info("Using Google Sheets repository",
			"spreadsheet_id", repo.SpreadsheetID(),
			"sheet", repo.SheetTitle(),
		)
		return repo, nil

	case BackendFirestore:
		opts := []firestore.Option{firestore.WithClientOptions(r.credentialOptions()...)}
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	default:
		logging.Default().Warn("Using in-memory repository, records are lost on exit")
		return memory.New(), nil
	}
}
