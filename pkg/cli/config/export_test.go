package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, signingSecret string, profileCacheTTL time.Duration) *Slack {
	return &Slack{
		botToken:        botToken,
		signingSecret:   signingSecret,
		profileCacheTTL: profileCacheTTL,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, spreadsheetID, sheetName, projectID string) *Repository {
	return &Repository{
		backend:       backend,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		projectID:     projectID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string, noReply bool) *App {
	return &App{
		path:    path,
		noReply: noReply,
	}
}

// NewFirestoreRepositoryForTest creates a Firestore Repository config with
// an explicit credentials file
func NewFirestoreRepositoryForTest(projectID, credentialsFile string) *Repository {
	return &Repository{
		backend:         BackendFirestore,
		projectID:       projectID,
		credentialsFile: credentialsFile,
	}
}
