package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrMissingTrigger     = goerr.New("reply trigger is required")
	ErrMissingTemplate    = goerr.New("reply template is required")
	ErrInvalidBackend     = goerr.New("invalid repository backend")
	ErrMissingSpreadsheet = goerr.New("spreadsheet ID or sheet name is required")
	ErrMissingProjectID   = goerr.New("firestore project ID is required")
	ErrMissingBotToken    = goerr.New("slack bot token is required")
	ErrMissingSecret      = goerr.New("slack signing secret is required")
	ErrInvalidLogLevel    = goerr.New("invalid log level")
	ErrInvalidLogFormat   = goerr.New("invalid log format")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BackendKey    = "backend"
	TemplateKey   = "template"
	LogLevelKey   = "log_level"
	LogFormatKey  = "log_format"
)
