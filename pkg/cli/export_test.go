package cli

var (
	EnvFilePath          = envFilePath
	ResolveAddr          = resolveAddr
	PrintBackfillSummary = printBackfillSummary
)
