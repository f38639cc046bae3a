package sheets

// Export internal functions for testing
var (
	ColumnLetter = columnLetter
	EscapeQuery  = escapeQuery
)
