package types

// RecordStatus is the result of a single contact record attempt
type RecordStatus string

const (
	RecordStatusRecorded         RecordStatus = "recorded"
	RecordStatusSkippedDuplicate RecordStatus = "skipped_duplicate"
	RecordStatusLookupFailed     RecordStatus = "lookup_failed"
	RecordStatusAppendFailed     RecordStatus = "append_failed"
	RecordStatusDryRun           RecordStatus = "dry_run"
)

// IsFailure reports whether the status represents a sink failure
func (s RecordStatus) IsFailure() bool {
	return s == RecordStatusLookupFailed || s == RecordStatusAppendFailed
}

func (s RecordStatus) String() string {
	return string(s)
}

// JoinStatus is the result of the channel admission step
type JoinStatus string

const (
	JoinStatusJoined  JoinStatus = "joined"
	JoinStatusSkipped JoinStatus = "skipped"
	JoinStatusFailed  JoinStatus = "failed"
)

func (s JoinStatus) String() string {
	return string(s)
}

// ReplyStatus is the result of a courtesy reply
type ReplyStatus string

const (
	ReplyStatusSent     ReplyStatus = "sent"
	ReplyStatusFailed   ReplyStatus = "failed"
	ReplyStatusDisabled ReplyStatus = "disabled"
	// ReplyStatusRedelivered marks a Slack retry of an event whose contact
	// was already recorded; the first delivery owns the reply.
	ReplyStatusRedelivered ReplyStatus = "redelivered"
)

func (s ReplyStatus) String() string {
	return string(s)
}
