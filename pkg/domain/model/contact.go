package model

import (
	"errors"
	"time"
)

const (
	// RecordedAtLayout is the layout of the recorded_at column
	RecordedAtLayout = "2006-01-02 15:04:05"

	// NoEmail is written when a profile carries no email address
	NoEmail = "No email"

	// UserIDColumn is the 1-indexed column holding the deduplication key
	UserIDColumn = 4
)

// ErrContactExists is returned by sinks that can reject a duplicate user ID
// at write time.
var ErrContactExists = errors.New("contact already recorded")

// UserProfile is the resolved identity of a Slack user
type UserProfile struct {
	UserID      string
	DisplayName string
	Email       string // empty when the account exposes no email
	Placeholder bool   // true when resolution failed
}

// NewPlaceholderProfile builds the profile used when resolution fails. The
// display name embeds the raw user ID so the failure is visible in the log.
func NewPlaceholderProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:      userID,
		DisplayName: "<Unknown:" + userID + ">",
		Placeholder: true,
	}
}

// EmailOrSentinel returns the email address or NoEmail
func (p *UserProfile) EmailOrSentinel() string {
	if p.Email == "" {
		return NoEmail
	}
	return p.Email
}

// ContactRecord is one row of the contact log. Rows are append-only.
type ContactRecord struct {
	DisplayName string
	RecordedAt  time.Time // processing time, not message time
	MessageText string
	UserID      string
	Email       string
}

// NewContactRecord builds a record from a resolved profile
func NewContactRecord(profile *UserProfile, text string, recordedAt time.Time) *ContactRecord {
	return &ContactRecord{
		DisplayName: profile.DisplayName,
		RecordedAt:  recordedAt,
		MessageText: text,
		UserID:      profile.UserID,
		Email:       profile.EmailOrSentinel(),
	}
}

// Row returns the record in sink column order:
// display_name, recorded_at, message_text, user_id, email
func (r *ContactRecord) Row() []string {
	return []string{
		r.DisplayName,
		r.RecordedAt.Format(RecordedAtLayout),
		r.MessageText,
		r.UserID,
		r.Email,
	}
}

// UserIDSet is the set of user IDs already present in the contact log
type UserIDSet map[string]struct{}

// NewUserIDSet builds a set from a column of identifiers. Blank cells are
// ignored.
func NewUserIDSet(ids []string) UserIDSet {
	set := make(UserIDSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (s UserIDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s UserIDSet) Add(id string) {
	s[id] = struct{}{}
}
