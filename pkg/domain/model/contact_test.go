package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

func TestContactRecord_Row(t *testing.T) {
	recordedAt := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	profile := &model.UserProfile{UserID: "U1", DisplayName: "Jane Doe", Email: "jane@example.com"}

	rec := model.NewContactRecord(profile, "Hi, I'd like to introduce myself", recordedAt)
	row := rec.Row()

	gt.Array(t, row).Length(5).Required()
	gt.Value(t, row[0]).Equal("Jane Doe")
	gt.Value(t, row[1]).Equal("2025-03-04 05:06:07")
	gt.Value(t, row[2]).Equal("Hi, I'd like to introduce myself")
	gt.Value(t, row[model.UserIDColumn-1]).Equal("U1")
	gt.Value(t, row[4]).Equal("jane@example.com")
}

func TestNewPlaceholderProfile(t *testing.T) {
	profile := model.NewPlaceholderProfile("U404")

	gt.Value(t, profile.DisplayName).Equal("<Unknown:U404>")
	gt.Value(t, profile.Placeholder).Equal(true)
	gt.Value(t, profile.EmailOrSentinel()).Equal(model.NoEmail)

	rec := model.NewContactRecord(profile, "hello", time.Now())
	gt.Value(t, rec.UserID).Equal("U404")
	gt.Value(t, rec.Email).Equal(model.NoEmail)
}

func TestUserIDSet(t *testing.T) {
	set := model.NewUserIDSet([]string{"Slack User ID", "U1", "", "U2"})

	gt.Value(t, set.Has("U1")).Equal(true)
	gt.Value(t, set.Has("U2")).Equal(true)
	gt.Value(t, set.Has("")).Equal(false)
	gt.Value(t, set.Has("U3")).Equal(false)

	set.Add("U3")
	gt.Value(t, set.Has("U3")).Equal(true)
}
