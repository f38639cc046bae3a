package model

import "strings"

const (
	DefaultReplyTrigger       = "introduce"
	DefaultReplyIntroTemplate = "Hi {user}! Thanks for introducing yourself. I'll suggest some connections soon!"
	DefaultReplyEchoTemplate  = `Hi {user}! I saw your intro: "{text}". I'll suggest some connections soon!`
)

// ReplyConfig controls the courtesy reply posted in the thread of a
// recorded message. Templates accept {user} (rendered as a mention) and
// {text} (the original message, verbatim).
type ReplyConfig struct {
	Enabled       bool
	Trigger       string
	IntroTemplate string
	EchoTemplate  string
}

// DefaultReplyConfig returns the built-in reply settings
func DefaultReplyConfig() *ReplyConfig {
	return &ReplyConfig{
		Enabled:       true,
		Trigger:       DefaultReplyTrigger,
		IntroTemplate: DefaultReplyIntroTemplate,
		EchoTemplate:  DefaultReplyEchoTemplate,
	}
}

// Matches reports whether text contains the trigger phrase, ignoring case
func (c *ReplyConfig) Matches(text string) bool {
	if c.Trigger == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(c.Trigger))
}

// Compose renders the reply for a message: the intro variant when the
// trigger phrase is present, the echo variant otherwise.
func (c *ReplyConfig) Compose(userID, text string) string {
	tmpl := c.EchoTemplate
	if c.Matches(text) {
		tmpl = c.IntroTemplate
	}

	r := strings.NewReplacer(
		"{user}", "<@"+userID+">",
		"{text}", text,
	)
	return r.Replace(tmpl)
}
