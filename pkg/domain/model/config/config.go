package config

import (
	"fmt"
	"strings"
	"time"
)

const defaultGreeting = "Hi %s! Here are the top 3 things I can help you with today:"

// DefaultHistoryLimit bounds how much conversation history the classifier
// replays per turn.
const DefaultHistoryLimit = 10

func defaultSuggestions() []string {
	return []string{
		"Update the status of one of your issues",
		"Summarize your assigned tickets",
		"Add a comment to an issue",
	}
}

// AppConfig carries tunable chat behavior. Fields left empty fall back to
// built-in defaults at read time, so a nil or partial config is always
// usable.
type AppConfig struct {
	GreetingMessage   string
	Suggestions       []string
	HistoryLimit      int
	Timezone          *time.Location
	DefaultProjectKey string
}

// Default returns an AppConfig with every built-in default applied.
func Default() *AppConfig {
	return &AppConfig{
		GreetingMessage: defaultGreeting,
		Suggestions:     defaultSuggestions(),
		HistoryLimit:    DefaultHistoryLimit,
		Timezone:        time.UTC,
	}
}

// Greeting renders the greeting line for the given display name. A custom
// message without a %s placeholder is used verbatim.
func (c *AppConfig) Greeting(name string) string {
	msg := defaultGreeting
	if c != nil && c.GreetingMessage != "" {
		msg = c.GreetingMessage
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, name)
	}
	return msg
}

// SuggestionList returns the configured suggestions, falling back to the
// defaults.
func (c *AppConfig) SuggestionList() []string {
	if c == nil || len(c.Suggestions) == 0 {
		return defaultSuggestions()
	}
	return c.Suggestions
}

// History returns the conversation history limit.
func (c *AppConfig) History() int {
	if c == nil || c.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return c.HistoryLimit
}

// Location returns the timezone used to determine "today" for standup
// updates.
func (c *AppConfig) Location() *time.Location {
	if c == nil || c.Timezone == nil {
		return time.UTC
	}
	return c.Timezone
}

// ProjectKey returns the default project for created issues. Empty means
// the classifier must supply one.
func (c *AppConfig) ProjectKey() string {
	if c == nil {
		return ""
	}
	return c.DefaultProjectKey
}
