package model

import (
	"github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// Envelope is the typed chat response. Every turn, including a failed
// operation, resolves to exactly one envelope.
type Envelope struct {
	Type         types.EnvelopeType `json:"type"`
	Content      string             `json:"content,omitempty"`
	Summary      string             `json:"summary,omitempty"`
	Suggestions  []string           `json:"suggestions,omitempty"`
	Issue        *jira.Issue        `json:"issue,omitempty"`
	Issues       []*jira.Issue      `json:"issues,omitempty"`
	Comment      *jira.Comment      `json:"comment,omitempty"`
	StatusUpdate *jira.StatusUpdate `json:"status_update,omitempty"`
	Statuses     []*jira.Status     `json:"statuses,omitempty"`
	Users        []*jira.User       `json:"users,omitempty"`
}

// NewTextEnvelope wraps plain conversational text.
func NewTextEnvelope(content string) *Envelope {
	return &Envelope{Type: types.EnvelopeText, Content: content}
}

// Text returns the most human-readable rendering of the envelope, used when
// persisting the assistant turn to conversation history.
func (e *Envelope) Text() string {
	if e == nil {
		return ""
	}
	if e.Summary != "" {
		return e.Summary
	}
	return e.Content
}
