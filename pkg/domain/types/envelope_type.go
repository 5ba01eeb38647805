package types

// EnvelopeType tags the chat response envelope with the category of payload
// it carries.
type EnvelopeType string

const (
	EnvelopeText         EnvelopeType = "text"
	EnvelopeIssueList    EnvelopeType = "issue_list"
	EnvelopeComment      EnvelopeType = "comment"
	EnvelopeStatusUpdate EnvelopeType = "status_update"
	EnvelopeNewIssue     EnvelopeType = "new_issue"
	EnvelopeStatusList   EnvelopeType = "status_list"
	EnvelopeUserList     EnvelopeType = "user_list"
)

func (t EnvelopeType) String() string {
	return string(t)
}
