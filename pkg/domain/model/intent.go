package model

import "github.com/standup-lab/jirabot/pkg/domain/types"

// Intent is the classifier's verdict on one user message: either a call to
// one of the fixed operations, or a direct conversational reply.
type Intent struct {
	Operation types.Operation
	Args      map[string]any
	Reply     string
}

// NewCallIntent builds an intent that invokes an operation.
func NewCallIntent(op types.Operation, args map[string]any) *Intent {
	if args == nil {
		args = map[string]any{}
	}
	return &Intent{Operation: op, Args: args}
}

// NewReplyIntent builds an intent that answers the user directly.
func NewReplyIntent(text string) *Intent {
	return &Intent{Reply: text}
}

// IsCall tells whether the intent names an operation to dispatch.
func (i *Intent) IsCall() bool {
	return i != nil && i.Operation != types.OperationUnknown
}

// Arg returns the named string argument, or "" when absent or not a string.
func (i *Intent) Arg(name string) string {
	if i == nil || i.Args == nil {
		return ""
	}
	v, ok := i.Args[name].(string)
	if !ok {
		return ""
	}
	return v
}
