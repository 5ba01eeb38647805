package types

import "fmt"

// Operation is one entry of the fixed menu the intent classifier may pick
// from. The dispatcher resolves an Operation to a Jira call; anything else
// is rejected as OperationUnknown.
type Operation string

const (
	OperationGetUserIssues  Operation = "get_user_issues"
	OperationAddComment     Operation = "add_comment_to_issue"
	OperationUpdateStatus   Operation = "update_issue_status"
	OperationCreateIssue    Operation = "create_issue"
	OperationGetAllStatuses Operation = "get_all_statuses"
	OperationSearchUsers    Operation = "search_users"
	OperationUnknown        Operation = ""
)

// AllOperations returns the full dispatchable menu.
func AllOperations() []Operation {
	return []Operation{
		OperationGetUserIssues,
		OperationAddComment,
		OperationUpdateStatus,
		OperationCreateIssue,
		OperationGetAllStatuses,
		OperationSearchUsers,
	}
}

func (o Operation) IsValid() bool {
	switch o {
	case OperationGetUserIssues,
		OperationAddComment,
		OperationUpdateStatus,
		OperationCreateIssue,
		OperationGetAllStatuses,
		OperationSearchUsers:
		return true
	default:
		return false
	}
}

func (o Operation) String() string {
	return string(o)
}

// ParseOperation maps a classifier-provided name to an Operation.
// Unrecognized names return OperationUnknown with an error so the caller
// can answer "couldn't handle that" instead of failing the turn.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.IsValid() {
		return OperationUnknown, fmt.Errorf("unknown operation: %s", s)
	}
	return op, nil
}
