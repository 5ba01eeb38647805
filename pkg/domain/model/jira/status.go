package jira

// Status is one workflow status of the tracker.
type Status struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Transition is one move an issue can make from its current status.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   string `json:"to,omitempty"`
}

// StatusUpdate reports a completed transition.
type StatusUpdate struct {
	IssueKey   string `json:"issue_key"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
}
