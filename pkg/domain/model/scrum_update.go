package model

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// issueKeyPattern matches Jira issue keys such as PROJ-123 inside free text.
var issueKeyPattern = regexp.MustCompile(`[A-Z][A-Z0-9]*-\d+`)

// ScrumUpdate is one user's daily standup answers. At most one exists per
// (user, date); a second submission for the same day is a conflict.
type ScrumUpdate struct {
	ID        string
	UserID    types.UserID
	Date      types.Day
	Yesterday string
	Today     string
	Blockers  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewScrumUpdate builds an update for the given user and day.
func NewScrumUpdate(userID types.UserID, date types.Day, yesterday, today, blockers string) *ScrumUpdate {
	now := time.Now().UTC()
	return &ScrumUpdate{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Date:      date,
		Yesterday: yesterday,
		Today:     today,
		Blockers:  blockers,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *ScrumUpdate) Validate() error {
	if err := s.UserID.Validate(); err != nil {
		return err
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if s.Yesterday == "" && s.Today == "" && s.Blockers == "" {
		return goerr.New("scrum update has no content", goerr.T(types.ErrTagValidation))
	}
	return nil
}

// Body renders the three answers as the canonical standup text.
func (s *ScrumUpdate) Body() string {
	return fmt.Sprintf("Yesterday: %s\n\nToday: %s\n\nBlockers: %s",
		s.Yesterday, s.Today, s.Blockers)
}

// IssueKeys extracts the distinct issue keys mentioned anywhere in the
// update, in order of first appearance.
func (s *ScrumUpdate) IssueKeys() []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, field := range []string{s.Yesterday, s.Today, s.Blockers} {
		for _, key := range issueKeyPattern.FindAllString(field, -1) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
