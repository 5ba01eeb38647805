package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

type scrumUpdateRepository struct {
	mu      sync.RWMutex
	updates map[types.UserID]map[types.Day]*model.ScrumUpdate
}

var _ interfaces.ScrumUpdateRepository = &scrumUpdateRepository{}

func newScrumUpdateRepository() *scrumUpdateRepository {
	return &scrumUpdateRepository{
		updates: make(map[types.UserID]map[types.Day]*model.ScrumUpdate),
	}
}

func (r *scrumUpdateRepository) CreateScrumUpdate(ctx context.Context, update *model.ScrumUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byDay, ok := r.updates[update.UserID]
	if !ok {
		byDay = make(map[types.Day]*model.ScrumUpdate)
		r.updates[update.UserID] = byDay
	}
	if _, exists := byDay[update.Date]; exists {
		return goerr.Wrap(ErrConflict, "scrum update already submitted",
			goerr.V("userID", update.UserID), goerr.V("date", update.Date))
	}

	updateCopy := *update
	byDay[update.Date] = &updateCopy
	return nil
}

func (r *scrumUpdateRepository) GetScrumUpdate(ctx context.Context, userID types.UserID, date types.Day) (*model.ScrumUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	update, ok := r.updates[userID][date]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "scrum update not found",
			goerr.V("userID", userID), goerr.V("date", date))
	}
	updateCopy := *update
	return &updateCopy, nil
}

func (r *scrumUpdateRepository) ListScrumUpdatesByDay(ctx context.Context, date types.Day) ([]*model.ScrumUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var updates []*model.ScrumUpdate
	for _, byDay := range r.updates {
		if update, ok := byDay[date]; ok {
			updateCopy := *update
			updates = append(updates, &updateCopy)
		}
	}
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].CreatedAt.Before(updates[j].CreatedAt)
	})
	return updates, nil
}

func (r *scrumUpdateRepository) ListScrumUpdatesByUser(ctx context.Context, userID types.UserID, limit int) ([]*model.ScrumUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var updates []*model.ScrumUpdate
	for _, update := range r.updates[userID] {
		updateCopy := *update
		updates = append(updates, &updateCopy)
	}
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].Date > updates[j].Date
	})
	if limit > 0 && len(updates) > limit {
		updates = updates[:limit]
	}
	return updates, nil
}
