package usecase

import (
	"context"
	"time"
)

// SetNowForTest overrides the clock used for token timestamps.
func (uc *AuthUseCase) SetNowForTest(now func() time.Time) {
	uc.now = now
}

// SetDispatchForTest replaces the async boundary, usually to run handlers
// synchronously.
func (uc *ScrumUseCase) SetDispatchForTest(dispatch func(ctx context.Context, handler func(ctx context.Context) error)) {
	uc.dispatch = dispatch
}
