package usecase

import (
	"context"
	"fmt"
	"sync"

	"youtube-analytics/domain/dto"
	"youtube-analytics/domain/model"
	"youtube-analytics/domain/repository"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/infrastructure/utils"
)

// Search task states. The task moves Idle -> Validating -> Searching ->
// Enriching and finishes in exactly one of Completed, Failed or Cancelled.
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateSearching  = "searching"
	StateEnriching  = "enriching"
	StateCompleted  = "completed"
	StateFailed     = "failed"
	StateCancelled  = "cancelled"
)

// SearchCallbacks receives task lifecycle events. Any field may be nil.
// Exactly one of the three terminal callbacks fires per started search,
// and nothing fires after OnCancelled.
type SearchCallbacks struct {
	OnProgress  func(progress int, message string)
	OnCompleted func(videos []model.Video, saved int)
	OnFailed    func(message string)
	OnCancelled func()
}

// ISearchUsecase orchestrates one background search at a time.
type ISearchUsecase interface {
	Start(ctx context.Context, criteria dto.SearchCriteria, cb SearchCallbacks) error
	Cancel()
	Status() dto.SearchStatusResponse
	Results() []model.Video
	QuotaSnapshot() model.QuotaUsage
}

type SearchUsecase struct {
	client repository.ISearchClient
	store  repository.IVideoStore

	mu        sync.Mutex
	state     string
	progress  int
	keyword   string
	message   string
	results   []model.Video
	cancelled bool
	cancel    context.CancelFunc
}

func NewSearchUsecase(client repository.ISearchClient, store repository.IVideoStore) ISearchUsecase {
	return &SearchUsecase{
		client: client,
		store:  store,
		state:  StateIdle,
	}
}

// Start launches the search in a background goroutine. It returns an error
// without side effects when another search is still in flight or when the
// keyword is rejected up front.
func (u *SearchUsecase) Start(ctx context.Context, criteria dto.SearchCriteria, cb SearchCallbacks) error {
	u.mu.Lock()
	if u.running() {
		u.mu.Unlock()
		return fmt.Errorf("a search is already in progress")
	}
	if !utils.IsValidKeyword(criteria.Keyword) {
		// Fail fast through the state machine so observers see the reason.
		message := fmt.Sprintf("invalid keyword: %q", criteria.Keyword)
		u.state = StateFailed
		u.progress = 0
		u.keyword = criteria.Keyword
		u.message = message
		u.mu.Unlock()

		logger.GetLogger().WithField("keyword", criteria.Keyword).Error("Search rejected: invalid keyword")
		if cb.OnFailed != nil {
			cb.OnFailed(message)
		}
		return fmt.Errorf("invalid keyword: %q", criteria.Keyword)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	u.state = StateValidating
	u.progress = 0
	u.keyword = criteria.Keyword
	u.message = ""
	u.results = nil
	u.cancelled = false
	u.cancel = cancel
	u.mu.Unlock()

	go u.run(taskCtx, criteria, cb)
	return nil
}

// Cancel requests cooperative cancellation. Safe to call at any time; a
// no-op when nothing is running.
func (u *SearchUsecase) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.running() {
		return
	}
	u.cancelled = true
	if u.cancel != nil {
		u.cancel()
	}
	logger.GetLogger().WithField("keyword", u.keyword).Info("Search cancellation requested")
}

// Status returns a snapshot of the task state.
func (u *SearchUsecase) Status() dto.SearchStatusResponse {
	u.mu.Lock()
	defer u.mu.Unlock()
	return dto.SearchStatusResponse{
		State:    u.state,
		Progress: u.progress,
		Keyword:  u.keyword,
		Message:  u.message,
	}
}

// Results returns the outcome of the most recent completed search.
func (u *SearchUsecase) Results() []model.Video {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]model.Video, len(u.results))
	copy(out, u.results)
	return out
}

func (u *SearchUsecase) QuotaSnapshot() model.QuotaUsage {
	return u.client.QuotaSnapshot()
}

// running reports whether the task is in a non-terminal state. Callers must
// hold u.mu.
func (u *SearchUsecase) running() bool {
	switch u.state {
	case StateValidating, StateSearching, StateEnriching:
		return true
	}
	return false
}

func (u *SearchUsecase) run(ctx context.Context, criteria dto.SearchCriteria, cb SearchCallbacks) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().WithField("panic", r).Error("Search task panicked")
			u.fail(cb, fmt.Sprintf("internal error: %v", r))
		}
	}()

	u.report(cb, StateValidating, 10, "Validating API credential")
	if !u.client.ValidateCredential(ctx) {
		if u.wasCancelled() {
			u.finishCancelled(cb)
			return
		}
		u.fail(cb, "API credential validation failed")
		return
	}
	if u.wasCancelled() {
		u.finishCancelled(cb)
		return
	}

	u.report(cb, StateSearching, 20, fmt.Sprintf("Searching for %q", criteria.Keyword))
	videos := u.client.Search(ctx, criteria)
	if u.wasCancelled() {
		u.finishCancelled(cb)
		return
	}

	u.report(cb, StateEnriching, 80, fmt.Sprintf("Saving %d videos", len(videos)))
	saved, err := u.store.SaveVideosBatch(ctx, videos)
	if err != nil {
		// A store failure never discards the fetched results; the run still
		// completes with a saved count of zero.
		logger.GetLogger().WithField("error", err).Error("Failed to save results")
		saved = 0
	}

	u.report(cb, StateEnriching, 90, "Recording search history")
	if err := u.store.AddSearchHistory(ctx, criteria.Keyword, len(videos)); err != nil {
		// History is advisory; the search still completes.
		logger.GetLogger().WithField("error", err).Warn("Failed to record search history")
	}

	u.mu.Lock()
	if u.cancelled {
		u.mu.Unlock()
		u.finishCancelled(cb)
		return
	}
	message := fmt.Sprintf("Found %d videos, saved %d", len(videos), saved)
	u.state = StateCompleted
	u.progress = 100
	u.message = message
	u.results = videos
	u.cancel = nil
	u.mu.Unlock()

	logger.GetLogger().WithFields(map[string]interface{}{
		"keyword": criteria.Keyword,
		"found":   len(videos),
		"saved":   saved,
	}).Info("Search completed")
	if cb.OnProgress != nil {
		cb.OnProgress(100, message)
	}
	if cb.OnCompleted != nil {
		cb.OnCompleted(videos, saved)
	}
}

func (u *SearchUsecase) report(cb SearchCallbacks, state string, progress int, message string) {
	u.mu.Lock()
	if u.cancelled {
		u.mu.Unlock()
		return
	}
	u.state = state
	u.progress = progress
	u.message = message
	u.mu.Unlock()

	if cb.OnProgress != nil {
		cb.OnProgress(progress, message)
	}
}

func (u *SearchUsecase) wasCancelled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.cancelled
}

func (u *SearchUsecase) fail(cb SearchCallbacks, message string) {
	u.mu.Lock()
	if u.state == StateFailed || u.state == StateCancelled || u.state == StateCompleted {
		u.mu.Unlock()
		return
	}
	u.state = StateFailed
	u.message = message
	u.cancel = nil
	u.mu.Unlock()

	logger.GetLogger().WithField("message", message).Error("Search failed")
	if cb.OnFailed != nil {
		cb.OnFailed(message)
	}
}

func (u *SearchUsecase) finishCancelled(cb SearchCallbacks) {
	u.mu.Lock()
	if u.state == StateCancelled {
		u.mu.Unlock()
		return
	}
	u.state = StateCancelled
	u.message = "Search cancelled"
	u.cancel = nil
	u.mu.Unlock()

	logger.GetLogger().WithField("keyword", u.keyword).Info("Search cancelled")
	if cb.OnCancelled != nil {
		cb.OnCancelled()
	}
}
