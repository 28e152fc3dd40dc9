package usecases

import (
	"context"
	"time"

	"chirp/internal/domain"
	"chirp/pkg/log"
)

// PostStore defines the persistence operations the service needs.
type PostStore interface {
	Insert(ctx context.Context, authorID, content string) (*domain.Post, error)
	ListRecentDesc(ctx context.Context, limit int) ([]domain.Post, error)
	Latest(ctx context.Context) (*domain.Post, error)
}

// Decision is the outcome of a rate-limit admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter admits or rejects an action for a subject. Implementations
// must record the action atomically with the check: two concurrent calls
// for a subject at its limit must not both be allowed.
type RateLimiter interface {
	Admit(ctx context.Context, subjectID string) (Decision, error)
}

// CreatePostUseCase validates, rate limits, and persists a new post.
type CreatePostUseCase struct {
	store   PostStore
	limiter RateLimiter
}

// NewCreatePostUseCase creates a new CreatePostUseCase.
func NewCreatePostUseCase(store PostStore, limiter RateLimiter) *CreatePostUseCase {
	return &CreatePostUseCase{
		store:   store,
		limiter: limiter,
	}
}

// Execute creates a post authored by callerID. Duplicate calls create
// duplicate posts; there is no dedup.
func (uc *CreatePostUseCase) Execute(ctx context.Context, callerID, content string) (*domain.Post, error) {
	if err := domain.ValidateContent(content); err != nil {
		return nil, err
	}

	dec, err := uc.limiter.Admit(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !dec.Allowed {
		log.GlobalWarnCtx(ctx, "create rejected by rate limit", "author_id", callerID, "retry_after", dec.RetryAfter.String())
		return nil, domain.ErrRateLimited
	}

	post, err := uc.store.Insert(ctx, callerID, content)
	if err != nil {
		return nil, err
	}

	log.GlobalDebugCtx(ctx, "post created", "post_id", post.ID, "author_id", callerID)
	return post, nil
}
