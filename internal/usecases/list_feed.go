package usecases

import (
	"context"

	"chirp/internal/domain"
	"chirp/pkg/log"
)

// IdentityResolver resolves opaque author ids into public profiles in one
// bulk call. Ids the provider does not know are absent from the result.
type IdentityResolver interface {
	ResolveMany(ctx context.Context, ids []string) (map[string]domain.AuthorProfile, error)
}

// DefaultFeedLimit is used when the caller does not ask for a specific
// number of entries. MaxFeedLimit caps any request.
const (
	DefaultFeedLimit = 100
	MaxFeedLimit     = 100
)

// ListFeedUseCase assembles the reverse-chronological feed.
type ListFeedUseCase struct {
	store    PostStore
	identity IdentityResolver
}

// NewListFeedUseCase creates a new ListFeedUseCase.
func NewListFeedUseCase(store PostStore, identity IdentityResolver) *ListFeedUseCase {
	return &ListFeedUseCase{
		store:    store,
		identity: identity,
	}
}

// Execute returns up to limit feed entries ordered by creation time
// descending. Every entry's author must resolve to a profile with a
// username; if any does not, the whole call fails with ErrAuthorNotFound.
// Serving a partial or anonymous feed is deliberately not supported.
func (uc *ListFeedUseCase) Execute(ctx context.Context, limit int) ([]domain.FeedEntry, error) {
	if limit <= 0 || limit > MaxFeedLimit {
		limit = DefaultFeedLimit
	}

	posts, err := uc.store.ListRecentDesc(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []domain.FeedEntry{}, nil
	}

	ids := distinctAuthorIDs(posts)
	profiles, err := uc.identity.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FeedEntry, 0, len(posts))
	for _, post := range posts {
		author, ok := profiles[post.AuthorID]
		if !ok || author.Username == "" {
			log.GlobalErrorCtx(ctx, "feed author unresolved", "post_id", post.ID, "author_id", post.AuthorID)
			return nil, domain.ErrAuthorNotFound
		}
		entries = append(entries, domain.FeedEntry{Post: post, Author: author})
	}

	return entries, nil
}

// Latest returns the single most recent post without the author join.
// Returns nil when the store is empty.
func (uc *ListFeedUseCase) Latest(ctx context.Context) (*domain.Post, error) {
	return uc.store.Latest(ctx)
}

// distinctAuthorIDs collects the unique author ids in post order.
func distinctAuthorIDs(posts []domain.Post) []string {
	seen := make(map[string]bool, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	return ids
}
