package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when a caller exceeds the posting rate limit.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrAuthorNotFound is returned when a stored post references an author
	// the identity provider cannot resolve. This is an internal invariant
	// violation: the feed is never served with anonymous entries.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrUpstreamUnavailable is returned when the post store, the rate-limit
	// store, or the identity provider cannot be reached.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// ValidationError reports invalid caller input. Field names the offending
// request field so the API boundary can surface it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
