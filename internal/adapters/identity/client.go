// Package identity resolves opaque author ids into public profiles via
// the external identity provider's bulk user endpoint.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"chirp/internal/domain"
)

// MaxBatchSize is the provider's cap on ids per bulk lookup.
const MaxBatchSize = 100

// Client calls the identity provider over HTTP with retries on transient
// failures.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// WithRetryMax overrides the number of retries on transient failures.
func WithRetryMax(n int) ClientOption {
	return func(c *Client) { c.http.RetryMax = n }
}

// NewClient creates an identity provider client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 2
	hc.RetryWaitMin = 100 * time.Millisecond
	hc.RetryWaitMax = 1 * time.Second
	hc.HTTPClient.Timeout = 10 * time.Second
	hc.Logger = nil

	c := &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// providerUser is the provider's wire representation of a user record.
type providerUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

type usersResponse struct {
	Data []providerUser `json:"data"`
}

// ResolveMany performs one bulk lookup for up to MaxBatchSize ids and
// returns a best-effort mapping. Ids the provider does not know are
// absent from the result; a failed call returns ErrUpstreamUnavailable.
func (c *Client) ResolveMany(ctx context.Context, ids []string) (map[string]domain.AuthorProfile, error) {
	if len(ids) == 0 {
		return map[string]domain.AuthorProfile{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("identity: batch of %d ids exceeds provider limit %d", len(ids), MaxBatchSize)
	}

	q := url.Values{}
	for _, id := range ids {
		q.Add("user_id", id)
	}
	q.Set("limit", strconv.Itoa(MaxBatchSize))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: identity provider: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: identity provider returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed usersResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: identity provider: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}

	profiles := make(map[string]domain.AuthorProfile, len(parsed.Data))
	for _, u := range parsed.Data {
		profiles[u.ID] = domain.AuthorProfile{
			ID:             u.ID,
			Username:       displayName(u),
			ProfilePicture: u.ImageURL,
		}
	}
	return profiles, nil
}

// displayName joins the provider's name fields. May be empty; the feed
// use case treats an empty username as an unresolved author.
func displayName(u providerUser) string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
