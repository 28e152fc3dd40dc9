package web

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"chirp/internal/usecases"
	"chirp/pkg/log"
)

// Handlers exposes the post procedures over HTTP.
type Handlers struct {
	createPost *usecases.CreatePostUseCase
	listFeed   *usecases.ListFeedUseCase
	retryAfter time.Duration
	maxFeed    int
}

// NewHandlers creates a new Handlers instance. retryAfter is the value
// advertised to throttled callers; maxFeed caps the feed limit parameter.
func NewHandlers(createPost *usecases.CreatePostUseCase, listFeed *usecases.ListFeedUseCase, retryAfter time.Duration, maxFeed int) *Handlers {
	if maxFeed <= 0 {
		maxFeed = usecases.MaxFeedLimit
	}
	return &Handlers{
		createPost: createPost,
		listFeed:   listFeed,
		retryAfter: retryAfter,
		maxFeed:    maxFeed,
	}
}

// GetAll handles post.getAll: the public feed, newest first, joined with
// author profiles.
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	limit := h.maxFeed
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > h.maxFeed {
			return failure(c, fiber.StatusBadRequest, rpcError{
				Code:    CodeBadRequest,
				Message: fmt.Sprintf("limit must be an integer between 1 and %d", h.maxFeed),
				Field:   "limit",
			})
		}
		limit = parsed
	}

	entries, err := h.listFeed.Execute(c.UserContext(), limit)
	if err != nil {
		return procedureError(c, err, h.retryAfter)
	}
	return result(c, entries)
}

// GetLatest handles post.getLatest: the single newest post, no author
// join. The result is null when nothing has been posted yet.
func (h *Handlers) GetLatest(c *fiber.Ctx) error {
	post, err := h.listFeed.Latest(c.UserContext())
	if err != nil {
		return procedureError(c, err, h.retryAfter)
	}
	return result(c, post)
}

type createRequest struct {
	Content string `json:"content"`
}

// Create handles post.create for an authenticated caller.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, rpcError{
			Code:    CodeBadRequest,
			Message: "request body must be JSON with a content field",
			Field:   "content",
		})
	}

	callerID := CallerID(c)
	post, err := h.createPost.Execute(c.UserContext(), callerID, req.Content)
	if err != nil {
		return procedureError(c, err, h.retryAfter)
	}

	log.GlobalInfoCtx(c.UserContext(), "post published", "post_id", post.ID, "author_id", callerID)
	return result(c, post)
}

// Health is the liveness endpoint.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
