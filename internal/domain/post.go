// Package domain contains the core business entities and rules.
package domain

import "time"

// Post represents a single emoji micro-post.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorProfile is a lightweight projection of an external identity
// record. It is resolved at read time and never persisted here.
type AuthorProfile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// FeedEntry pairs a post with its resolved author profile.
type FeedEntry struct {
	Post   Post          `json:"post"`
	Author AuthorProfile `json:"author"`
}
