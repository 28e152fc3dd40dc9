// Package postgres persists posts in the external relational store.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chirp/internal/domain"
)

// NewPool creates a pgx connection pool for the posts database.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	cfg.MaxConns = 10
	// Cache prepared statements per connection; both queries here are hot.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return pool, nil
}

// Store implements usecases.PostStore on top of Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store using the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert persists a new post. The id is generated here; created_at is
// assigned by the database so feed order follows the store's clock.
func (s *Store) Insert(ctx context.Context, authorID, content string) (*domain.Post, error) {
	post := domain.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  content,
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (id, author_id, content, created_at)
		 VALUES ($1, $2, $3, now())
		 RETURNING created_at`,
		post.ID, post.AuthorID, post.Content,
	).Scan(&post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert post: %v", domain.ErrUpstreamUnavailable, err)
	}
	return &post, nil
}

// ListRecentDesc returns up to limit posts, newest first.
func (s *Store) ListRecentDesc(ctx context.Context, limit int) ([]domain.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0, limit)
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan post: %v", domain.ErrUpstreamUnavailable, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", domain.ErrUpstreamUnavailable, err)
	}
	return posts, nil
}

// Latest returns the single newest post, or nil when the table is empty.
func (s *Store) Latest(ctx context.Context) (*domain.Post, error) {
	var p domain.Post
	err := s.pool.QueryRow(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 ORDER BY created_at DESC
		 LIMIT 1`,
	).Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest post: %v", domain.ErrUpstreamUnavailable, err)
	}
	return &p, nil
}
