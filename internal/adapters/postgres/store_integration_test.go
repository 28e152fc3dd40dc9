//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a disposable Postgres with the posts
// schema applied and returns a connected pool.
func setupPostgresContainer(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "chirp",
			"POSTGRES_PASSWORD": "chirp",
			"POSTGRES_DB":       "chirp",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://chirp:chirp@%s:%s/chirp?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("schema.sql")
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return pool
}

func TestStore_InsertAndListRoundTrip(t *testing.T) {
	pool := setupPostgresContainer(t)
	store := NewStore(pool)
	ctx := context.Background()

	created, err := store.Insert(ctx, "u1", "👍")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("insert returned empty id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("insert returned zero created_at")
	}

	posts, err := store.ListRecentDesc(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].ID != created.ID || posts[0].Content != "👍" || posts[0].AuthorID != "u1" {
		t.Errorf("round trip mismatch: %+v", posts[0])
	}
}

func TestStore_ListRecentDescOrderAndLimit(t *testing.T) {
	pool := setupPostgresContainer(t)
	store := NewStore(pool)
	ctx := context.Background()

	for i, content := range []string{"1️⃣", "2️⃣", "3️⃣"} {
		if _, err := store.Insert(ctx, fmt.Sprintf("u%d", i), content); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	posts, err := store.ListRecentDesc(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Content != "3️⃣" || posts[1].Content != "2️⃣" {
		t.Errorf("order: got [%s %s], want [3️⃣ 2️⃣]", posts[0].Content, posts[1].Content)
	}
	if posts[1].CreatedAt.After(posts[0].CreatedAt) {
		t.Error("posts not ordered by created_at desc")
	}
}

func TestStore_LatestEmptyTable(t *testing.T) {
	pool := setupPostgresContainer(t)
	store := NewStore(pool)

	post, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if post != nil {
		t.Errorf("expected nil for empty table, got %+v", post)
	}
}

func TestStore_LatestReturnsNewest(t *testing.T) {
	pool := setupPostgresContainer(t)
	store := NewStore(pool)
	ctx := context.Background()

	_, _ = store.Insert(ctx, "u1", "👍")
	time.Sleep(10 * time.Millisecond)
	newest, _ := store.Insert(ctx, "u2", "🎉")

	got, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if got == nil || got.ID != newest.ID {
		t.Errorf("latest: got %+v, want id %s", got, newest.ID)
	}
}
