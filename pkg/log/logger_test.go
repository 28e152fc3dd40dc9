package log

import (
	"context"
	"sync"
	"testing"
)

// captureTransporter records every written entry.
type captureTransporter struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *captureTransporter) Name() string { return "capture" }

func (c *captureTransporter) Write(entry Entry) error {
	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) Close() error { return nil }

func (c *captureTransporter) all() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	sink := &captureTransporter{}
	logger := New(Warn, sink)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")

	entries := sink.all()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != Warn || entries[1].Level != Error {
		t.Errorf("levels: got %v %v", entries[0].Level, entries[1].Level)
	}
}

func TestLogger_WithCarriesBaseFields(t *testing.T) {
	sink := &captureTransporter{}
	logger := New(Info, sink).With("component", "web")

	logger.Info("hello", "path", "/rpc/post.getAll")

	entries := sink.all()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Fields["component"] != "web" {
		t.Errorf("base field missing: %v", entries[0].Fields)
	}
	if entries[0].Fields["path"] != "/rpc/post.getAll" {
		t.Errorf("call-site field missing: %v", entries[0].Fields)
	}
}

func TestLogger_CtxVariantsPullRequestID(t *testing.T) {
	sink := &captureTransporter{}
	logger := New(Info, sink)
	ctx := WithRequestID(context.Background(), "req-42")

	logger.InfoCtx(ctx, "handled")

	entries := sink.all()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].RequestID != "req-42" {
		t.Errorf("RequestID = %q, want req-42", entries[0].RequestID)
	}
}

func TestLogger_CtxFieldsMerged(t *testing.T) {
	sink := &captureTransporter{}
	logger := New(Info, sink)
	ctx := WithFields(context.Background(), "caller_id", "u1")

	logger.InfoCtx(ctx, "handled", "status", 200)

	entries := sink.all()
	if entries[0].Fields["caller_id"] != "u1" {
		t.Errorf("context field missing: %v", entries[0].Fields)
	}
	if entries[0].Fields["status"] != 200 {
		t.Errorf("call-site field missing: %v", entries[0].Fields)
	}
}

func TestDefault_UnsetIsSilent(t *testing.T) {
	SetDefault(nil)
	// Must not panic and must not emit.
	GlobalInfo("into the void")
	GlobalErrorCtx(context.Background(), "also silent")
}

func TestGlobal_UsesConfiguredLogger(t *testing.T) {
	sink := &captureTransporter{}
	SetDefault(New(Info, sink))
	defer SetDefault(nil)

	GlobalInfo("visible")

	if len(sink.all()) != 1 {
		t.Fatalf("global logger did not emit")
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	sink := &captureTransporter{}
	logger := New(Info, sink)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("concurrent")
		}()
	}
	wg.Wait()

	if len(sink.all()) != 20 {
		t.Errorf("got %d entries, want 20", len(sink.all()))
	}
}
