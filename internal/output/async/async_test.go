package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/crimson-sun/knot/internal/model"
)

type recorder struct {
	mu       sync.Mutex
	events   []model.GroupedEvent
	writeErr error
	closed   bool
	slow     time.Duration
}

func (r *recorder) Write(_ context.Context, e model.GroupedEvent) error {
	if r.slow > 0 {
		time.Sleep(r.slow)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestWritesReachInnerOutput(t *testing.T) {
	inner := &recorder{}
	a := New(inner)
	for i := 0; i < 5; i++ {
		if err := a.Write(context.Background(), model.GroupedEvent{Hash: "h"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if inner.count() != 5 {
		t.Fatalf("expected 5 events, got %d", inner.count())
	}
	if !inner.closed {
		t.Fatal("inner output must be closed")
	}
}

func TestErrorsGoToCallback(t *testing.T) {
	inner := &recorder{writeErr: errors.New("down")}
	var mu sync.Mutex
	var got []error
	a := New(inner, WithOnError(func(err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	}))
	a.Write(context.Background(), model.GroupedEvent{})
	a.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 callback error, got %d", len(got))
	}
}

func TestDropOnFull(t *testing.T) {
	inner := &recorder{slow: 50 * time.Millisecond}
	a := New(inner, WithBufferSize(1), WithDropOnFull())
	// Flood well past the buffer; Write must never block.
	start := time.Now()
	for i := 0; i < 10; i++ {
		a.Write(context.Background(), model.GroupedEvent{})
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Fatal("drop-on-full write should not block")
	}
	a.Close()
	if inner.count() >= 10 {
		t.Fatal("expected some events dropped")
	}
}

func TestCloseIdempotent(t *testing.T) {
	a := New(&recorder{})
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}
