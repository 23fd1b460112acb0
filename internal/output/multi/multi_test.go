package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/crimson-sun/knot/internal/model"
)

type recorder struct {
	events   []model.GroupedEvent
	writeErr error
	closed   bool
}

func (r *recorder) Write(_ context.Context, e model.GroupedEvent) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func TestWriteFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := New(a, b)
	if err := m.Write(context.Background(), model.GroupedEvent{Hash: "h"}); err != nil {
		t.Fatal(err)
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("fan-out failed: %d %d", len(a.events), len(b.events))
	}
}

func TestWriteContinuesPastFailure(t *testing.T) {
	bad := &recorder{writeErr: errors.New("down")}
	good := &recorder{}
	m := New(bad, good)
	err := m.Write(context.Background(), model.GroupedEvent{Hash: "h"})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(good.events) != 1 {
		t.Fatal("later output must still receive the event")
	}
}

func TestCloseAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := New(a, b)
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.closed || !b.closed {
		t.Fatal("all outputs must be closed")
	}
}
