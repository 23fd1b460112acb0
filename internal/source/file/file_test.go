package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crimson-sun/knot/internal/source"
)

func writeEvents(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.ndjson")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetch(t *testing.T) {
	path := writeEvents(t, `{"message":{"formatted":"a"}}
{"message":{"formatted":"b"}}
`)
	s := &Source{}
	events, err := s.Fetch(context.Background(), source.Config{Path: path, Project: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Message.Formatted != "a" {
		t.Fatalf("event 0 = %+v", events[0])
	}
}

func TestFetchMissingFile(t *testing.T) {
	s := &Source{}
	if _, err := s.Fetch(context.Background(), source.Config{Path: "/no/such/file"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStream(t *testing.T) {
	path := writeEvents(t, `{"message":{"formatted":"a"}}
{"message":{"formatted":"b"}}
`)
	s := &Source{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := s.Stream(ctx, source.Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for ev := range ch {
		got = append(got, ev.Message.Formatted)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestRegistered(t *testing.T) {
	if _, err := source.Get("file"); err != nil {
		t.Fatal("file provider should self-register")
	}
}
