package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/knot/internal/model"
)

// maxLineBytes bounds one NDJSON record; minified JS context lines make
// events large but not unbounded.
const maxLineBytes = 4 * 1024 * 1024

// DecodeEvents reads NDJSON events from r, skipping blank lines. Events
// without an ID get a fresh UUID; events without a project get cfg.Project.
// A malformed line fails the whole read with its 1-based line number.
func DecodeEvents(r io.Reader, cfg Config) ([]model.Event, error) {
	var events []model.Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ev, err := decodeEvent([]byte(line), cfg)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

func decodeEvent(data []byte, cfg Config) (model.Event, error) {
	var ev model.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return model.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Project == "" {
		ev.Project = cfg.Project
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	return ev, nil
}

// StreamReader runs the shared line-by-line streaming loop for providers.
// It closes ch when the reader is exhausted, fails, or done fires.
func StreamReader(done <-chan struct{}, r io.Reader, cfg Config, ch chan<- model.Event) error {
	defer close(ch)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ev, err := decodeEvent([]byte(line), cfg)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineno, err)
		}
		select {
		case ch <- ev:
		case <-done:
			return nil
		}
	}
	return sc.Err()
}
