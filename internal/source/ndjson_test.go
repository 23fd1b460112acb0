package source

import (
	"strings"
	"testing"
)

func TestDecodeEvents(t *testing.T) {
	in := `{"id":"e1","exception":{"type":"TypeError","value":"boom"}}

{"message":{"formatted":"hello"}}
`
	events, err := DecodeEvents(strings.NewReader(in), Config{Project: "proj"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != "e1" || events[0].Exception.Type != "TypeError" {
		t.Fatalf("event 0 = %+v", events[0])
	}
	// Missing identity is filled in at intake.
	if events[1].ID == "" {
		t.Fatal("expected generated event ID")
	}
	if events[1].Project != "proj" {
		t.Fatalf("project = %q", events[1].Project)
	}
	if events[1].Timestamp.IsZero() {
		t.Fatal("expected generated timestamp")
	}
}

func TestDecodeEventsFrames(t *testing.T) {
	in := `{"stacktrace":{"frames":[{"filename":"src/app.js","in_app":true,"family":"javascript"}]}}`
	events, err := DecodeEvents(strings.NewReader(in), Config{})
	if err != nil {
		t.Fatal(err)
	}
	fr := events[0].Stacktrace.Frames[0]
	if fr.Filename != "src/app.js" || fr.InApp == nil || !*fr.InApp {
		t.Fatalf("frame = %+v", fr)
	}
}

func TestDecodeEventsMalformedLine(t *testing.T) {
	in := "{\"id\":\"ok\"}\nnot json\n"
	_, err := DecodeEvents(strings.NewReader(in), Config{})
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 error, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	if _, err := Get("no-such-provider"); err == nil {
		t.Fatal("unknown provider must error")
	}
	Register("fake", func() Source { return nil })
	if _, err := Get("fake"); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, name := range Providers() {
		if name == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatal("Providers should list fake")
	}
}
