package output

import (
	"testing"

	"github.com/crimson-sun/knot/internal/model"
)

func TestParseVerbosity(t *testing.T) {
	cases := []struct {
		in   string
		want Verbosity
	}{
		{"minimal", Minimal},
		{"standard", Standard},
		{"full", Full},
		{"", Standard},
		{"bogus", Standard},
	}
	for _, c := range cases {
		if got := ParseVerbosity(c.in); got != c.want {
			t.Fatalf("ParseVerbosity(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatEventMinimalStripsFields(t *testing.T) {
	e := model.GroupedEvent{
		EventID: "e1", Project: "p", Key: []string{"a"}, Hash: "h",
		Origin: model.OriginDefault, AlgorithmVersion: 2, Summary: "boom",
	}
	got := FormatEvent(e, Minimal)
	if got.Summary != "" || got.Origin != "" || got.AlgorithmVersion != 0 {
		t.Fatalf("minimal did not strip: %+v", got)
	}
	if got.EventID != "e1" || got.Hash != "h" || len(got.Key) != 1 {
		t.Fatalf("minimal stripped too much: %+v", got)
	}
}

func TestFormatEventStandardKeepsFields(t *testing.T) {
	e := model.GroupedEvent{EventID: "e1", Summary: "boom", Origin: model.OriginClient}
	got := FormatEvent(e, Standard)
	if got.Summary != "boom" || got.Origin != model.OriginClient {
		t.Fatalf("standard must keep fields: %+v", got)
	}
}
