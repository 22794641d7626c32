package splitter

import (
	"encoding/json"
	"testing"
)

func TestBoundaryText(t *testing.T) {
	for _, b := range []Boundary{FinalBoundary, ParagraphBoundary, SentenceBoundary, WordBoundary, ForcedBoundary} {
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		if want := `"` + b.String() + `"`; string(buf) != want {
			t.Errorf("invalid json, want %s, got %s", want, buf)
		}
		var got Boundary
		if err := json.Unmarshal(buf, &got); err != nil {
			t.Fatal(err)
		}
		if got != b {
			t.Errorf("invalid boundary, want %s, got %s", b, got)
		}
	}
	var b Boundary
	if err := b.UnmarshalText([]byte("comma")); err == nil {
		t.Error("want error for unknown boundary")
	}
}
