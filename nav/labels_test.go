package nav

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLabels_Set(t *testing.T) {
	var l Labels
	l.Set("b", "B")
	l.Set("a", "A")
	l.Set("b", "B2")

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if got := strings.Join(l.Keys(), ","); got != "b,a" {
		t.Errorf("Keys() = %s, want b,a", got)
	}
	if got, ok := l.Get("b"); !ok || got != "B2" {
		t.Errorf("Get(b) = %q, %v", got, ok)
	}
	if _, ok := l.Get("c"); ok {
		t.Error("Get(c) should not be found")
	}
}

func TestLabels_KeysIsCopy(t *testing.T) {
	l := NewLabels(1)
	l.Set("a", "A")
	keys := l.Keys()
	keys[0] = "changed"
	if got := l.Keys()[0]; got != "a" {
		t.Errorf("Keys() exposes internal state, got %q", got)
	}
}

func TestLabels_AllStopsEarly(t *testing.T) {
	l := NewLabels(3)
	l.Set("a", "A")
	l.Set("b", "B")
	l.Set("c", "C")

	var seen []string
	for k := range l.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	if got := strings.Join(seen, ","); got != "a,b" {
		t.Errorf("All() yielded %s, want a,b", got)
	}
}

func TestLabels_Nil(t *testing.T) {
	var l *Labels
	if l.Len() != 0 || l.Keys() != nil || len(l.Entries()) != 0 {
		t.Error("nil Labels should be empty")
	}
	if _, ok := l.Get("a"); ok {
		t.Error("nil Labels Get() should not find anything")
	}
	if !l.Equal(NewLabels(0)) {
		t.Error("nil Labels should equal empty Labels")
	}
}

func TestLabels_Equal(t *testing.T) {
	a := NewLabels(2)
	a.Set("x", "1")
	a.Set("y", "2")

	b := NewLabels(2)
	b.Set("x", "1")
	b.Set("y", "2")
	if !a.Equal(b) {
		t.Error("identical Labels are not equal")
	}

	reordered := NewLabels(2)
	reordered.Set("y", "2")
	reordered.Set("x", "1")
	if a.Equal(reordered) {
		t.Error("Labels with different order are equal")
	}

	changed := NewLabels(2)
	changed.Set("x", "1")
	changed.Set("y", "3")
	if a.Equal(changed) {
		t.Error("Labels with different values are equal")
	}

	if a.Equal(NewLabels(0)) {
		t.Error("Labels with different length are equal")
	}
}

func TestLabels_MarshalJSON(t *testing.T) {
	l := NewLabels(3)
	l.Set("zeta", "1.1: Z")
	l.Set("alpha", `1.2: "quoted" <tag>`)
	l.Set("mid", "1.3: M")

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	// encoding/json escapes HTML characters
	want := `{"zeta":"1.1: Z","alpha":"1.2: \"quoted\" \u003ctag\u003e","mid":"1.3: M"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back map[string]string
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back["alpha"] != `1.2: "quoted" <tag>` {
		t.Errorf("round trip alpha = %q", back["alpha"])
	}

	data, err = json.Marshal(NewLabels(0))
	if err != nil {
		t.Fatalf("Marshal(empty) error = %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Marshal(empty) = %s, want {}", data)
	}
}
