package document

import (
	"errors"
	"math"
	"testing"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	d, err := New(200, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l := NewLayer("l1", "Layer 1")
	l.Strokes = append(l.Strokes, Stroke{
		ID:      "s1",
		Points:  []Point{{1, 2}, {3, 4}, {5, 6}},
		Color:   Color{255, 0, 0, 255},
		Width:   3,
		Tool:    ToolPen,
		Opacity: 1,
	})
	d.Layers = append(d.Layers, l)
	d.Texts = append(d.Texts, TextElement{ID: "t1", Position: Point{10, 20}, Text: "hi", TextStyle: TextStyle{FontSize: 12, Color: Black, FontFamily: "sans"}})
	return d
}

func TestNewRejectsBadSize(t *testing.T) {
	for _, tc := range []struct{ w, h float64 }{{0, 10}, {10, -1}, {math.NaN(), 5}, {math.Inf(1), 5}} {
		if _, err := New(tc.w, tc.h); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%v, %v): expected ErrInvalidSize, got %v", tc.w, tc.h, err)
		}
	}
}

func TestSnapshotDoesNotAliasDocument(t *testing.T) {
	d := sampleDocument(t)
	snap := d.Snapshot()

	d.Layers[0].Strokes[0].Points[0] = Point{99, 99}
	d.Layers[0].Strokes = append(d.Layers[0].Strokes, Stroke{ID: "s2"})
	d.Layers[0].Visible = false
	d.Texts[0].Text = "changed"

	l, ok := snap.Layer("l1")
	if !ok {
		t.Fatal("expected layer l1 in snapshot")
	}
	if got := l.Strokes[0].Points[0]; got != (Point{1, 2}) {
		t.Fatalf("snapshot point changed to %v", got)
	}
	if len(l.Strokes) != 1 || !l.Visible {
		t.Fatalf("snapshot layer mutated: %+v", l)
	}
	if snap.Texts[0].Text != "hi" {
		t.Fatalf("snapshot text mutated: %q", snap.Texts[0].Text)
	}
}

func TestRestoreCopiesSnapshot(t *testing.T) {
	d := sampleDocument(t)
	snap := d.Snapshot()
	d.Layers = nil
	d.Texts = nil

	d.Restore(snap)
	if !d.Snapshot().Equal(snap) {
		t.Fatal("restored document differs from snapshot")
	}
	d.Layers[0].Strokes[0].Points[1] = Point{}
	if snap.Layers[0].Strokes[0].Points[1] != (Point{3, 4}) {
		t.Fatal("restore aliased the snapshot's points")
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := sampleDocument(t).Snapshot()
	b := sampleDocument(t).Snapshot()
	if !a.Equal(b) {
		t.Fatal("identical snapshots compare unequal")
	}
	b.Layers[0].Strokes[0].Points[2].X = 5.5
	if a.Equal(b) {
		t.Fatal("differing point sequences compare equal")
	}
	c := sampleDocument(t).Snapshot()
	c.Layers[0].Opacity = 0.5
	if a.Equal(c) {
		t.Fatal("differing layer opacity compares equal")
	}
}

func TestElementsDrawOrder(t *testing.T) {
	d := sampleDocument(t)
	top := NewLayer("l2", "Layer 2")
	top.Strokes = []Stroke{{ID: "s2", Points: []Point{{0, 0}, {1, 1}}, Width: 1}}
	d.Layers = append(d.Layers, top)

	var ids []string
	for _, e := range d.Elements() {
		ids = append(ids, e.ElementID())
	}
	want := []string{"s1", "s2", "t1"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
	if _, ok := d.Elements()[2].(TextElement); !ok {
		t.Fatal("expected the last element to be text")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", Color{255, 0, 0, 255}},
		{"#00ff0080", Color{0, 255, 0, 128}},
		{"red", Color{255, 0, 0, 255}},
		{" Navy ", Color{0, 0, 128, 255}},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#12", "nocolor", "#GGGGGG"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q): expected error", bad)
		}
	}
	if got := (Color{1, 2, 3, 4}).Hex(); got != "#01020304" {
		t.Errorf("Hex = %s", got)
	}
}

func TestToolKindText(t *testing.T) {
	for _, k := range []ToolKind{ToolPen, ToolEraser, ToolHighlighter} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", k, err)
		}
		var back ToolKind
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if back != k {
			t.Errorf("round trip %v -> %v", k, back)
		}
	}
	if _, err := ParseToolKind("brush"); err == nil {
		t.Error("expected error for unknown tool")
	}
	if ToolKind(9).Valid() {
		t.Error("ToolKind(9) reported valid")
	}
}
