// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workspace

import (
	"testing"

	"github.com/biogo/gat/internal/segment"
)

func TestUnconditionalPassesThrough(t *testing.T) {
	segs := segment.FromIntervals([]segment.Interval{{0, 10}})
	annos := segment.FromIntervals([]segment.Interval{{5, 15}})
	ws := segment.FromIntervals([]segment.Interval{{0, 100}})

	tr := Unconditional{}.Apply(segs, annos, ws)
	if tr.Workspace.Sum() != ws.Sum() {
		t.Fatalf("Unconditional changed workspace")
	}
}

func TestConditionalShrinksToEmptyWhenAnnotationOutsideSegments(t *testing.T) {
	segs := segment.FromIntervals([]segment.Interval{{0, 10}})
	annos := segment.FromIntervals([]segment.Interval{{500, 510}})
	ws := segment.FromIntervals([]segment.Interval{{0, 100}, {400, 600}})

	tr := Conditional{RequireAnnotation: true}.Apply(segs, annos, ws)
	if !tr.Workspace.IsEmpty() {
		t.Fatalf("expected empty conditional workspace, got %v", tr.Workspace.Intervals())
	}
}

func TestConditionalKeepsOccupiedComponents(t *testing.T) {
	segs := segment.FromIntervals([]segment.Interval{{5, 15}})
	ws := segment.FromIntervals([]segment.Interval{{0, 100}, {400, 600}})
	tr := Conditional{}.Apply(segs, nil, ws)
	if got, want := tr.Workspace.Intervals(), []segment.Interval{{0, 100}}; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("Conditional.Apply workspace = %v, want %v", got, want)
	}
}

func TestPaddedExtendsAroundSegments(t *testing.T) {
	segs := segment.FromIntervals([]segment.Interval{{50, 60}})
	ws := segment.FromIntervals([]segment.Interval{{0, 1000}})
	tr := Padded{Pad: 10}.Apply(segs, nil, ws)
	if got, want := tr.Workspace.Intervals(), []segment.Interval{{40, 70}}; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("Padded.Apply = %v, want %v", got, want)
	}
}

func TestSegmentOverlapKeepsTouchedAnnotations(t *testing.T) {
	segs := segment.FromIntervals([]segment.Interval{{0, 10}})
	annos := segment.FromIntervals([]segment.Interval{{5, 15}, {100, 110}})
	ws := segment.FromIntervals([]segment.Interval{{0, 1000}})
	tr := SegmentOverlap{}.Apply(segs, annos, ws)
	if got, want := tr.Workspace.Intervals(), []segment.Interval{{5, 15}}; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("SegmentOverlap.Apply = %v, want %v", got, want)
	}
}

func TestIsConditionalFlags(t *testing.T) {
	cases := []struct {
		g    Generator
		want bool
	}{
		{Unconditional{}, false},
		{Conditional{}, true},
		{Centered{Radius: 1}, false},
		{Padded{Pad: 1}, false},
		{SegmentOverlap{}, false},
	}
	for _, c := range cases {
		if got := c.g.IsConditional(); got != c.want {
			t.Fatalf("%T.IsConditional() = %v, want %v", c.g, got, c.want)
		}
	}
}
