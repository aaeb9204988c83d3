// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sampler

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/biogo/gat/internal/segment"
)

func TestSampleMassPreservation(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{100, 110}, {300, 320}})
	ws := segment.FromIntervals([]segment.Interval{{0, 1000}})
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		sample, complete := s.Sample(rng, segs, ws)
		if !complete {
			t.Fatalf("unexpected incomplete draw")
		}
		got := sample.AsLengths()
		want := segs.AsLengths()
		sort.Ints(got)
		sort.Ints(want)
		if len(got) != len(want) {
			t.Fatalf("length count mismatch: %v vs %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("AsLengths mismatch: %v vs %v", got, want)
			}
		}
	}
}

func TestSampleContainment(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{10, 20}, {30, 50}})
	ws := segment.FromIntervals([]segment.Interval{{0, 100}, {200, 300}})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		sample, complete := s.Sample(rng, segs, ws)
		if !complete {
			t.Fatalf("unexpected incomplete draw")
		}
		for _, iv := range sample.Intervals() {
			if !ws.Contains(iv) {
				t.Fatalf("sampled interval %v not contained in workspace", iv)
			}
		}
	}
}

func TestSampleNonOverlap(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{0, 4}, {5, 9}})
	ws := segment.FromIntervals([]segment.Interval{{0, 10}})
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 500; i++ {
		sample, complete := s.Sample(rng, segs, ws)
		if !complete {
			continue
		}
		before := append([]segment.Interval(nil), sample.Intervals()...)
		sample.Normalize()
		after := sample.Intervals()
		if len(before) != len(after) {
			t.Fatalf("sample was not already normalized: %v -> %v", before, after)
		}
	}
}

func TestSampleEnumeratesValidPlacements(t *testing.T) {
	// S3: workspace [0,10), two length-4 segments. Valid configurations
	// are pairs of starts from {0..6} that differ by at least 5, i.e.
	// disjoint, non-adjacent [s1,s1+4) and [s2,s2+4) inside [0,10).
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{0, 4}, {5, 9}})
	ws := segment.FromIntervals([]segment.Interval{{0, 10}})
	rng := rand.New(rand.NewSource(11))

	seen := make(map[[2]int]bool)
	for i := 0; i < 5000; i++ {
		sample, complete := s.Sample(rng, segs, ws)
		if !complete {
			continue
		}
		ivs := sample.Intervals()
		if len(ivs) != 2 {
			t.Fatalf("expected 2 intervals, got %v", ivs)
		}
		a, b := ivs[0].Start, ivs[1].Start
		seen[[2]int{a, b}] = true

		if ivs[1].Start < ivs[0].End {
			t.Fatalf("overlapping placement: %v", ivs)
		}
		if ivs[0].Start < 0 || ivs[1].End > 10 {
			t.Fatalf("placement out of bounds: %v", ivs)
		}
	}
	if len(seen) == 0 {
		t.Fatalf("no valid placements observed")
	}
}

func TestSampleInfeasibleWorkspaceReturnsEmpty(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{0, 900}, {1000, 1200}})
	ws := segment.FromIntervals([]segment.Interval{{0, 100}})
	rng := rand.New(rand.NewSource(1))

	sample, complete := s.Sample(rng, segs, ws)
	if complete {
		t.Fatalf("expected infeasible draw to be flagged incomplete")
	}
	if !sample.IsEmpty() {
		t.Fatalf("expected empty sample for infeasible workspace, got %v", sample.Intervals())
	}
}

func TestSampleEmptySegmentsReturnsEmpty(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.New()
	ws := segment.FromIntervals([]segment.Interval{{0, 100}})
	rng := rand.New(rand.NewSource(1))

	sample, complete := s.Sample(rng, segs, ws)
	if !complete || !sample.IsEmpty() {
		t.Fatalf("expected complete empty sample, got %v, %v", sample.Intervals(), complete)
	}
}

func TestSampleSingleComponentInterval(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{0, 5}, {10, 13}})
	ws := segment.FromIntervals([]segment.Interval{{0, 20}})
	rng := rand.New(rand.NewSource(1))

	sample, complete := s.Sample(rng, segs, ws)
	if !complete {
		t.Fatalf("unexpected incomplete draw")
	}
	if got, want := len(sample.AsLengths()), 2; got != want {
		t.Fatalf("expected %d intervals, got %d", want, got)
	}
}

func TestDeterminismUnderSeed(t *testing.T) {
	s := SegmentPreserving{}
	segs := segment.FromIntervals([]segment.Interval{{10, 30}, {50, 55}})
	ws := segment.FromIntervals([]segment.Interval{{0, 1000}})

	rng1 := rand.New(rand.NewSource(42))
	sample1, _ := s.Sample(rng1, segs, ws)

	rng2 := rand.New(rand.NewSource(42))
	sample2, _ := s.Sample(rng2, segs, ws)

	if got, want := sample1.Intervals(), sample2.Intervals(); len(got) != len(want) {
		t.Fatalf("non-deterministic sample count: %v vs %v", got, want)
	} else {
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("non-deterministic sample: %v vs %v", got, want)
			}
		}
	}
}
