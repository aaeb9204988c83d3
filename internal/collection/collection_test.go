// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collection

import (
	"reflect"
	"testing"

	"github.com/biogo/gat/internal/segment"
)

func TestIsochoreRoundTrip(t *testing.T) {
	c := New()
	c.Add("segs", "chr1", segment.FromIntervals([]segment.Interval{{400, 600}}))

	isomap := map[string]*segment.List{
		"lo": segment.FromIntervals([]segment.Interval{{0, 500}}),
		"hi": segment.FromIntervals([]segment.Interval{{500, 1000}}),
	}

	expanded := c.ToIsochores(isomap)
	if got, want := expanded.Get("segs", IsochoreKey("chr1", "lo")).Intervals(),
		[]segment.Interval{{400, 500}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lo piece = %v, want %v", got, want)
	}
	if got, want := expanded.Get("segs", IsochoreKey("chr1", "hi")).Intervals(),
		[]segment.Interval{{500, 600}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("hi piece = %v, want %v", got, want)
	}

	collapsed := expanded.FromIsochores()
	if got, want := collapsed.Get("segs", "chr1").Intervals(),
		[]segment.Interval{{400, 600}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("round-trip = %v, want %v", got, want)
	}
}

func TestCloneIndependent(t *testing.T) {
	c := New()
	c.Add("segs", "chr1", segment.FromIntervals([]segment.Interval{{0, 10}}))
	clone := c.Clone()
	clone.Get("segs", "chr1").Add(100, 110)
	clone.Get("segs", "chr1").Normalize()
	if c.Get("segs", "chr1").Counts() != 1 {
		t.Fatalf("mutating clone affected original")
	}
}

func TestTracksAndKeysSorted(t *testing.T) {
	c := New()
	c.Add("b", "chr2", segment.New())
	c.Add("a", "chr1", segment.New())
	c.Add("a", "chr10", segment.New())
	if got, want := c.Tracks(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Tracks = %v, want %v", got, want)
	}
	if got, want := c.Keys("a"), []string{"chr1", "chr10"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
}
