// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segment

import (
	"math/rand"
	"reflect"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func ivs(pairs ...int) []Interval {
	out := make([]Interval, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Interval{pairs[i], pairs[i+1]})
	}
	return out
}

func (s *S) TestNormalizeMergesOverlappingAndAdjacent(c *check.C) {
	l := FromIntervals(ivs(10, 20, 20, 30, 40, 50, 5, 12))
	c.Check(l.Intervals(), check.DeepEquals, ivs(5, 30, 40, 50))
}

func (s *S) TestNormalizeIdempotent(c *check.C) {
	l := FromIntervals(ivs(0, 10, 5, 15))
	first := append([]Interval(nil), l.Intervals()...)
	l.Normalize()
	c.Check(l.Intervals(), check.DeepEquals, first)
}

func (s *S) TestNormalizeDropsEmpty(c *check.C) {
	l := New()
	l.Add(5, 5)
	l.Add(0, 0)
	l.Add(1, 3)
	c.Check(l.Intervals(), check.DeepEquals, ivs(1, 3))
}

func TestAlgebraSumConservation(t *testing.T) {
	a := FromIntervals(ivs(0, 100, 200, 300))
	b := FromIntervals(ivs(50, 150, 250, 260))
	inter := a.Intersect(b)
	diff := a.Subtract(b)
	if got, want := inter.Sum()+diff.Sum(), a.Sum(); got != want {
		t.Fatalf("intersect.Sum()+subtract.Sum() = %d, want %d (a.Sum())", got, want)
	}
}

func TestOverlapWithMatchesIntersectSum(t *testing.T) {
	a := FromIntervals(ivs(0, 100, 200, 300))
	b := FromIntervals(ivs(50, 150, 250, 260))
	if got, want := a.OverlapWith(b), a.Intersect(b).Sum(); got != want {
		t.Fatalf("OverlapWith = %d, want %d", got, want)
	}
}

func TestAsLengths(t *testing.T) {
	l := FromIntervals(ivs(0, 10, 20, 25))
	if got, want := l.AsLengths(), []int{10, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AsLengths = %v, want %v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := FromIntervals(ivs(0, 10))
	b := a.Clone()
	b.Add(100, 110)
	b.Normalize()
	if a.Counts() != 1 {
		t.Fatalf("mutating clone affected original: %v", a.Intervals())
	}
}

func TestContainingInterval(t *testing.T) {
	l := FromIntervals(ivs(0, 100, 200, 300))
	iv, ok := l.ContainingInterval(250)
	if !ok || iv != (Interval{200, 300}) {
		t.Fatalf("ContainingInterval(250) = %v, %v", iv, ok)
	}
	if _, ok := l.ContainingInterval(150); ok {
		t.Fatalf("ContainingInterval(150) should miss the gap")
	}
}

func TestOverlapsRange(t *testing.T) {
	l := FromIntervals(ivs(0, 100, 200, 300))
	if !l.OverlapsRange(250, 260) {
		t.Fatalf("OverlapsRange(250,260) should hit [200,300)")
	}
	if !l.OverlapsRange(90, 210) {
		t.Fatalf("OverlapsRange(90,210) should hit both components")
	}
	if l.OverlapsRange(100, 200) {
		t.Fatalf("OverlapsRange(100,200) should miss the gap")
	}
	if l.OverlapsRange(5, 5) {
		t.Fatalf("an empty query range should never overlap")
	}
}

func TestSampleUniformPositionWithinStaysInside(t *testing.T) {
	l := FromIntervals(ivs(0, 10))
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		s, ok := l.SampleUniformPositionWithin(rng, 4)
		if !ok {
			t.Fatalf("expected a valid draw")
		}
		if s < 0 || s+4 > 10 {
			t.Fatalf("draw %d out of bounds for length 4 in [0,10)", s)
		}
	}
}

func TestSampleUniformPositionWithinFailsWhenTooLong(t *testing.T) {
	l := FromIntervals(ivs(0, 3))
	rng := rand.New(rand.NewSource(1))
	if _, ok := l.SampleUniformPositionWithin(rng, 4); ok {
		t.Fatalf("expected failure: no component long enough")
	}
}

func TestFilter(t *testing.T) {
	l := FromIntervals(ivs(0, 5, 10, 30, 40, 41))
	f := l.Filter(5, 20)
	if got, want := f.Intervals(), ivs(0, 5, 10, 30); !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
}

func TestShiftAndExtend(t *testing.T) {
	l := FromIntervals(ivs(10, 20))
	if got, want := l.Shift(5).Intervals(), ivs(15, 25); !reflect.DeepEqual(got, want) {
		t.Fatalf("Shift = %v, want %v", got, want)
	}
	if got, want := l.Extend(5, 5).Intervals(), ivs(5, 25); !reflect.DeepEqual(got, want) {
		t.Fatalf("Extend = %v, want %v", got, want)
	}
}
