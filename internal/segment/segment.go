// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package segment implements the interval algebra on sorted,
// non-overlapping collections of half-open genomic intervals that
// underlies gat's sampling and counting engine.
package segment

import (
	"math/rand"
	"sort"

	"github.com/biogo/store/interval"
)

// Interval is a half-open position range [Start, End) on a contig.
type Interval struct {
	Start, End int
}

// Len returns the length of the interval in bases.
func (iv Interval) Len() int { return iv.End - iv.Start }

// List is an ordered collection of half-open intervals on a single
// contig or isochore. A List is normalized when its intervals are
// sorted by Start, pairwise non-overlapping, non-adjacent and
// non-empty. Mutating methods mark the list dirty; normalization is
// deferred to the next read.
type List struct {
	ivs   []Interval
	dirty bool
	tree  *interval.IntTree
}

// New returns an empty, normalized List.
func New() *List { return &List{} }

// FromIntervals builds a List from the given intervals, normalizing
// them immediately.
func FromIntervals(ivs []Interval) *List {
	l := &List{ivs: append([]Interval(nil), ivs...), dirty: true}
	l.Normalize()
	return l
}

// Add appends an interval. Normalization is deferred.
func (l *List) Add(start, end int) {
	if end <= start {
		return
	}
	l.ivs = append(l.ivs, Interval{start, end})
	l.dirty = true
	l.tree = nil
}

// AddInterval appends iv. Normalization is deferred.
func (l *List) AddInterval(iv Interval) { l.Add(iv.Start, iv.End) }

// Normalize sorts, merges overlapping or adjacent intervals and drops
// empty ones. It is idempotent.
func (l *List) Normalize() {
	if !l.dirty {
		return
	}
	sort.Slice(l.ivs, func(i, j int) bool { return l.ivs[i].Start < l.ivs[j].Start })

	out := l.ivs[:0]
	for _, iv := range l.ivs {
		if iv.Len() <= 0 {
			continue
		}
		if n := len(out); n > 0 && iv.Start <= out[n-1].End {
			if iv.End > out[n-1].End {
				out[n-1].End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	l.ivs = out
	l.dirty = false
	l.tree = nil
}

// ensure normalizes on first read, per the invariant in spec.md §3.
func (l *List) ensure() {
	if l.dirty {
		l.Normalize()
	}
}

// Intervals returns the normalized, ordered intervals. The returned
// slice must not be mutated by the caller.
func (l *List) Intervals() []Interval {
	l.ensure()
	return l.ivs
}

// Counts returns the number of intervals.
func (l *List) Counts() int {
	l.ensure()
	return len(l.ivs)
}

// Sum returns the total covered length.
func (l *List) Sum() int {
	l.ensure()
	total := 0
	for _, iv := range l.ivs {
		total += iv.Len()
	}
	return total
}

// IsEmpty reports whether the list has no intervals.
func (l *List) IsEmpty() bool { return l.Counts() == 0 }

// AsLengths returns the length multiset of the list, in list order.
func (l *List) AsLengths() []int {
	l.ensure()
	out := make([]int, len(l.ivs))
	for i, iv := range l.ivs {
		out[i] = iv.Len()
	}
	return out
}

// Clone returns a deep copy.
func (l *List) Clone() *List {
	l.ensure()
	return &List{ivs: append([]Interval(nil), l.ivs...)}
}

// Intersect returns the intersection of l and other: the classical
// merge of two sorted, non-overlapping interval lists, O(n+m).
func (l *List) Intersect(other *List) *List {
	l.ensure()
	other.ensure()
	out := New()
	i, j := 0, 0
	a, b := l.ivs, other.ivs
	for i < len(a) && j < len(b) {
		start := max(a[i].Start, b[j].Start)
		end := min(a[i].End, b[j].End)
		if start < end {
			out.Add(start, end)
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	out.Normalize()
	return out
}

// Subtract returns l with every position in other removed.
func (l *List) Subtract(other *List) *List {
	l.ensure()
	other.ensure()
	out := New()
	j := 0
	b := other.ivs
	for _, iv := range l.ivs {
		start := iv.Start
		for j < len(b) && b[j].End <= start {
			j++
		}
		k := j
		cur := start
		for k < len(b) && b[k].Start < iv.End {
			if b[k].Start > cur {
				out.Add(cur, b[k].Start)
			}
			if b[k].End > cur {
				cur = b[k].End
			}
			k++
		}
		if cur < iv.End {
			out.Add(cur, iv.End)
		}
	}
	out.Normalize()
	return out
}

// OverlapWith returns the total base-pair overlap between l and other.
func (l *List) OverlapWith(other *List) int {
	l.ensure()
	other.ensure()
	total := 0
	i, j := 0, 0
	a, b := l.ivs, other.ivs
	for i < len(a) && j < len(b) {
		start := max(a[i].Start, b[j].Start)
		end := min(a[i].End, b[j].End)
		if start < end {
			total += end - start
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return total
}

// Shift translates every interval by offset.
func (l *List) Shift(offset int) *List {
	l.ensure()
	out := New()
	for _, iv := range l.ivs {
		out.Add(iv.Start+offset, iv.End+offset)
	}
	out.Normalize()
	return out
}

// Extend grows every interval by left on the left and right on the
// right, then renormalizes (so extension can fuse neighbors).
func (l *List) Extend(left, right int) *List {
	l.ensure()
	out := New()
	for _, iv := range l.ivs {
		start := iv.Start - left
		if start < 0 {
			start = 0
		}
		out.Add(start, iv.End+right)
	}
	out.Normalize()
	return out
}

// Filter returns the sublist of intervals whose length is within
// [minLen, maxLen]. maxLen <= 0 means unbounded.
func (l *List) Filter(minLen, maxLen int) *List {
	l.ensure()
	out := New()
	for _, iv := range l.ivs {
		if iv.Len() < minLen {
			continue
		}
		if maxLen > 0 && iv.Len() > maxLen {
			continue
		}
		out.AddInterval(iv)
	}
	out.Normalize()
	return out
}

// Contains reports whether iv lies entirely within some component of l.
func (l *List) Contains(iv Interval) bool {
	l.ensure()
	i := sort.Search(len(l.ivs), func(i int) bool { return l.ivs[i].End >= iv.End })
	if i == len(l.ivs) {
		return false
	}
	return l.ivs[i].Start <= iv.Start && l.ivs[i].End >= iv.End
}

// index lazily builds the interval tree backing OverlapsRange and
// ContainingInterval.
func (l *List) index() *interval.IntTree {
	l.ensure()
	if l.tree != nil {
		return l.tree
	}
	t := &interval.IntTree{}
	for i, iv := range l.ivs {
		rec := &treeRecord{id: uintptr(i), start: iv.Start, end: iv.End}
		if err := t.Insert(rec, false); err != nil {
			panic(err)
		}
	}
	t.AdjustRanges()
	l.tree = t
	return t
}

// ContainingInterval returns the component interval containing pos and
// true, or the zero Interval and false if pos is not covered.
func (l *List) ContainingInterval(pos int) (Interval, bool) {
	t := l.index()
	var found Interval
	ok := false
	t.DoMatching(func(hit interval.IntInterface) (done bool) {
		rec := hit.(*treeRecord)
		found = Interval{rec.start, rec.end}
		ok = true
		return true
	}, pointQuery{pos})
	return found, ok
}

// treeRecord adapts Interval to interval.IntInterface.
type treeRecord struct {
	id         uintptr
	start, end int
}

func (r *treeRecord) ID() uintptr { return r.id }
func (r *treeRecord) Range() interval.IntRange {
	return interval.IntRange{Start: r.start, End: r.end}
}
func (r *treeRecord) Overlap(b interval.IntRange) bool {
	return r.end > b.Start && r.start < b.End
}

// pointQuery is an interval.IntInterface-compatible query for a single
// base position.
type pointQuery struct{ pos int }

func (q pointQuery) Overlap(b interval.IntRange) bool {
	return q.pos >= b.Start && q.pos < b.End
}

// OverlapsRange reports whether [start, end) intersects any component
// interval of l, using the tree for an O(log n + k) query rather than
// the O(n) scan a direct component walk would need. The conditional
// workspace generator calls this once per candidate interval when
// restricting a workspace to the region occupied by a marker set.
func (l *List) OverlapsRange(start, end int) bool {
	if end <= start {
		return false
	}
	t := l.index()
	hit := false
	t.DoMatching(func(interval.IntInterface) (done bool) {
		hit = true
		return true
	}, rangeQuery{start, end})
	return hit
}

// rangeQuery is an interval.IntInterface-compatible query for a
// half-open [Start, End) range.
type rangeQuery struct{ Start, End int }

func (q rangeQuery) Overlap(b interval.IntRange) bool {
	return q.Start < b.End && b.Start < q.End
}

// SampleUniformPositionWithin draws a start position s such that
// [s, s+length) lies entirely within some component interval of l, with
// every admissible start equally likely (uniform over positions, not
// over components). It reports false if l is empty or no component is
// long enough to host length.
func (l *List) SampleUniformPositionWithin(rng *rand.Rand, length int) (int, bool) {
	l.ensure()
	if length <= 0 {
		return 0, false
	}
	total := 0
	widths := make([]int, len(l.ivs))
	for i, iv := range l.ivs {
		w := iv.Len() - length + 1
		if w < 0 {
			w = 0
		}
		widths[i] = w
		total += w
	}
	if total == 0 {
		return 0, false
	}
	pick := rng.Intn(total)
	for i, w := range widths {
		if pick < w {
			return l.ivs[i].Start + pick, true
		}
		pick -= w
	}
	return 0, false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
