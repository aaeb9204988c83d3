// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collection implements the two-level track → contig/isochore
// mapping of SegmentLists that segments, annotations and workspaces
// share, along with isochore expansion and collapse.
package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biogo/gat/internal/segment"
)

// isochoreSep separates a contig name from its isochore tag in the
// synthetic keys produced by ToIsochores, e.g. "chr1@lo".
const isochoreSep = "@"

// Collection is a track → key → SegmentList mapping. key is a contig
// name, or after ToIsochores a synthetic "contig@isochore" key.
type Collection struct {
	data       map[string]map[string]*segment.List
	isochoric  bool
	isochoreMap map[string]*segment.List // isochore tag -> region used to expand, retained for idempotence checks
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{data: make(map[string]map[string]*segment.List)}
}

// Add inserts or merges a SegmentList under (track, key).
func (c *Collection) Add(track, key string, l *segment.List) {
	inner, ok := c.data[track]
	if !ok {
		inner = make(map[string]*segment.List)
		c.data[track] = inner
	}
	if existing, ok := inner[key]; ok {
		for _, iv := range l.Intervals() {
			existing.AddInterval(iv)
		}
		existing.Normalize()
		return
	}
	inner[key] = l
}

// Track returns the key → SegmentList map for track, or nil.
func (c *Collection) Track(track string) map[string]*segment.List {
	return c.data[track]
}

// Get returns the SegmentList at (track, key), or a new empty one if
// absent; the new list is not stored in the collection.
func (c *Collection) Get(track, key string) *segment.List {
	inner, ok := c.data[track]
	if !ok {
		return segment.New()
	}
	if l, ok := inner[key]; ok {
		return l
	}
	return segment.New()
}

// Tracks returns the set of top-level track names, sorted.
func (c *Collection) Tracks() []string {
	out := make([]string, 0, len(c.data))
	for t := range c.data {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Keys returns the set of inner keys (contig or contig@isochore) for
// track, sorted.
func (c *Collection) Keys(track string) []string {
	inner := c.data[track]
	out := make([]string, 0, len(inner))
	for k := range inner {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsIsochoric reports whether the collection currently holds the
// isochore-expanded view.
func (c *Collection) IsIsochoric() bool { return c.isochoric }

// Counts returns the total number of intervals across all leaves.
func (c *Collection) Counts() int {
	total := 0
	for _, inner := range c.data {
		for _, l := range inner {
			total += l.Counts()
		}
	}
	return total
}

// Sum returns the total covered length across all leaves.
func (c *Collection) Sum() int {
	total := 0
	for _, inner := range c.data {
		for _, l := range inner {
			total += l.Sum()
		}
	}
	return total
}

// Clone returns a deep copy; mutations to the clone never affect c.
func (c *Collection) Clone() *Collection {
	out := New()
	out.isochoric = c.isochoric
	out.isochoreMap = c.isochoreMap
	for track, inner := range c.data {
		for key, l := range inner {
			out.Add(track, key, l.Clone())
		}
	}
	return out
}

// IsochoreKey joins a contig and isochore tag into a synthetic key.
func IsochoreKey(contig, isochore string) string {
	return contig + isochoreSep + isochore
}

// splitIsochoreKey splits a synthetic key back into (contig, isochore).
func splitIsochoreKey(key string) (contig, isochore string, ok bool) {
	i := strings.LastIndex(key, isochoreSep)
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// SplitContig returns the contig portion of an inner key, stripping any
// "@isochore" suffix. Keys without a separator are returned unchanged.
func SplitContig(key string) string {
	contig, _, ok := splitIsochoreKey(key)
	if !ok {
		return key
	}
	return contig
}

// ToIsochores intersects every contig-level SegmentList with each
// isochore's region, replacing contig keys with synthetic
// "contig@isochore" keys. It is idempotent when called again with the
// same isochoreMap on an already-expanded collection.
func (c *Collection) ToIsochores(isochoreMap map[string]*segment.List) *Collection {
	if c.isochoric && sameIsochoreMap(c.isochoreMap, isochoreMap) {
		return c
	}
	if c.isochoric {
		c = c.FromIsochores()
	}
	out := New()
	out.isochoric = true
	out.isochoreMap = isochoreMap
	for track, inner := range c.data {
		for contig, l := range inner {
			for tag, region := range isochoreMap {
				piece := l.Intersect(region)
				if piece.IsEmpty() {
					continue
				}
				out.Add(track, IsochoreKey(contig, tag), piece)
			}
		}
	}
	return out
}

// FromIsochores collapses synthetic "contig@isochore" keys back to
// contig keys, unioning the SegmentLists that share a contig prefix.
func (c *Collection) FromIsochores() *Collection {
	out := New()
	for track, inner := range c.data {
		for key, l := range inner {
			contig, _, ok := splitIsochoreKey(key)
			if !ok {
				contig = key
			}
			out.Add(track, contig, l.Clone())
		}
	}
	return out
}

func sameIsochoreMap(a, b map[string]*segment.List) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || fmt.Sprintf("%v", v.Intervals()) != fmt.Sprintf("%v", w.Intervals()) {
			return false
		}
	}
	return true
}
