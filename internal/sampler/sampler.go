// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sampler implements the segment-length-preserving randomizer:
// given a set of segments confined to a workspace, it draws a random
// SegmentList with the same length multiset, contained in the
// workspace and pairwise non-overlapping.
package sampler

import (
	"math/rand"

	"github.com/biogo/gat/internal/segment"
)

// DefaultRetries is the bounded retry count K from SPEC_FULL.md §9: the
// sampler restarts a draw from scratch this many times before returning
// the best partial sample and flagging it incomplete.
const DefaultRetries = 50

// Sampler draws a random SegmentList with the same length multiset as
// segs, confined to workspace.
type Sampler interface {
	// Sample draws a randomized placement of segs' lengths within
	// workspace using rng. complete is false if the retry budget was
	// exhausted and the returned sample is a partial best-effort
	// result (SPEC_FULL.md §4.4, IncompleteSample in spec.md §7), and
	// also when the workspace is smaller in total than segs, in which
	// case the returned sample is empty.
	Sample(rng *rand.Rand, segs, workspace *segment.List) (sample *segment.List, complete bool)
}

// SegmentPreserving is the canonical sampler described in spec.md §4.4:
// it shuffles the segment length multiset into random order and places
// each length at a uniformly random admissible position in a residual
// workspace that shrinks as intervals are placed. Each placed interval
// is kept at least one base away from the others, so no two placements
// are adjacent.
type SegmentPreserving struct {
	// Retries bounds the number of full-draw restarts after an
	// admissible-position search comes back empty. Zero means
	// DefaultRetries.
	Retries int
}

func (s SegmentPreserving) retries() int {
	if s.Retries > 0 {
		return s.Retries
	}
	return DefaultRetries
}

// Sample implements Sampler.
func (s SegmentPreserving) Sample(rng *rand.Rand, segs, workspace *segment.List) (*segment.List, bool) {
	lengths := segs.AsLengths()
	if len(lengths) == 0 {
		return segment.New(), true
	}
	if workspace.IsEmpty() || workspace.Sum() < sumOf(lengths) {
		return segment.New(), false
	}

	var best *segment.List
	bestPlaced := -1

	for attempt := 0; attempt <= s.retries(); attempt++ {
		order := shuffled(rng, lengths)
		sample := segment.New()
		residual := workspace.Clone()
		placed := 0
		failed := false

		for _, length := range order {
			start, ok := residual.SampleUniformPositionWithin(rng, length)
			if !ok {
				failed = true
				break
			}
			sample.Add(start, start+length)
			// Removing one extra base on each side keeps later placements
			// from touching this one; normalization would otherwise fuse
			// adjacent placements and change the length multiset.
			residual = residual.Subtract(segment.FromIntervals([]segment.Interval{{start - 1, start + length + 1}}))
			placed++
		}

		if !failed {
			return sample, true
		}
		if placed > bestPlaced {
			best, bestPlaced = sample, placed
		}
	}

	if best == nil {
		best = segment.New()
	}
	return best, false
}

func sumOf(lengths []int) int {
	total := 0
	for _, l := range lengths {
		total += l
	}
	return total
}

// shuffled returns a copy of lengths in a uniformly random order,
// avoiding the deterministic bias of placing the longest segment first
// (SPEC_FULL.md §4.4).
func shuffled(rng *rand.Rand, lengths []int) []int {
	out := append([]int(nil), lengths...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// NewRNG returns a per-worker random stream deterministically derived
// from a master seed and a sample index, so results are reproducible
// independent of scheduling (spec.md §5), in the seeding idiom of
// ganesh/ganesh.go.
func NewRNG(masterSeed int64, sampleIndex int) *rand.Rand {
	return rand.New(rand.NewSource(int64(uint64(masterSeed) ^ uint64(sampleIndex)*0x9E3779B97F4A7C15)))
}
