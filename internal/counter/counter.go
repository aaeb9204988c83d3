// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package counter implements the scalar functionals of
// (sample, annotation, workspace) that the orchestrator reduces every
// sample against: nucleotide overlap, segment overlap, and the like.
package counter

import "github.com/biogo/gat/internal/segment"

// Counter is a deterministic pure function of its three arguments,
// reducing a sampled SegmentList against an annotation SegmentList and
// the workspace it was drawn from to a single scalar.
type Counter interface {
	// Name identifies the counter in output sinks (spec.md §6).
	Name() string
	// Count reduces sample against annotation and workspace.
	Count(sample, annotation, workspace *segment.List) float64
}

// NucleotideOverlap counts total base-pair overlap between sample and
// annotation.
type NucleotideOverlap struct{}

func (NucleotideOverlap) Name() string { return "nucleotide-overlap" }
func (NucleotideOverlap) Count(sample, annotation, _ *segment.List) float64 {
	return float64(sample.OverlapWith(annotation))
}

// SegmentOverlap counts the number of sample intervals touching any
// annotation interval.
type SegmentOverlap struct{}

func (SegmentOverlap) Name() string { return "segment-overlap" }
func (SegmentOverlap) Count(sample, annotation, _ *segment.List) float64 {
	count := 0
	for _, iv := range sample.Intervals() {
		single := segment.FromIntervals([]segment.Interval{iv})
		if single.OverlapWith(annotation) > 0 {
			count++
		}
	}
	return float64(count)
}

// AnnotationOverlap counts the number of annotation intervals touched
// by sample.
type AnnotationOverlap struct{}

func (AnnotationOverlap) Name() string { return "annotation-overlap" }
func (AnnotationOverlap) Count(sample, annotation, _ *segment.List) float64 {
	count := 0
	for _, iv := range annotation.Intervals() {
		single := segment.FromIntervals([]segment.Interval{iv})
		if single.OverlapWith(sample) > 0 {
			count++
		}
	}
	return float64(count)
}

// NucleotideDensity is nucleotide overlap normalized by workspace size.
type NucleotideDensity struct{}

func (NucleotideDensity) Name() string { return "nucleotide-density" }
func (NucleotideDensity) Count(sample, annotation, workspace *segment.List) float64 {
	total := workspace.Sum()
	if total == 0 {
		return 0
	}
	return float64(sample.OverlapWith(annotation)) / float64(total)
}
