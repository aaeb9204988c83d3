// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workspace implements the pluggable WorkspaceGenerator
// capability: pure, side-effect-free derivation of the effective
// (segments, annotations, workspace) triple that sampling runs against.
package workspace

import "github.com/biogo/gat/internal/segment"

// Triple is the (segments, annotations, workspace) result of applying a
// Generator.
type Triple struct {
	Segments    *segment.List
	Annotations *segment.List
	Workspace   *segment.List
}

// Generator derives an effective workspace (and optionally restricts
// segments/annotations) from a raw workspace. Implementations are pure
// functions of their arguments.
type Generator interface {
	// Apply computes the effective triple for the given segments,
	// annotations (possibly nil) and workspace.
	Apply(segs, annos, ws *segment.List) Triple
	// IsConditional reports whether this generator must be invoked once
	// per annotation rather than once per track.
	IsConditional() bool
}

// Unconditional returns the workspace unchanged: segs' = segs,
// annos' = annos, ws' = ws.
type Unconditional struct{}

func (Unconditional) Apply(segs, annos, ws *segment.List) Triple {
	return Triple{Segments: segs, Annotations: annos, Workspace: ws}
}
func (Unconditional) IsConditional() bool { return false }

// Conditional restricts ws' to the union of workspace component
// intervals that contain at least one segment and, if RequireAnnotation
// is set, at least one annotation base.
type Conditional struct {
	// RequireAnnotation, when true, additionally requires the
	// workspace component to contain annotation bases, not just a
	// segment.
	RequireAnnotation bool
}

func (g Conditional) Apply(segs, annos, ws *segment.List) Triple {
	restricted := restrictToOccupied(ws, segs)
	if g.RequireAnnotation && annos != nil {
		restricted = restricted.Intersect(restrictToOccupied(ws, annos))
	}
	return Triple{Segments: segs, Annotations: annos, Workspace: restricted}
}
func (g Conditional) IsConditional() bool { return true }

// restrictToOccupied returns the union of ws's component intervals that
// overlap at least one interval of marker, querying marker's interval
// tree rather than rescanning marker's components for every ws piece.
func restrictToOccupied(ws, marker *segment.List) *segment.List {
	out := segment.New()
	if marker == nil {
		return out
	}
	for _, wiv := range ws.Intervals() {
		if marker.OverlapsRange(wiv.Start, wiv.End) {
			out.AddInterval(wiv)
		}
	}
	out.Normalize()
	return out
}

// Centered restricts ws' to windows of Radius around each segment's
// midpoint, intersected with ws.
type Centered struct {
	Radius int
}

func (g Centered) Apply(segs, annos, ws *segment.List) Triple {
	windows := segment.New()
	for _, iv := range segs.Intervals() {
		mid := (iv.Start + iv.End) / 2
		start := mid - g.Radius
		if start < 0 {
			start = 0
		}
		windows.Add(start, mid+g.Radius)
	}
	windows.Normalize()
	return Triple{Segments: segs, Annotations: annos, Workspace: ws.Intersect(windows)}
}
func (Centered) IsConditional() bool { return false }

// Padded restricts ws' to segs extended by Pad bases on each side,
// intersected with ws.
type Padded struct {
	Pad int
}

func (g Padded) Apply(segs, annos, ws *segment.List) Triple {
	padded := segs.Extend(g.Pad, g.Pad)
	return Triple{Segments: segs, Annotations: annos, Workspace: ws.Intersect(padded)}
}
func (Padded) IsConditional() bool { return false }

// SegmentOverlap restricts ws' to the union of annotation intervals
// that overlap at least one segment, intersected with ws.
type SegmentOverlap struct{}

func (SegmentOverlap) Apply(segs, annos, ws *segment.List) Triple {
	overlapping := segment.New()
	if annos != nil {
		for _, aiv := range annos.Intervals() {
			if segs.OverlapsRange(aiv.Start, aiv.End) {
				overlapping.AddInterval(aiv)
			}
		}
		overlapping.Normalize()
	}
	return Triple{Segments: segs, Annotations: annos, Workspace: ws.Intersect(overlapping)}
}
func (SegmentOverlap) IsConditional() bool { return false }
