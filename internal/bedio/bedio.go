// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bedio is the boundary collaborator described in spec.md §1
// ("input file parsers for genomic interval formats") and §6 ("each
// record is (contig, start, end, optional_track_name)"): a minimal
// BED4 reader that groups intervals by track. It is not part of the
// sampling engine.
package bedio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/gat/internal/collection"
	"github.com/biogo/gat/internal/segment"
)

// Record is one parsed BED line: (contig, start, end, optional track name).
type Record struct {
	Contig string
	Start  int
	End    int
	Name   string // empty if the file had no 4th column
}

// ReadRecords parses BED3/BED4 lines from r, skipping blank lines and
// "track"/"#"-prefixed header lines, mirroring the tolerant reading
// style of the teacher's flag-driven command-line tools.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("bedio: line %d: expected at least 3 fields, got %d", lineNo, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("bedio: line %d: bad start %q: %w", lineNo, fields[1], err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("bedio: line %d: bad end %q: %w", lineNo, fields[2], err)
		}
		rec := Record{Contig: fields[0], Start: start, End: end}
		if len(fields) >= 4 {
			rec.Name = fields[3]
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("bedio: %w", err)
	}
	return records, nil
}

// Feature adapts a Record to the feat.Feature interface, in the style of
// brahma/brahma.go's contig and repeat types, so records read by this
// package interoperate with the rest of the bíogo feature-handling
// ecosystem.
type Feature struct {
	Record
	Contig feat.Feature
}

func (f Feature) Start() int          { return f.Record.Start }
func (f Feature) End() int            { return f.Record.End }
func (f Feature) Len() int            { return f.Record.End - f.Record.Start }
func (f Feature) Name() string        { return f.Record.Name }
func (f Feature) Description() string { return "bedio record" }
func (f Feature) Location() feat.Feature {
	return f.Contig
}

// contigFeature is the minimal named feat.Feature a Feature's Location
// resolves to: the contig itself, with no further nesting.
type contigFeature string

func (c contigFeature) Start() int             { return 0 }
func (c contigFeature) End() int               { return 0 }
func (c contigFeature) Len() int               { return 0 }
func (c contigFeature) Name() string           { return string(c) }
func (c contigFeature) Description() string    { return "contig" }
func (c contigFeature) Location() feat.Feature { return nil }

// AsFeature wraps rec as a feat.Feature located on its contig.
func AsFeature(rec Record) Feature {
	return Feature{Record: rec, Contig: contigFeature(rec.Contig)}
}

// ReadCollection parses records from r into a Collection, grouping by
// the Name column when present, else under defaultTrack (spec.md §6:
// "grouped by name attribute if present, else by a default track").
func ReadCollection(r io.Reader, defaultTrack string) (*collection.Collection, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}
	c := collection.New()
	for _, rec := range records {
		track := rec.Name
		if track == "" {
			track = defaultTrack
		}
		c.Add(track, rec.Contig, segment.FromIntervals([]segment.Interval{{rec.Start, rec.End}}))
	}
	return c, nil
}
