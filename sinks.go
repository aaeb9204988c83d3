// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/gat/internal/orchestrator"
	"github.com/biogo/gat/internal/result"
	"github.com/biogo/gat/internal/segment"
)

// SampleStatsWriter writes the tab-separated sample-stats sink of
// spec.md §6. Its Stats method is suitable as RunContext.OnSampleStats.
type SampleStatsWriter struct {
	w          *bufio.Writer
	headerDone bool
}

// NewSampleStatsWriter wraps w, writing the required header on the
// first row.
func NewSampleStatsWriter(w io.Writer) *SampleStatsWriter {
	return &SampleStatsWriter{w: bufio.NewWriter(w)}
}

// Stats appends one row. Errors are not returned (matching the
// fire-and-forget progress-callback contract of orchestrator.Progress);
// call Flush to surface any write failure.
func (s *SampleStatsWriter) Stats(st orchestrator.SampleStats) {
	if !s.headerDone {
		fmt.Fprintln(s.w, "sample\tisochore\tnsegments\tnnucleotides\tmean\tstd\tmin\tq1\tmedian\tq3\tmax")
		s.headerDone = true
	}
	fmt.Fprintf(s.w, "%s\t%s\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
		st.SampleID, st.Isochore, st.NSegments, st.NNucleotides, st.Mean, st.Std, st.Min, st.Q1, st.Median, st.Q3, st.Max)
}

// Flush flushes buffered output, returning an *IOError on failure.
func (s *SampleStatsWriter) Flush() error {
	if err := s.w.Flush(); err != nil {
		return &IOError{Path: "sample-stats sink", Err: err}
	}
	return nil
}

// SampleDumpWriter writes the per-track sample dump sink of spec.md §6,
// opening one file per track the first time it sees that track, named
// by substituting pattern's "%s" with the track name.
type SampleDumpWriter struct {
	pattern string
	files   map[string]*bufio.Writer
	handles map[string]*os.File
	lastID  map[string]string
}

// NewSampleDumpWriter returns a writer that lazily opens
// strings.Replace(pattern, "%s", track, 1) per track.
func NewSampleDumpWriter(pattern string) *SampleDumpWriter {
	return &SampleDumpWriter{
		pattern: pattern,
		files:   make(map[string]*bufio.Writer),
		handles: make(map[string]*os.File),
		lastID:  make(map[string]string),
	}
}

// Dump appends ivs under the header "track name=<sampleID>", opening a
// new header whenever sampleID changes for track.
func (d *SampleDumpWriter) Dump(track, sampleID, isochore string, ivs []segment.Interval) error {
	w, ok := d.files[track]
	if !ok {
		path := strings.Replace(d.pattern, "%s", track, 1)
		f, err := os.Create(path)
		if err != nil {
			return &IOError{Path: path, Err: err}
		}
		d.handles[track] = f
		w = bufio.NewWriter(f)
		d.files[track] = w
	}
	if d.lastID[track] != sampleID {
		fmt.Fprintf(w, "track name=%s\n", sampleID)
		d.lastID[track] = sampleID
	}
	for _, iv := range ivs {
		fmt.Fprintf(w, "%s\t%d\t%d\n", isochore, iv.Start, iv.End)
	}
	return nil
}

// Close flushes and closes every opened file.
func (d *SampleDumpWriter) Close() error {
	var firstErr error
	for track, w := range d.files {
		if err := w.Flush(); err != nil && firstErr == nil {
			firstErr = &IOError{Path: track, Err: err}
		}
	}
	for track, f := range d.handles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = &IOError{Path: track, Err: err}
		}
	}
	return firstErr
}

// WriteCountsDump writes the counts dump sink of spec.md §6 for one
// counter: one row per (track, annotation) with the observed value and
// the comma-separated null vector in sample_id order.
func WriteCountsDump(w io.Writer, rows []result.AnnotatorResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "track\tannotation\tobserved\tcounts")
	for _, r := range rows {
		parts := make([]string, len(r.Samples))
		for i, s := range r.Samples {
			parts[i] = formatCount(s)
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\n", r.Track, r.Annotation, formatCount(r.Observed), strings.Join(parts, ","))
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Path: "counts dump sink", Err: err}
	}
	return nil
}

// formatCount renders a counter value without a trailing ".0" when it
// is integral, since most counters (spec.md §4.5) are integer-valued;
// fractional counters like nucleotide-density keep full precision.
func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FromCounts reads a counts dump sink written by WriteCountsDump and
// reconstructs AnnotatorResults, recomputing expected/stddev/fold/
// pvalue from the recovered null vectors (q-values are left zero; run
// the internal/fdr package over the rows' p-values to recompute them).
// This is the "counts-file
// round-trip" of spec.md §6/§8 S4.
func FromCounts(r io.Reader, counterName string, pseudoCount float64) ([]result.AnnotatorResult, error) {
	sc := bufio.NewScanner(r)
	var rows []result.AnnotatorResult
	lineNo := 0
	sawHeader := false
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !sawHeader {
			sawHeader = true
			continue
		}
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, &InputError{Source: "counts dump", Reason: fmt.Sprintf("line %d: expected 4 fields, got %d", lineNo, len(fields))}
		}
		observed, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &InputError{Source: "counts dump", Reason: fmt.Sprintf("line %d: bad observed %q", lineNo, fields[2])}
		}
		var samples []float64
		if fields[3] != "" {
			for _, tok := range strings.Split(fields[3], ",") {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, &InputError{Source: "counts dump", Reason: fmt.Sprintf("line %d: bad count %q", lineNo, tok)}
				}
				samples = append(samples, v)
			}
		}
		rows = append(rows, result.New(fields[0], fields[1], counterName, observed, samples, pseudoCount, nil))
	}
	if err := sc.Err(); err != nil {
		return nil, &InputError{Source: "counts dump", Reason: err.Error()}
	}
	return rows, nil
}
