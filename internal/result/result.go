// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package result implements AnnotatorResult (spec.md §3, §4.8): the
// per-(track, annotation, counter) summary of observed vs. sampled null
// counts, and the run-wide Counts tally from spec.md §7.
package result

import (
	"fmt"
	"sort"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"
)

// DefaultPseudoCount is the default pseudo-count ε used in fold-change
// and p-value computation (spec.md §3).
const DefaultPseudoCount = 1.0

// AnnotatorResult is the tuple described in spec.md §3: observed vs.
// expected statistics for one (track, annotation, counter) triple, plus
// the raw null vector.
type AnnotatorResult struct {
	Track      string
	Annotation string
	Counter    string

	Observed float64
	Samples  []float64

	Expected float64
	Lower95  float64
	Upper95  float64
	StdDev   float64
	Fold     float64
	PValue   float64
	QValue   float64
}

// New computes expected/stddev/percentiles/fold/pvalue for observed
// against the null vector samples, per spec.md §4.8. If reference is
// non-nil, the test is re-centered on reference.Expected: observed minus
// reference.Expected is tested against the samples' deviations from
// their own mean, capturing "difference from a baseline enrichment".
// reference.Samples is not used.
func New(track, annotation, counterName string, observed float64, samples []float64, pseudoCount float64, reference *AnnotatorResult) AnnotatorResult {
	r := AnnotatorResult{
		Track:      track,
		Annotation: annotation,
		Counter:    counterName,
		Observed:   observed,
		Samples:    samples,
	}
	if pseudoCount <= 0 {
		pseudoCount = DefaultPseudoCount
	}

	if len(samples) == 0 {
		r.Expected = 0
		r.Fold = (observed + pseudoCount) / pseudoCount
		r.PValue = 1
		return r
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	r.Expected = stat.Mean(sorted, nil)
	r.StdDev = stat.StdDev(sorted, nil)
	r.Lower95 = stat.Quantile(0.025, stat.Empirical, sorted, nil)
	r.Upper95 = stat.Quantile(0.975, stat.Empirical, sorted, nil)
	r.Fold = (observed + pseudoCount) / (r.Expected + pseudoCount)

	testAgainst := sorted
	centerObserved := observed
	if reference != nil {
		// Re-center: the question becomes "how does this track's
		// distribution compare to the reference track's expectation".
		centerObserved = observed - reference.Expected
		testAgainst = make([]float64, len(sorted))
		for i, s := range sorted {
			testAgainst[i] = s - r.Expected
		}
	}
	r.PValue = tailPValue(centerObserved, testAgainst, pseudoCount)
	return r
}

// tailPValue computes the two-sided empirical tail probability with a
// pseudo-count, per spec.md §4.8:
//
//	p = max(min(#{s>=observed}, #{s<=observed}) + eps, eps) / (n + eps)
//
// doubled and clamped to <= 1.
func tailPValue(observed float64, sorted []float64, pseudoCount float64) float64 {
	n := len(sorted)
	ge, le := 0, 0
	for _, s := range sorted {
		if s >= observed {
			ge++
		}
		if s <= observed {
			le++
		}
	}
	tail := float64(min(ge, le))
	if tail+pseudoCount > pseudoCount {
		tail = tail + pseudoCount
	} else {
		tail = pseudoCount
	}
	p := 2 * tail / (float64(n) + pseudoCount)
	if p > 1 {
		p = 1
	}
	return p
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// String formats r in the counts/report line style of spec.md §3
// (format strings mirrored from the gat Python source's
// DummyAnnotatorResult.__str__).
func (r AnnotatorResult) String() string {
	return fmt.Sprintf("%s\t%s\t%d\t%6.4f\t%6.4f\t%6.4f\t%6.4f\t%6.4f\t%6.4e\t%6.4e",
		r.Track, r.Annotation, int(r.Observed), r.Expected, r.Lower95, r.Upper95, r.StdDev, r.Fold, r.PValue, r.QValue)
}

// Counts is the strongly typed run-counter tally replacing the Python
// source's collections.defaultdict(int) (spec.md §7): pairs considered,
// isochores skipped as empty or too small, samples loaded from a store, samples
// computed by the sampler, and draws that exhausted the retry budget.
type Counts struct {
	Pairs      int64
	Skipped    int64
	Loaded     int64
	Sampled    int64
	Incomplete int64
}

func (c *Counts) String() string {
	return fmt.Sprintf("pairs=%d skipped=%d loaded=%d sampled=%d incomplete=%d",
		atomic.LoadInt64(&c.Pairs), atomic.LoadInt64(&c.Skipped), atomic.LoadInt64(&c.Loaded),
		atomic.LoadInt64(&c.Sampled), atomic.LoadInt64(&c.Incomplete))
}

// AddPair, AddSkipped, AddLoaded, AddSampled and AddIncomplete bump
// their respective tallies atomically, so concurrent sampling workers
// (SPEC_FULL.md §5) can share one Counts value without a lock.
func (c *Counts) AddPair()       { atomic.AddInt64(&c.Pairs, 1) }
func (c *Counts) AddSkipped()    { atomic.AddInt64(&c.Skipped, 1) }
func (c *Counts) AddLoaded()     { atomic.AddInt64(&c.Loaded, 1) }
func (c *Counts) AddSampled()    { atomic.AddInt64(&c.Sampled, 1) }
func (c *Counts) AddIncomplete() { atomic.AddInt64(&c.Incomplete, 1) }
