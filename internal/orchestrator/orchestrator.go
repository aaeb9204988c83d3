// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orchestrator implements the SamplingOrchestrator (spec.md
// §4.7): for each track, it runs num_samples draws through the
// sampler, applies every counter against every annotation, and
// assembles the per-(track, annotation, counter) null vectors.
package orchestrator

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/biogo/gat/internal/collection"
	"github.com/biogo/gat/internal/counter"
	"github.com/biogo/gat/internal/result"
	"github.com/biogo/gat/internal/sampler"
	"github.com/biogo/gat/internal/samplestore"
	"github.com/biogo/gat/internal/segment"
	"github.com/biogo/gat/internal/workspace"
)

// SampleStats is one row of the sample-stats sink format (spec.md §6):
// per (sample_id, isochore) length-distribution summary, or a summary
// row with Isochore == "all" at the end of each sample_id.
type SampleStats struct {
	SampleID                            string
	Isochore                            string
	NSegments                           int
	NNucleotides                        int
	Mean, Std                           float64
	Min, Q1, Median, Q3, Max            float64
}

// Progress receives optional callbacks as the orchestrator runs: one
// SampleStats row per (sample_id, isochore), and every sampled interval
// set when sample dumping is requested (spec.md §6 sample dump sink).
type Progress struct {
	Stats   func(SampleStats)
	Dump    func(track, sampleID string, isochore string, ivs []segment.Interval)
	Workers int // bounded worker pool size; 1 if zero
}

// Options configures one orchestrator run.
type Options struct {
	NumSamples  int
	MasterSeed  int64
	Sampler     sampler.Sampler
	Counters    []counter.Counter
	Generator   workspace.Generator
	Store       samplestore.Store
	PseudoCount float64
	Progress    Progress
}

// NullVectors is the result of Run: nullVectors[counterName][track][annotation]
// is the ordered-by-sample_id vector of sampled counter values.
type NullVectors map[string]map[string]map[string][]float64

// Run drives sampling for every track in segments.Tracks(), against
// every annotation in annotations.Tracks(), and returns the null
// vectors together with the final run Counts.
func Run(ctx context.Context, segments, annotations, ws *collection.Collection, opt Options) (NullVectors, *result.Counts, error) {
	counts := &result.Counts{}
	nulls := make(NullVectors)
	for _, c := range opt.Counters {
		nulls[c.Name()] = make(map[string]map[string][]float64)
	}

	for _, track := range segments.Tracks() {
		segs := toIsochoreCollection(segments, track)
		wsColl := toIsochoreCollection(ws, firstTrack(ws))
		annoColl := annotations

		if opt.Generator.IsConditional() {
			if err := runConditional(ctx, track, segs, annoColl, wsColl, opt, counts, nulls); err != nil {
				return nil, counts, err
			}
			continue
		}
		if err := runUnconditional(ctx, track, segs, annoColl, wsColl, opt, counts, nulls); err != nil {
			return nil, counts, err
		}
	}
	return nulls, counts, nil
}

func firstTrack(c *collection.Collection) string {
	tracks := c.Tracks()
	if len(tracks) == 0 {
		return ""
	}
	return tracks[0]
}

func toIsochoreCollection(c *collection.Collection, track string) map[string]*segment.List {
	return c.Track(track)
}

// unionAnnotationsByKey unions every annotation track's SegmentList at
// each isochore key, for use as the "annos = all annotations" argument
// to the workspace generator in spec.md §4.7 step 1.
func unionAnnotationsByKey(annotations *collection.Collection) map[string]*segment.List {
	out := make(map[string]*segment.List)
	for _, track := range annotations.Tracks() {
		for _, k := range annotations.Keys(track) {
			l := annotations.Get(track, k)
			existing, ok := out[k]
			if !ok {
				existing = segment.New()
				out[k] = existing
			}
			for _, iv := range l.Intervals() {
				existing.AddInterval(iv)
			}
		}
	}
	for _, l := range out {
		l.Normalize()
	}
	return out
}

// runUnconditional implements spec.md §4.7's primary loop: one
// workspace-generator application per track, num_samples draws shared
// across all annotations.
func runUnconditional(ctx context.Context, track string, segs map[string]*segment.List, annotations *collection.Collection, ws map[string]*segment.List, opt Options, counts *result.Counts, nulls NullVectors) error {
	// Step 1 of spec.md §4.7: apply the workspace generator to
	// (segs = segments[track], annos = all annotations, ws) once per
	// isochore key, ahead of the sampling loop.
	unionAnnos := unionAnnotationsByKey(annotations)
	restrictedSegs := make(map[string]*segment.List, len(segs))
	restrictedWs := make(map[string]*segment.List, len(segs))
	for k, segList := range segs {
		wsList := ws[k]
		if wsList == nil {
			wsList = segment.New()
		}
		tr := opt.Generator.Apply(segList, unionAnnos[k], wsList)
		restrictedSegs[k] = tr.Segments
		restrictedWs[k] = tr.Workspace
	}
	segs, ws = restrictedSegs, restrictedWs

	totalWorkspace := segment.New()
	for _, l := range ws {
		for _, iv := range l.Intervals() {
			totalWorkspace.AddInterval(iv)
		}
	}
	totalWorkspace.Normalize()
	if totalWorkspace.Sum() == 0 {
		return nil
	}

	keys := make([]string, 0, len(segs))
	for k := range segs {
		keys = append(keys, k)
	}

	type sampleResult struct {
		perContigSample map[string]*segment.List // contig -> sample, after fromIsochores
	}
	results := make([]sampleResult, opt.NumSamples)

	workers := opt.Progress.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex // guards Progress callbacks and Store writes
	var firstErr error

	for sampleIdx := 0; sampleIdx < opt.NumSamples; sampleIdx++ {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(sampleIdx int) {
			defer wg.Done()
			defer func() { <-sem }()

			sampleID := strconv.Itoa(sampleIdx)
			rng := sampler.NewRNG(opt.MasterSeed, sampleIdx)
			perIsochore := make(map[string]*segment.List, len(keys))
			allLengths := []int{}

			for _, k := range keys {
				counts.AddPair()
				wsList := ws[k]
				segList := segs[k]
				if wsList == nil || wsList.IsEmpty() || segList == nil || segList.IsEmpty() {
					counts.AddSkipped()
					continue
				}

				var sampled *segment.List
				if opt.Store != nil && opt.Store.HasSample(track, sampleID, k) {
					counts.AddLoaded()
					loaded, err := opt.Store.Load(track, sampleID, k)
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return
					}
					sampled = loaded
				} else {
					if wsList.Sum() < segList.Sum() {
						counts.AddSkipped()
						continue
					}
					counts.AddSampled()
					var complete bool
					sampled, complete = opt.Sampler.Sample(rng, segList, wsList)
					if !complete {
						counts.AddIncomplete()
					}
					if opt.Store != nil {
						mu.Lock()
						_ = opt.Store.Save(track, sampleID, k, sampled)
						mu.Unlock()
					}
				}

				perIsochore[k] = sampled
				allLengths = append(allLengths, sampled.AsLengths()...)

				if opt.Progress.Stats != nil {
					mu.Lock()
					opt.Progress.Stats(statsFor(sampleID, k, sampled))
					mu.Unlock()
				}
				if opt.Progress.Dump != nil {
					mu.Lock()
					opt.Progress.Dump(track, sampleID, k, sampled.Intervals())
					mu.Unlock()
				}
			}

			if opt.Progress.Stats != nil && len(allLengths) > 0 {
				mu.Lock()
				opt.Progress.Stats(statsFromLengths(sampleID, "all", allLengths))
				mu.Unlock()
			}

			perContig := fromIsochores(perIsochore)
			results[sampleIdx] = sampleResult{perContigSample: perContig}
		}(sampleIdx)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	contigWorkspace := fromIsochores(ws)
	contigAnnotations := make(map[string]map[string]*segment.List)
	for _, annoTrack := range annotations.Tracks() {
		contigAnnotations[annoTrack] = fromIsochores(annotations.Track(annoTrack))
	}

	for _, c := range opt.Counters {
		for _, annoTrack := range annotations.Tracks() {
			vec := make([]float64, opt.NumSamples)
			for i, res := range results {
				total := 0.0
				for contig, sampleList := range res.perContigSample {
					annoList := contigAnnotations[annoTrack][contig]
					if annoList == nil {
						annoList = segment.New()
					}
					wsList := contigWorkspace[contig]
					if wsList == nil {
						wsList = segment.New()
					}
					total += c.Count(sampleList, annoList, wsList)
				}
				vec[i] = total
			}
			if _, ok := nulls[c.Name()][track]; !ok {
				nulls[c.Name()][track] = make(map[string][]float64)
			}
			nulls[c.Name()][track][annoTrack] = vec
		}
	}
	return nil
}

// runConditional implements the conditional-mode resolution decided in
// SPEC_FULL.md §9: sample once per annotation, with the
// workspace-generator/annotation pair varying per annotation.
func runConditional(ctx context.Context, track string, segs map[string]*segment.List, annotations *collection.Collection, ws map[string]*segment.List, opt Options, counts *result.Counts, nulls NullVectors) error {
	for _, annoTrack := range annotations.Tracks() {
		annoIsochores := annotations.Track(annoTrack)

		restrictedSegs := make(map[string]*segment.List)
		restrictedWs := make(map[string]*segment.List)
		restrictedAnnos := make(map[string]*segment.List)
		for k, segList := range segs {
			wsList := ws[k]
			if wsList == nil {
				continue
			}
			annoList := annoIsochores[k]
			tr := opt.Generator.Apply(segList, annoList, wsList)
			restrictedSegs[k] = tr.Segments
			restrictedWs[k] = tr.Workspace
			restrictedAnnos[k] = tr.Annotations
		}

		total := 0
		for _, l := range restrictedWs {
			total += l.Sum()
		}
		if total == 0 {
			for _, c := range opt.Counters {
				if _, ok := nulls[c.Name()][track]; !ok {
					nulls[c.Name()][track] = make(map[string][]float64)
				}
				nulls[c.Name()][track][annoTrack] = nil
			}
			continue
		}

		keys := make([]string, 0, len(restrictedSegs))
		for k := range restrictedSegs {
			keys = append(keys, k)
		}

		vectors := make(map[string][]float64, len(opt.Counters))
		for _, c := range opt.Counters {
			vectors[c.Name()] = make([]float64, opt.NumSamples)
		}

		workers := opt.Progress.Workers
		if workers <= 0 {
			workers = 1
		}
		sem := make(chan struct{}, workers)
		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error

		for sampleIdx := 0; sampleIdx < opt.NumSamples; sampleIdx++ {
			select {
			case <-ctx.Done():
				wg.Wait()
				return ctx.Err()
			default:
			}

			sem <- struct{}{}
			wg.Add(1)
			go func(sampleIdx int) {
				defer wg.Done()
				defer func() { <-sem }()

				sampleID := strconv.Itoa(sampleIdx)
				rng := sampler.NewRNG(opt.MasterSeed, sampleIdx)
				perIsochore := make(map[string]*segment.List, len(keys))

				for _, k := range keys {
					counts.AddPair()
					wsList := restrictedWs[k]
					segList := restrictedSegs[k]
					if wsList == nil || wsList.IsEmpty() || segList == nil || segList.IsEmpty() {
						counts.AddSkipped()
						continue
					}
					if wsList.Sum() < segList.Sum() {
						counts.AddSkipped()
						continue
					}
					counts.AddSampled()
					sampled, complete := opt.Sampler.Sample(rng, segList, wsList)
					if !complete {
						counts.AddIncomplete()
					}
					perIsochore[k] = sampled
				}

				perContig := fromIsochores(perIsochore)
				contigWs := fromIsochores(restrictedWs)
				contigAnnos := fromIsochores(restrictedAnnos)

				mu.Lock()
				for _, c := range opt.Counters {
					total := 0.0
					for contig, sampleList := range perContig {
						annoList := contigAnnos[contig]
						if annoList == nil {
							annoList = segment.New()
						}
						wsList := contigWs[contig]
						if wsList == nil {
							wsList = segment.New()
						}
						total += c.Count(sampleList, annoList, wsList)
					}
					vectors[c.Name()][sampleIdx] = total
				}
				mu.Unlock()
			}(sampleIdx)
		}
		wg.Wait()
		if firstErr != nil {
			return firstErr
		}

		for _, c := range opt.Counters {
			if _, ok := nulls[c.Name()][track]; !ok {
				nulls[c.Name()][track] = make(map[string][]float64)
			}
			nulls[c.Name()][track][annoTrack] = vectors[c.Name()]
		}
	}
	return nil
}

// fromIsochores collapses a "contig@isochore"-keyed map back to
// contig-keyed SegmentLists, unioning pieces that share a contig.
func fromIsochores(byIsochore map[string]*segment.List) map[string]*segment.List {
	out := make(map[string]*segment.List)
	for k, l := range byIsochore {
		if l == nil {
			continue
		}
		contig := collection.SplitContig(k)
		existing, ok := out[contig]
		if !ok {
			existing = segment.New()
			out[contig] = existing
		}
		for _, iv := range l.Intervals() {
			existing.AddInterval(iv)
		}
	}
	for _, l := range out {
		l.Normalize()
	}
	return out
}

func statsFor(sampleID, isochore string, l *segment.List) SampleStats {
	return statsFromLengths(sampleID, isochore, l.AsLengths())
}

func statsFromLengths(sampleID, isochore string, lengths []int) SampleStats {
	if len(lengths) == 0 {
		return SampleStats{SampleID: sampleID, Isochore: isochore}
	}
	sorted := append([]int(nil), lengths...)
	sort.Ints(sorted)

	sum, min, max := 0, sorted[0], sorted[0]
	for _, v := range sorted {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := float64(sum) / float64(len(sorted))
	var sq float64
	for _, v := range sorted {
		d := float64(v) - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(sorted)))

	return SampleStats{
		SampleID:     sampleID,
		Isochore:     isochore,
		NSegments:    len(sorted),
		NNucleotides: sum,
		Mean:         mean,
		Std:          std,
		Min:          float64(min),
		Q1:           percentile(sorted, 0.25),
		Median:       percentile(sorted, 0.5),
		Q3:           percentile(sorted, 0.75),
		Max:          float64(max),
	}
}

func percentile(sorted []int, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}
