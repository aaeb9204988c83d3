// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gat implements the Genomic Association Tester: it estimates
// whether the observed overlap between a set of genomic segments and a
// set of annotations is larger or smaller than expected under a null
// model that reshuffles segments within a workspace while preserving
// their length distribution.
//
// Package gat ties the engine packages under internal/ into a single
// run: it replaces the global mutable options-and-logger object of the
// gat Python source with an explicit RunContext threaded through every
// call (DESIGN.md, "Root package gat").
package gat

import (
	"context"
	"log/slog"
	"sort"

	"github.com/biogo/gat/internal/collection"
	"github.com/biogo/gat/internal/counter"
	"github.com/biogo/gat/internal/fdr"
	"github.com/biogo/gat/internal/metrics"
	"github.com/biogo/gat/internal/orchestrator"
	"github.com/biogo/gat/internal/result"
	"github.com/biogo/gat/internal/sampler"
	"github.com/biogo/gat/internal/samplestore"
	"github.com/biogo/gat/internal/segment"
	"github.com/biogo/gat/internal/workspace"
)

// RunContext carries the values that the Python source kept as a
// global Experiment/logger singleton: a cancellation context, an
// optional structured logger, optional metrics registry, and progress
// callbacks, all explicit and threaded through Run. The RNG seed is
// carried by Config.MasterSeed.
type RunContext struct {
	Context context.Context
	Logger  *slog.Logger
	Metrics *metrics.Registry

	// OnSampleStats and OnSampleDump mirror orchestrator.Progress; both
	// may be nil.
	OnSampleStats func(orchestrator.SampleStats)
	OnSampleDump  func(track, sampleID, isochore string, ivs []segment.Interval)
}

func (rc *RunContext) context() context.Context {
	if rc == nil || rc.Context == nil {
		return context.Background()
	}
	return rc.Context
}

func (rc *RunContext) logger() *slog.Logger {
	if rc == nil || rc.Logger == nil {
		return slog.Default()
	}
	return rc.Logger
}

// Config bundles every recognized run option (spec.md §6).
type Config struct {
	NumSamples  int
	MasterSeed  int64
	PseudoCount float64
	Workers     int

	Generator workspace.Generator
	Counters  []counter.Counter
	Sampler   sampler.Sampler
	Store     samplestore.Store

	// IsochoreMap, if non-empty, is applied to segments/annotations/
	// workspace before sampling (spec.md §4.2 toIsochores).
	IsochoreMap map[string]*segment.List

	// Reference, if non-nil, re-centers every test on the matching
	// (track, annotation, counter) entry in a prior run's results
	// rather than on its own null vector (spec.md §4.8).
	Reference map[string]map[string]map[string]result.AnnotatorResult

	// FDRMethod names the multiple-testing correction to apply; only
	// "BH" (Benjamini-Hochberg) is implemented, matching spec.md §6's
	// default.
	FDRMethod string
}

func (cfg Config) validate() error {
	if cfg.NumSamples <= 0 {
		return &ConfigError{Reason: "num_samples must be positive"}
	}
	if cfg.Generator == nil {
		return &ConfigError{Reason: "a workspace generator is required"}
	}
	if len(cfg.Counters) == 0 {
		return &ConfigError{Reason: "at least one counter is required"}
	}
	if cfg.Sampler == nil {
		return &ConfigError{Reason: "a sampler is required"}
	}
	if cfg.FDRMethod != "" && cfg.FDRMethod != "BH" {
		return &ConfigError{Reason: "unsupported fdr method " + cfg.FDRMethod}
	}
	return nil
}

// Results is the full output of a Run: the flat, FDR-corrected sequence
// of AnnotatorResults ordered lexicographically by (counter, track,
// annotation) per spec.md §5, plus the run-wide Counts tally.
type Results struct {
	Rows   []result.AnnotatorResult
	Counts result.Counts
}

// Run drives one full analysis: isochore expansion, sampling,
// counting, AnnotatorResult assembly and FDR correction.
func Run(rc *RunContext, segments, annotations, ws *collection.Collection, cfg Config) (Results, error) {
	if err := cfg.validate(); err != nil {
		return Results{}, err
	}
	pseudoCount := cfg.PseudoCount
	if pseudoCount <= 0 {
		pseudoCount = result.DefaultPseudoCount
	}
	store := cfg.Store
	if store == nil {
		store = samplestore.Ephemeral{}
	}

	segIso, annoIso, wsIso := segments, annotations, ws
	if len(cfg.IsochoreMap) > 0 {
		segIso = segments.ToIsochores(cfg.IsochoreMap)
		annoIso = annotations.ToIsochores(cfg.IsochoreMap)
		wsIso = ws.ToIsochores(cfg.IsochoreMap)
	}

	logger := rc.logger()
	logger.Info("starting run", "tracks", len(segIso.Tracks()), "annotations", len(annoIso.Tracks()), "num_samples", cfg.NumSamples)

	opt := orchestrator.Options{
		NumSamples:  cfg.NumSamples,
		MasterSeed:  cfg.MasterSeed,
		Sampler:     cfg.Sampler,
		Counters:    cfg.Counters,
		Generator:   cfg.Generator,
		Store:       store,
		PseudoCount: pseudoCount,
		Progress: orchestrator.Progress{
			Stats:   rc.OnSampleStats,
			Dump:    rc.OnSampleDump,
			Workers: cfg.Workers,
		},
	}

	nulls, counts, err := orchestrator.Run(rc.context(), segIso, annoIso, wsIso, opt)
	if err != nil {
		logger.Error("run failed", "error", err)
		return Results{}, err
	}
	logger.Info("sampling complete", "counts", counts.String())
	if rc.Metrics != nil {
		rc.Metrics.Pairs.Add(float64(counts.Pairs))
		rc.Metrics.Skipped.Add(float64(counts.Skipped))
		rc.Metrics.Loaded.Add(float64(counts.Loaded))
		rc.Metrics.Sampled.Add(float64(counts.Sampled))
		rc.Metrics.Incomplete.Add(float64(counts.Incomplete))
	}

	// Observed counts are computed on the true, contig-keyed data: any
	// isochore expansion is an artifact of how sampling is stratified
	// and plays no part in what was actually observed.
	rows := assembleResults(segIso.FromIsochores(), annoIso.FromIsochores(), wsIso.FromIsochores(), nulls, cfg, pseudoCount)

	applyFDR(rows)
	return Results{Rows: rows, Counts: *counts}, nil
}

// assembleResults computes observed counts and builds an AnnotatorResult
// per (counter, track, annotation), ordered lexicographically as
// required by spec.md §5.
func assembleResults(segments, annotations, ws *collection.Collection, nulls orchestrator.NullVectors, cfg Config, pseudoCount float64) []result.AnnotatorResult {
	var rows []result.AnnotatorResult
	counterNames := make([]string, 0, len(cfg.Counters))
	byName := make(map[string]counter.Counter, len(cfg.Counters))
	for _, c := range cfg.Counters {
		counterNames = append(counterNames, c.Name())
		byName[c.Name()] = c
	}
	sort.Strings(counterNames)

	for _, counterName := range counterNames {
		byTrack := nulls[counterName]
		tracks := make([]string, 0, len(byTrack))
		for t := range byTrack {
			tracks = append(tracks, t)
		}
		sort.Strings(tracks)

		for _, track := range tracks {
			byAnno := byTrack[track]
			annos := make([]string, 0, len(byAnno))
			for a := range byAnno {
				annos = append(annos, a)
			}
			sort.Strings(annos)

			for _, anno := range annos {
				samples := byAnno[anno]
				observed := observedCount(segments, annotations, ws, byName[counterName], track, anno)
				var reference *result.AnnotatorResult
				if cfg.Reference != nil {
					if byT, ok := cfg.Reference[counterName]; ok {
						if r, ok := byT[track][anno]; ok {
							reference = &r
						}
					}
				}
				rows = append(rows, result.New(track, anno, counterName, observed, samples, pseudoCount, reference))
			}
		}
	}
	return rows
}

// observedCount recomputes the counter's value on the true (unsampled)
// segment collection, summed over contigs, mirroring the reduction the
// orchestrator performs per sample. segments, annotations and ws must
// all be contig-keyed (not isochore-expanded): callers collapse via
// collection.Collection.FromIsochores first, so a plain contig name
// finds its match in every one of the three collections.
func observedCount(segments, annotations, ws *collection.Collection, c counter.Counter, track, annoTrack string) float64 {
	if c == nil {
		return 0
	}
	wsTrack := firstTrack(ws)
	total := 0.0
	for _, contig := range segments.Keys(track) {
		segList := segments.Get(track, contig)
		annoList := annotations.Get(annoTrack, contig)
		wsList := ws.Get(wsTrack, contig)
		total += c.Count(segList, annoList, wsList)
	}
	return total
}

// firstTrack returns the sole track name of a workspace collection
// (spec.md §3: a Workspace is an IntervalCollection with exactly one
// track), or "" if it holds none.
func firstTrack(c *collection.Collection) string {
	tracks := c.Tracks()
	if len(tracks) == 0 {
		return ""
	}
	return tracks[0]
}

// applyFDR fills in QValue for every row, grouped per counter so that
// multiple-testing correction never mixes counters (spec.md §4.9).
func applyFDR(rows []result.AnnotatorResult) {
	byCounter := make(map[string][]int)
	for i, r := range rows {
		byCounter[r.Counter] = append(byCounter[r.Counter], i)
	}
	for _, idxs := range byCounter {
		pvalues := make([]float64, len(idxs))
		for i, idx := range idxs {
			pvalues[i] = rows[idx].PValue
		}
		qvalues := fdr.BenjaminiHochberg(pvalues)
		for i, idx := range idxs {
			rows[idx].QValue = qvalues[i]
		}
	}
}
