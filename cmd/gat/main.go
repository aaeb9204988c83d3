// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gat runs a genomic interval enrichment analysis by Monte
// Carlo resampling: given segment, annotation and workspace files in
// BED format, it estimates whether observed overlap is larger or
// smaller than expected under a segment-length-preserving null model.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biogo/gat/internal/collection"
	"github.com/biogo/gat/internal/counter"
	"github.com/biogo/gat/internal/metrics"
	"github.com/biogo/gat/internal/result"
	"github.com/biogo/gat/internal/sampler"
	"github.com/biogo/gat/internal/samplestore"
	"github.com/biogo/gat/internal/segment"
	"github.com/biogo/gat/internal/workspace"

	"github.com/biogo/gat"
	"github.com/biogo/gat/internal/bedio"
	"github.com/biogo/gat/internal/logging"
)

// cli mirrors the configuration table of spec.md §6, plus the file
// arguments the out-of-scope parser collaborators produce.
var cli struct {
	Segments    string `arg:"" help:"BED file of observed segments."`
	Annotations string `arg:"" help:"BED file of annotations to test."`
	Workspace   string `arg:"" help:"BED file bounding where sampling is permitted."`

	NumSamples   int     `name:"num-samples" default:"1000" help:"Number of null samples to draw per track."`
	Seed         int64   `name:"seed" default:"1" help:"Master RNG seed."`
	PseudoCount  float64 `name:"pseudo-count" default:"1.0" help:"Pseudo-count used in fold-change and p-value."`
	Workers      int     `name:"workers" default:"1" help:"Bounded worker-pool size for the sampling loop."`
	Conditional  bool    `name:"conditional" help:"Use the conditional workspace generator instead of unconditional."`
	Counter      string  `name:"counter" default:"nucleotide-overlap" enum:"nucleotide-overlap,segment-overlap,annotation-overlap,nucleotide-density" help:"Counter to apply."`
	FDR          string  `name:"fdr" default:"BH" help:"Multiple-testing correction method."`

	Cache                string   `name:"cache" help:"Directory for cached on-disk samples; empty disables caching."`
	SampleFiles          []string `name:"sample-files" help:"Pre-generated sample dump files to read instead of sampling."`
	SampleFilesPattern   string   `name:"sample-files-pattern" help:"Pattern with a %s placeholder matching track names in --sample-files."`
	OutputCountsPattern  string   `name:"output-counts-pattern" help:"Path with a %s placeholder for the counter name; writes the counts dump sink."`
	OutputSamplesPattern string   `name:"output-samples-pattern" help:"Path with a %s placeholder for the track name; writes the sample dump sink."`
	OutfileSampleStats   string   `name:"outfile-sample-stats" help:"Path for the sample-stats sink."`

	DebugLog string `name:"debug-log" help:"Optional debug log file."`
	Verbose  bool   `name:"verbose" short:"v" help:"Enable debug-level stderr logging."`
	Metrics  string `name:"metrics-addr" help:"If set, serve Prometheus metrics on this address (e.g. :9090) for the run's duration."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("gat"),
		kong.Description("Genomic Association Tester: interval enrichment by Monte Carlo resampling."))

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gat:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, closer, err := logging.New(logging.Options{Verbose: cli.Verbose, DebugLogPath: cli.DebugLog})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	var reg *metrics.Registry
	if cli.Metrics != "" {
		promReg := prometheus.NewRegistry()
		reg = metrics.NewRegistry(promReg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cli.Metrics, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	segments, err := readBED(cli.Segments, "segments")
	if err != nil {
		return err
	}
	annotations, err := readBED(cli.Annotations, "annotations")
	if err != nil {
		return err
	}
	workspaceColl, err := readBED(cli.Workspace, "workspace")
	if err != nil {
		return err
	}

	store, err := buildStore()
	if err != nil {
		return err
	}

	var statsWriter *gat.SampleStatsWriter
	var statsFile *os.File
	if cli.OutfileSampleStats != "" {
		statsFile, err = os.Create(cli.OutfileSampleStats)
		if err != nil {
			return &gat.IOError{Path: cli.OutfileSampleStats, Err: err}
		}
		defer statsFile.Close()
		statsWriter = gat.NewSampleStatsWriter(statsFile)
	}

	var dumpWriter *gat.SampleDumpWriter
	if cli.OutputSamplesPattern != "" {
		dumpWriter = gat.NewSampleDumpWriter(cli.OutputSamplesPattern)
		defer dumpWriter.Close()
	}

	rc := &gat.RunContext{
		Context: context.Background(),
		Logger:  logger,
		Metrics: reg,
	}
	if statsWriter != nil {
		rc.OnSampleStats = statsWriter.Stats
	}
	if dumpWriter != nil {
		rc.OnSampleDump = func(track, sampleID, isochore string, ivs []segment.Interval) {
			if err := dumpWriter.Dump(track, sampleID, isochore, ivs); err != nil {
				logger.Warn("sample dump write failed", "track", track, "error", err)
			}
		}
	}

	cfg := gat.Config{
		NumSamples:  cli.NumSamples,
		MasterSeed:  cli.Seed,
		PseudoCount: cli.PseudoCount,
		Workers:     cli.Workers,
		Generator:   selectGenerator(),
		Counters:    []counter.Counter{selectCounter()},
		Sampler:     sampler.SegmentPreserving{},
		Store:       store,
		FDRMethod:   cli.FDR,
	}

	results, err := gat.Run(rc, segments, annotations, workspaceColl, cfg)
	if err != nil {
		return err
	}
	if statsWriter != nil {
		if err := statsWriter.Flush(); err != nil {
			return err
		}
	}

	if cli.OutputCountsPattern != "" {
		grouped := make(map[string][]result.AnnotatorResult)
		for _, row := range results.Rows {
			grouped[row.Counter] = append(grouped[row.Counter], row)
		}
		for counterName, rows := range grouped {
			path := fmt.Sprintf(cli.OutputCountsPattern, counterName)
			f, err := os.Create(path)
			if err != nil {
				return &gat.IOError{Path: path, Err: err}
			}
			err = gat.WriteCountsDump(f, rows)
			f.Close()
			if err != nil {
				return err
			}
		}
	}

	for _, row := range results.Rows {
		fmt.Println(row.String())
	}
	logger.Info("done", "counts", results.Counts.String())
	return nil
}

func readBED(path, defaultTrack string) (*collection.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &gat.InputError{Source: path, Reason: err.Error()}
	}
	defer f.Close()
	c, err := bedio.ReadCollection(f, defaultTrack)
	if err != nil {
		return nil, &gat.InputError{Source: path, Reason: err.Error()}
	}
	return c, nil
}

func buildStore() (samplestore.Store, error) {
	switch {
	case len(cli.SampleFiles) > 0:
		if cli.SampleFilesPattern == "" {
			return nil, &gat.ConfigError{Reason: "sample-files set without sample-files-pattern"}
		}
		return samplestore.NewFromFiles(cli.SampleFiles, cli.SampleFilesPattern)
	case cli.Cache != "":
		return samplestore.NewCached(cli.Cache), nil
	default:
		return samplestore.Ephemeral{}, nil
	}
}

func selectGenerator() workspace.Generator {
	if cli.Conditional {
		return workspace.Conditional{RequireAnnotation: true}
	}
	return workspace.Unconditional{}
}

func selectCounter() counter.Counter {
	switch cli.Counter {
	case "segment-overlap":
		return counter.SegmentOverlap{}
	case "annotation-overlap":
		return counter.AnnotationOverlap{}
	case "nucleotide-density":
		return counter.NucleotideDensity{}
	default:
		return counter.NucleotideOverlap{}
	}
}
