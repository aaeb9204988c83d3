// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics exposes prometheus counters mirroring
// internal/result.Counts, grounded on abh-rrrgo's use of
// prometheus/client_golang for run-level instrumentation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the gat run-counters and a per-track sampling
// duration histogram under one prometheus.Registerer. gat.Run adds the
// run's Counts to the counters; nothing in gat records into SampleTime.
type Registry struct {
	Pairs       prometheus.Counter
	Skipped     prometheus.Counter
	Loaded      prometheus.Counter
	Sampled     prometheus.Counter
	Incomplete  prometheus.Counter
	SampleTime  *prometheus.HistogramVec
}

// NewRegistry constructs and registers a Registry against reg. Passing
// a fresh prometheus.NewRegistry() keeps gat's metrics isolated from
// the default global registry.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		Pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gat_pairs_total",
			Help: "Number of (sample, isochore) pairs considered for sampling.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gat_skipped_total",
			Help: "Number of (sample, isochore) pairs skipped because the workspace or segments were empty or the workspace was too small.",
		}),
		Loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gat_loaded_total",
			Help: "Number of null samples loaded from a SampleStore instead of generated.",
		}),
		Sampled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gat_sampled_total",
			Help: "Number of null samples generated by the sampler.",
		}),
		Incomplete: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gat_incomplete_total",
			Help: "Number of samples that exhausted their retry budget before placing every segment.",
		}),
		SampleTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gat_samples_duration_seconds",
			Help:    "Wall time spent generating the null samples for one track.",
			Buckets: prometheus.DefBuckets,
		}, []string{"track"}),
	}
	reg.MustRegister(r.Pairs, r.Skipped, r.Loaded, r.Sampled, r.Incomplete, r.SampleTime)
	return r
}
