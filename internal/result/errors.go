// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package result

// IncompleteSampleError records that the sampler's retry budget was
// exhausted for a given (track, sample_id, isochore); the partial
// sample is used and counted in Counts.Incomplete (spec.md §7). No
// warning is logged for it. It is recoverable: the orchestrator
// continues the run.
type IncompleteSampleError struct {
	Track, SampleID, Isochore string
}

func (e *IncompleteSampleError) Error() string {
	return "gat: incomplete sample for track " + e.Track + " sample " + e.SampleID + " isochore " + e.Isochore
}

// InfeasibleSampleError records that the workspace was too small to
// accommodate the segments for a given (track, sample_id, isochore).
// It is recoverable: counted in Counts.Skipped, computation continues
// with an empty null (spec.md §7).
type InfeasibleSampleError struct {
	Track, SampleID, Isochore string
}

func (e *InfeasibleSampleError) Error() string {
	return "gat: infeasible sample for track " + e.Track + " sample " + e.SampleID + " isochore " + e.Isochore
}
