// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package result

import (
	"math"
	"math/rand"
	"testing"
)

func TestPValueMonotonicity(t *testing.T) {
	samples := make([]float64, 1000)
	rng := rand.New(rand.NewSource(1))
	for i := range samples {
		samples[i] = rng.Float64() * 10
	}

	high := New("t", "a", "c", 1e6, samples, DefaultPseudoCount, nil)
	wantHigh := 2 * DefaultPseudoCount / (float64(len(samples)) + DefaultPseudoCount)
	if math.Abs(high.PValue-wantHigh) > 1e-9 {
		t.Fatalf("p-value for observed >> max(S) = %v, want %v", high.PValue, wantHigh)
	}

	median := New("t", "a", "c", high.Expected, samples, DefaultPseudoCount, nil)
	if median.PValue < 0.8 {
		t.Fatalf("p-value near the median should approach 1, got %v", median.PValue)
	}
}

func TestFoldUsesPseudoCount(t *testing.T) {
	r := New("t", "a", "c", 5, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 1.0, nil)
	want := (5.0 + 1.0) / (r.Expected + 1.0)
	if r.Fold != want {
		t.Fatalf("Fold = %v, want %v", r.Fold, want)
	}
}

func TestReferenceRecentersTest(t *testing.T) {
	samples := []float64{10, 11, 12, 13, 14}
	ref := New("ref", "a", "c", 12, samples, 1.0, nil)

	// Observed matches the reference's expectation exactly: recentered
	// p-value should be high (no difference from baseline).
	same := New("t", "a", "c", ref.Expected, samples, 1.0, &ref)
	if same.PValue < 0.5 {
		t.Fatalf("expected high p-value when observed matches reference baseline, got %v", same.PValue)
	}
}

func TestEmptyNullGivesNeutralResult(t *testing.T) {
	r := New("t", "a", "c", 7, nil, 1.0, nil)
	if r.Expected != 0 {
		t.Fatalf("Expected = %v, want 0", r.Expected)
	}
	if r.PValue != 1 {
		t.Fatalf("PValue = %v, want 1", r.PValue)
	}
}

func TestCountsConcurrentIncrement(t *testing.T) {
	var c Counts
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.AddPair()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	if c.Pairs != 1000 {
		t.Fatalf("Pairs = %d, want 1000", c.Pairs)
	}
}
