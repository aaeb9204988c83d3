// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdr

import (
	"sort"
	"testing"
)

func TestBenjaminiHochbergMonotoneBySortedPvalue(t *testing.T) {
	p := []float64{0.01, 0.5, 0.2, 0.005, 0.9, 0.3}
	q := BenjaminiHochberg(p)

	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return p[idx[i]] < p[idx[j]] })

	for i := 1; i < len(idx); i++ {
		if q[idx[i]] < q[idx[i-1]] {
			t.Fatalf("q-values not monotone non-decreasing by sorted p-value: %v", q)
		}
	}
}

func TestBenjaminiHochbergAllOnesWhenAllPvaluesOne(t *testing.T) {
	p := []float64{1, 1, 1, 1}
	q := BenjaminiHochberg(p)
	for _, v := range q {
		if v != 1 {
			t.Fatalf("expected all q-values == 1, got %v", q)
		}
	}
}

func TestBenjaminiHochbergSingleValue(t *testing.T) {
	q := BenjaminiHochberg([]float64{0.03})
	if len(q) != 1 || q[0] != 0.03 {
		t.Fatalf("q = %v, want [0.03]", q)
	}
}

func TestBenjaminiHochbergEmpty(t *testing.T) {
	if q := BenjaminiHochberg(nil); len(q) != 0 {
		t.Fatalf("expected empty result, got %v", q)
	}
}
