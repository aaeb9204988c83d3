// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fdr applies Benjamini–Hochberg multiple-testing correction
// across a flat sequence of p-values, per spec.md §4.9.
package fdr

import "sort"

// BenjaminiHochberg returns q-values aligned index-for-index with
// pvalues: sorted by p-value ascending, rank i (1-based),
// q_i = min_{j>=i}(p_j * m / j), clamped to <= 1.
func BenjaminiHochberg(pvalues []float64) []float64 {
	m := len(pvalues)
	qvalues := make([]float64, m)
	if m == 0 {
		return qvalues
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return pvalues[order[i]] < pvalues[order[j]] })

	ranked := make([]float64, m)
	for rank, idx := range order {
		ranked[rank] = pvalues[idx] * float64(m) / float64(rank+1)
	}

	// Running minimum from the back enforces monotonicity: q_i =
	// min_{j>=i}(ranked_j).
	min := ranked[m-1]
	if min > 1 {
		min = 1
	}
	ranked[m-1] = min
	for i := m - 2; i >= 0; i-- {
		if ranked[i] > ranked[i+1] {
			ranked[i] = ranked[i+1]
		}
		if ranked[i] > 1 {
			ranked[i] = 1
		}
	}

	for rank, idx := range order {
		qvalues[idx] = ranked[rank]
	}
	return qvalues
}
