// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gat

// ConfigError reports an inconsistent combination of run options, e.g.
// sample_files set without output_samples_pattern (spec.md §7). Fatal.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "gat: config error: " + e.Reason }

// InputError reports a malformed interval or counts file (spec.md §7).
// Fatal.
type InputError struct {
	Source string
	Reason string
}

func (e *InputError) Error() string { return "gat: input error in " + e.Source + ": " + e.Reason }

// IOError wraps a failure writing a sink file (spec.md §7). Fatal.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return "gat: io error writing " + e.Path + ": " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }
