// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging sets up structured logging for gat, replacing the
// gat Python source's global E.info/E.debug/E.warn calls
// (Experiment.py) with leveled slog output. A stderr handler is always
// present; an optional debug log file is fanned in with
// samber/slog-multi, following the logging setup idiom in
// abh-rrrgo/cmd/rrr-server/main.go.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options configures the logger.
type Options struct {
	// Verbose sets the stderr handler to slog.LevelDebug instead of
	// slog.LevelInfo.
	Verbose bool
	// DebugLogPath, if non-empty, additionally writes every record at
	// slog.LevelDebug or above to the named file.
	DebugLogPath string
}

// New builds a *slog.Logger per Options. The caller is responsible for
// closing the returned io.Closer (non-nil only if a debug log file was
// opened).
func New(opt Options) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if opt.Verbose {
		level = slog.LevelDebug
	}
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	if opt.DebugLogPath == "" {
		return slog.New(stderrHandler), nil, nil
	}

	f, err := os.OpenFile(opt.DebugLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})

	handler := slogmulti.Fanout(stderrHandler, fileHandler)
	return slog.New(handler), f, nil
}
