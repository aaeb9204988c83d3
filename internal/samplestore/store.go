// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package samplestore implements the three SampleStore variants from
// spec.md §4.6: ephemeral (never hits), cached-on-disk (persisted,
// never evicted during a run) and pre-generated-from-files (read-only,
// matched by a %s filename pattern).
package samplestore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/biogo/gat/internal/segment"
)

// Store is the SampleStore capability: presence is authoritative — when
// HasSample reports true, the orchestrator uses Load's result verbatim
// instead of calling the sampler.
type Store interface {
	HasSample(track, sampleID, isochore string) bool
	Load(track, sampleID, isochore string) (*segment.List, error)
	Save(track, sampleID, isochore string, l *segment.List) error
}

// Ephemeral never reports a hit; Save is a no-op. This is the default
// store when no cache or pre-generated samples are configured.
type Ephemeral struct{}

func (Ephemeral) HasSample(string, string, string) bool { return false }
func (Ephemeral) Load(string, string, string) (*segment.List, error) {
	return nil, fmt.Errorf("samplestore: Load called on Ephemeral store")
}
func (Ephemeral) Save(string, string, string, *segment.List) error { return nil }

// key builds the explicit (track, sample_id, isochore) key used to
// name cache entries, in the MarshalInt-style explicit-key discipline
// of kortschak-ins/internal/store.
func key(track, sampleID, isochore string) string {
	return track + "\x1f" + sampleID + "\x1f" + isochore
}

// Cached is a key-addressed, on-disk SampleStore: each file is named by
// the FNV-32a hash of its (track, sample_id, isochore) key. Entries are
// never evicted during a run; each key is written as a gob-encoded
// file under Dir.
type Cached struct {
	Dir string

	mu   sync.Mutex
	seen map[string]bool
}

func NewCached(dir string) *Cached {
	return &Cached{Dir: dir, seen: make(map[string]bool)}
}

func (c *Cached) path(track, sampleID, isochore string) string {
	h := fnv.New32a()
	h.Write([]byte(key(track, sampleID, isochore)))
	return filepath.Join(c.Dir, fmt.Sprintf("%x.gob", h.Sum32()))
}

func (c *Cached) HasSample(track, sampleID, isochore string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(track, sampleID, isochore)
	if c.seen[k] {
		return true
	}
	_, err := os.Stat(c.path(track, sampleID, isochore))
	return err == nil
}

func (c *Cached) Load(track, sampleID, isochore string) (*segment.List, error) {
	f, err := os.Open(c.path(track, sampleID, isochore))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ivs []segment.Interval
	if err := gob.NewDecoder(f).Decode(&ivs); err != nil {
		return nil, err
	}
	return segment.FromIntervals(ivs), nil
}

func (c *Cached) Save(track, sampleID, isochore string, l *segment.List) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(l.Intervals()); err != nil {
		return err
	}
	if err := os.WriteFile(c.path(track, sampleID, isochore), buf.Bytes(), 0o644); err != nil {
		return err
	}
	c.mu.Lock()
	c.seen[key(track, sampleID, isochore)] = true
	c.mu.Unlock()
	return nil
}

// FromFiles is a read-only store backed by previously dumped sample
// files, matched via a filename pattern where %s denotes the track
// name (spec.md §4.6, "Pre-generated-from-files").
//
// Each file follows the sample dump sink format of spec.md §6: a header
// line "track name=<sample_id>" followed by "isochore\tstart\tend" rows.
type FromFiles struct {
	pattern *regexp.Regexp
	data    map[string]map[string]map[string]*segment.List // track -> sampleID -> isochore
}

// NewFromFiles parses filenames matching pattern (with %s replaced by
// a capture group) and indexes their contents.
func NewFromFiles(filenames []string, pattern string) (*FromFiles, error) {
	re, err := regexp.Compile(strings.ReplaceAll(regexp.QuoteMeta(pattern), `%s`, `(\S+)`))
	if err != nil {
		return nil, fmt.Errorf("samplestore: invalid pattern %q: %w", pattern, err)
	}
	fs := &FromFiles{pattern: re, data: make(map[string]map[string]map[string]*segment.List)}
	for _, fn := range filenames {
		m := re.FindStringSubmatch(fn)
		if m == nil {
			return nil, fmt.Errorf("samplestore: %q does not match pattern %q", fn, pattern)
		}
		track := m[1]
		if err := fs.load(track, fn); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func (fs *FromFiles) load(track, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	bySample, ok := fs.data[track]
	if !ok {
		bySample = make(map[string]map[string]*segment.List)
		fs.data[track] = bySample
	}
	var sampleID string
	var byIsochore map[string]*segment.List
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "track name=") {
			sampleID = strings.TrimPrefix(line, "track name=")
			byIsochore = make(map[string]*segment.List)
			bySample[sampleID] = byIsochore
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return fmt.Errorf("samplestore: malformed sample dump line %q", line)
		}
		isochore := fields[0]
		var start, end int
		if _, err := fmt.Sscanf(fields[1]+" "+fields[2], "%d %d", &start, &end); err != nil {
			return fmt.Errorf("samplestore: malformed sample dump line %q: %w", line, err)
		}
		l, ok := byIsochore[isochore]
		if !ok {
			l = segment.New()
			byIsochore[isochore] = l
		}
		l.Add(start, end)
	}
	for _, l := range byIsochore {
		l.Normalize()
	}
	return nil
}

func (fs *FromFiles) HasSample(track, sampleID, isochore string) bool {
	bySample, ok := fs.data[track]
	if !ok {
		return false
	}
	byIsochore, ok := bySample[sampleID]
	if !ok {
		return false
	}
	_, ok = byIsochore[isochore]
	return ok
}

func (fs *FromFiles) Load(track, sampleID, isochore string) (*segment.List, error) {
	bySample, ok := fs.data[track]
	if !ok {
		return nil, fmt.Errorf("samplestore: no samples for track %q", track)
	}
	byIsochore, ok := bySample[sampleID]
	if !ok {
		return nil, fmt.Errorf("samplestore: no sample %q for track %q", sampleID, track)
	}
	l, ok := byIsochore[isochore]
	if !ok {
		return nil, fmt.Errorf("samplestore: no isochore %q in sample %q of track %q", isochore, sampleID, track)
	}
	return l, nil
}

func (fs *FromFiles) Save(string, string, string, *segment.List) error {
	return fmt.Errorf("samplestore: FromFiles is read-only")
}
