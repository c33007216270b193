// Package cache persists the set of content digests already extracted, so an
// unchanged file is never re-submitted to the extractor across runs.
package cache

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ProcessedSet is a file-backed, append-only set of hex digests.
// The on-disk format is plain text, one digest per line, no header.
type ProcessedSet struct {
	path   string
	seen   map[string]struct{}
	logger *slog.Logger
}

// Load reads the full digest list into memory. A missing file is not an
// error: the set starts empty and the file is created on the first Mark.
func Load(path string, logger *slog.Logger) (*ProcessedSet, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProcessedSet{
		path:   path,
		seen:   make(map[string]struct{}),
		logger: logger,
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("cache.load.empty", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			logger.Warn("cache.file.close_error", "path", path, "error", err)
		}
	}(f)

	sc := bufio.NewScanner(f)
	lines := 0
	for sc.Scan() {
		digest := strings.TrimSpace(sc.Text())
		if digest == "" {
			continue
		}
		s.seen[digest] = struct{}{}
		lines++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	logger.Info("cache.load.ok", "path", path, "entries", lines, "unique", len(s.seen))
	return s, nil
}

// Contains reports whether the digest was already processed.
func (s *ProcessedSet) Contains(digest string) bool {
	_, ok := s.seen[digest]
	return ok
}

// Mark appends the digest to the persisted list and adds it to the in-memory
// set. Entries already present are appended again rather than deduplicated;
// duplicate lines are harmless on load.
func (s *ProcessedSet) Mark(digest string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open cache file for append: %w", err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			s.logger.Warn("cache.file.close_error", "path", s.path, "error", err)
		}
	}(f)

	if _, err := f.WriteString(digest + "\n"); err != nil {
		return fmt.Errorf("append digest: %w", err)
	}
	s.seen[digest] = struct{}{}
	return nil
}

// Len returns the number of distinct digests known to the set.
func (s *ProcessedSet) Len() int {
	return len(s.seen)
}
