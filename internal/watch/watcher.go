// Package watch polls route table sources (the manifest, chunk directory
// and config file) and reports changes so a running server can reload.
package watch

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ChangeType classifies a changed file.
type ChangeType int

const (
	ChangeOther ChangeType = iota
	ChangeManifest
	ChangeChunk
	ChangeConfig
)

func (t ChangeType) String() string {
	switch t {
	case ChangeManifest:
		return "manifest"
	case ChangeChunk:
		return "chunk"
	case ChangeConfig:
		return "config"
	default:
		return "other"
	}
}

// Change is a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// Config configures a Watcher.
type Config struct {
	// Paths are files or directories to watch.
	Paths []string

	// Ignore lists names, path segments or globs to skip.
	Ignore []string

	// Interval is the polling period. Changes within one period are
	// reported together.
	Interval time.Duration
}

// DefaultIgnore contains patterns skipped when Config.Ignore is empty.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls file modification times.
type Watcher struct {
	config     Config
	onChange   func([]Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	scanned    bool
	timestamps map[string]time.Time
}

// New creates a watcher.
func New(config Config) *Watcher {
	if config.Interval == 0 {
		config.Interval = 250 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback. It receives at most one change per type for
// each polling round, in type order.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done or Stop is called. Files present when
// Start is called are the baseline and are not reported.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.Poll()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.report(w.Poll())
		}
	}
}

// Stop stops a running watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning reports whether Start is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Poll scans the watched paths once and returns what changed since the
// previous scan. The first scan only records the baseline.
func (w *Watcher) Poll() []Change {
	seen := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if p != root && w.shouldIgnore(p) {
					return filepath.SkipDir
				}
				return nil
			}
			if !w.shouldIgnore(p) {
				seen[p] = info.ModTime()
			}
			return nil
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	baseline := !w.scanned
	w.scanned = true
	var changed []string
	for p, mod := range seen {
		last, ok := w.timestamps[p]
		if !ok || mod.After(last) {
			changed = append(changed, p)
		}
	}
	for p := range w.timestamps {
		if _, ok := seen[p]; !ok {
			changed = append(changed, p)
		}
	}
	w.timestamps = seen

	if baseline {
		return nil
	}
	sort.Strings(changed)
	changes := make([]Change, len(changed))
	for i, p := range changed {
		changes[i] = Change{Path: p, Type: Classify(p)}
	}
	return changes
}

// report hands the first change of each type to the callback.
func (w *Watcher) report(changes []Change) {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()
	if callback == nil || len(changes) == 0 {
		return
	}

	byType := make(map[ChangeType]Change)
	for _, c := range changes {
		if _, ok := byType[c.Type]; !ok {
			byType[c.Type] = c
		}
	}
	out := make([]Change, 0, len(byType))
	for _, t := range []ChangeType{ChangeConfig, ChangeManifest, ChangeChunk, ChangeOther} {
		if c, ok := byType[t]; ok {
			out = append(out, c)
		}
	}
	callback(out)
}

// shouldIgnore checks a path against the ignore patterns.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/")
		if strings.ContainsAny(pattern, "*?[") {
			if hasPathSep {
				if matched, _ := path.Match(pattern, normalized); matched {
					return true
				}
			} else if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if pathMatchesSegments(normalized, pattern) {
				return true
			}
			continue
		}
		if pathHasSegment(normalized, pattern) {
			return true
		}
	}
	return false
}

func pathHasSegment(path, segment string) bool {
	for _, part := range splitPathSegments(path) {
		if part == segment {
			return true
		}
	}
	return false
}

func pathMatchesSegments(path, pattern string) bool {
	pathParts := splitPathSegments(path)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		match := true
		for j := range patternParts {
			if pathParts[i+j] != patternParts[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func splitPathSegments(path string) []string {
	parts := strings.Split(path, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// Classify guesses what a changed file is from its extension.
func Classify(p string) ChangeType {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return ChangeManifest
	case ".json":
		return ChangeConfig
	case ".html", ".gohtml", ".tmpl":
		return ChangeChunk
	default:
		return ChangeOther
	}
}
