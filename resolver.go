package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// defaultSkipMarkers are path fragments identifying infrastructure noise
// (VCS metadata, dependency caches, build output). Directories matching
// any of them are never descended into.
var defaultSkipMarkers = []string{
	".git",
	".venv",
	"node_modules",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	"dist",
	"build",
}

// ScanConfig is the filter set applied while resolving paths. It is built
// once per run and passed by value; nothing mutates it afterwards.
type ScanConfig struct {
	Extensions   []string // lowercase, leading dot; empty allows all files
	SkipMarkers  []string // lowercase path fragments for directory skipping
	UseGitignore bool     // also honor a .gitignore at the walk root
	MaxSizeBytes int64    // 0 means no limit
}

// parseExtensions normalizes a comma-separated extension list. Entries
// are lowercased and get a leading dot if missing; blanks are dropped.
func parseExtensions(raw string) []string {
	var exts []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

func (c ScanConfig) allowsExtension(path string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range c.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (c ScanConfig) skipsDir(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, marker := range c.SkipMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// resolvePaths expands root (a file or a directory) into the candidate
// file list. A missing root is the only fatal condition in the whole run.
// Results are sorted alphabetically so tied token counts later break the
// same way on every platform, regardless of walk order.
func resolvePaths(root string, cfg ScanConfig) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", root)
		}
		return nil, fmt.Errorf("accessing path %s: %w", root, err)
	}

	if !info.IsDir() {
		if !cfg.allowsExtension(root) {
			return nil, nil
		}
		if cfg.MaxSizeBytes > 0 && info.Size() > cfg.MaxSizeBytes {
			return nil, nil
		}
		return []string{root}, nil
	}

	var matcher gitignore.IgnoreMatcher
	if cfg.UseGitignore {
		giPath := filepath.Join(root, ".gitignore")
		if _, statErr := os.Stat(giPath); statErr == nil {
			m, giErr := gitignore.NewGitIgnore(giPath)
			if giErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not parse %s: %v\n", giPath, giErr)
			} else {
				matcher = m
			}
		}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error accessing %s: %v\n", path, walkErr)
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			if cfg.skipsDir(path) {
				return fs.SkipDir
			}
			if matcher != nil {
				if rel, relErr := filepath.Rel(root, path); relErr == nil && matcher.Match(rel, true) {
					return fs.SkipDir
				}
			}
			return nil
		}
		if !cfg.allowsExtension(path) {
			return nil
		}
		if matcher != nil {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && matcher.Match(rel, false) {
				return nil
			}
		}
		if cfg.MaxSizeBytes > 0 {
			fi, infoErr := d.Info()
			if infoErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not stat %s: %v\n", path, infoErr)
				return nil
			}
			if fi.Size() > cfg.MaxSizeBytes {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// readText reads a file as UTF-8, dropping invalid byte sequences.
func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), ""), nil
}

// text returns the UTF-8 content for estimation. ok is false when the
// file could not be read; the warning has already been printed and the
// source is excluded from the report.
func (s fileSource) text() (string, bool) {
	if s.Content != nil {
		return strings.ToValidUTF8(string(s.Content), ""), true
	}
	content, err := readText(s.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Could not read %s: %v\n", s.Path, err)
		return "", false
	}
	return content, true
}
