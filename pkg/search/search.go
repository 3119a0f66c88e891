// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search implements recursive, root-scoped fuzzy name search over
// the local filesystem.
package search

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Defaults
const (
	// DefaultMaxResults caps a search when the query does not specify one.
	DefaultMaxResults = 25

	// RootsEnvVar overrides the default search roots with a
	// semicolon-separated list of absolute paths.
	RootsEnvVar = "FILEPILOT_SEARCH_ROOTS"
)

// 🔍 Query describes one search invocation.
type Query struct {
	Name       string   // literal name or glob, matched case-insensitively
	Extensions []string // when set, only files with these extensions match
	MaxResults int      // result cap; DefaultMaxResults when <= 0
	Roots      []string // explicit roots; DefaultRoots when empty
}

// errCapReached stops the walk once enough results have accumulated.
var errCapReached = errors.Base("result cap reached")

// 🏃 Find returns matching absolute paths in traversal order, visiting roots
// in the order given and walking each depth-first. Inaccessible roots and
// directories are silently skipped; no matches yields an empty slice.
func Find(ctx context.Context, q Query) []string {
	logger := zerolog.Ctx(ctx)

	patterns := []string{strings.ToLower(q.Name)}
	if !strings.ContainsAny(q.Name, "*?[") {
		// Non-glob queries also match as a substring.
		patterns = append(patterns, "*"+strings.ToLower(q.Name)+"*")
	}

	max := q.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}

	roots := q.Roots
	if len(roots) == 0 {
		roots = DefaultRoots(ctx)
	}

	exts := make(map[string]struct{}, len(q.Extensions))
	for _, e := range q.Extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}

	results := make([]string, 0, max)
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Inaccessible entries never surface as traversal errors.
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if path == root {
				return nil
			}

			matched := matchAny(patterns, strings.ToLower(d.Name()))

			if d.IsDir() {
				// Directories are only eligible without an extension filter.
				if matched && len(exts) == 0 {
					results = append(results, path)
					if len(results) >= max {
						return errCapReached
					}
				}
				return nil
			}

			if !matched {
				return nil
			}
			if len(exts) > 0 {
				if _, ok := exts[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
					return nil
				}
			}

			results = append(results, path)
			if len(results) >= max {
				return errCapReached
			}
			return nil
		})
		if errors.Is(err, errCapReached) {
			break
		}
		if err != nil {
			logger.Debug().Str("root", root).Err(err).Msg("skipping search root")
		}
	}

	return results
}

// 🔍 matchAny reports whether any pattern matches the (lowered) name.
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		matched, err := doublestar.Match(p, name)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// 🏠 DefaultRoots computes the traversal starting points: the env override
// when set, otherwise the user's Desktop/Documents/Downloads folders (when
// present), the current working directory, and any extra mounted volumes.
// The result is deduplicated with order preserved.
func DefaultRoots(ctx context.Context) []string {
	if env := os.Getenv(RootsEnvVar); env != "" {
		var roots []string
		for _, p := range strings.Split(env, ";") {
			p = strings.Trim(strings.TrimSpace(p), `"`)
			if p == "" {
				continue
			}
			abs, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			if _, err := os.Stat(abs); err == nil {
				roots = append(roots, abs)
			}
		}
		return dedup(roots)
	}

	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		for _, sub := range []string{"Desktop", "Documents", "Downloads"} {
			p := filepath.Join(home, sub)
			if isDir(p) {
				roots = append(roots, p)
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	roots = append(roots, extraVolumes()...)

	return dedup(roots)
}

// 💽 extraVolumes probes for additional top-level volumes per platform.
func extraVolumes() []string {
	var candidates []string
	switch runtime.GOOS {
	case "windows":
		candidates = []string{`D:\`, `E:\`}
	case "darwin":
		candidates = listDirs("/Volumes")
	default:
		candidates = append(listDirs("/mnt"), listDirs("/media")...)
	}

	var out []string
	for _, c := range candidates {
		if isDir(c) {
			out = append(out, c)
		}
	}
	return out
}

// 📂 listDirs returns the immediate subdirectories of dir, or nil.
func listDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
