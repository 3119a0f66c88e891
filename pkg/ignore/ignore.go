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

// Package ignore provides the immutable ignore-rule set used when mirroring
// a local folder into a remote repository.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// 🧹 RuleSet is an immutable set of ignore rules: literal names plus glob
// patterns (typically suffix globs like "*.pyc"). A path matches when its
// own name or any ancestor directory name matches a rule.
type RuleSet struct {
	names map[string]struct{}
	globs []string
}

// 📋 DefaultPatterns returns the built-in ignore patterns: version-control
// metadata, dependency caches, virtual environments, editor settings, and
// common junk-file suffixes.
func DefaultPatterns() []string {
	return []string{
		".env", ".env.local", ".env.*.local",
		"venv", ".venv", "env",
		"__pycache__", "*.pyc", "*.pyo", "*.pyd",
		"node_modules", ".git", ".vscode", ".idea",
		"*.log", "*.bak", "*.swp", "*.tmp",
		".DS_Store", "Thumbs.db",
	}
}

// 🏭 New builds a RuleSet from the given patterns. Patterns containing glob
// metacharacters are matched with doublestar; everything else is a literal
// name match.
func New(patterns ...string) RuleSet {
	rs := RuleSet{names: make(map[string]struct{})}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.ContainsAny(p, "*?[") {
			rs.globs = append(rs.globs, p)
		} else {
			rs.names[p] = struct{}{}
		}
	}
	return rs
}

// 🏭 Default returns the RuleSet built from DefaultPatterns.
func Default() RuleSet {
	return New(DefaultPatterns()...)
}

// 🔍 MatchName reports whether a single file or directory name matches any
// rule.
func (r RuleSet) MatchName(name string) bool {
	if _, ok := r.names[name]; ok {
		return true
	}
	for _, g := range r.globs {
		matched, err := doublestar.Match(g, name)
		if err != nil {
			// Invalid pattern, never matches.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// 🔍 MatchPath reports whether any segment of a slash- or OS-separated
// relative path matches a rule. This catches files nested inside ignored
// directories.
func (r RuleSet) MatchPath(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if r.MatchName(seg) {
			return true
		}
	}
	return false
}
