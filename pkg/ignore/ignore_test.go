package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleSet_MatchName(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		input    string
		want     bool
	}{
		{
			name:     "literal_match",
			patterns: []string{".git", "venv"},
			input:    ".git",
			want:     true,
		},
		{
			name:     "literal_no_match",
			patterns: []string{".git", "venv"},
			input:    "src",
			want:     false,
		},
		{
			name:     "suffix_glob_match",
			patterns: []string{"*.pyc"},
			input:    "module.pyc",
			want:     true,
		},
		{
			name:     "suffix_glob_no_match",
			patterns: []string{"*.pyc"},
			input:    "module.py",
			want:     false,
		},
		{
			name:     "empty_pattern_ignored",
			patterns: []string{""},
			input:    "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := New(tt.patterns...)
			assert.Equal(t, tt.want, rs.MatchName(tt.input), "MatchName(%q)", tt.input)
		})
	}
}

func TestRuleSet_MatchPath(t *testing.T) {
	rs := Default()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "inside_git_dir", path: ".git/config", want: true},
		{name: "inside_venv", path: "venv/lib.py", want: true},
		{name: "plain_source_file", path: "src/a.py", want: false},
		{name: "log_suffix", path: "logs/app.log", want: true},
		{name: "backup_suffix", path: "notes.txt.bak", want: true},
		{name: "nested_pycache", path: "src/__pycache__/a.cpython-311.pyc", want: true},
		{name: "ds_store", path: "docs/.DS_Store", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.MatchPath(tt.path), "MatchPath(%q)", tt.path)
		})
	}
}
