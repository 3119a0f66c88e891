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

package text

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/filepilot/pkg/apperr"
	"gitlab.com/tozd/go/errors"
)

// BackupSuffix is appended to the original path for the pristine copy.
const BackupSuffix = ".bak"

// 📦 FileReplaceResult reports one in-place file replacement.
type FileReplaceResult struct {
	Path        string // file that was rewritten
	Occurrences int    // occurrences of the find text in the original content
	BackupPath  string // where the pristine copy was written, empty if none
	WasModified bool   // whether the content actually changed
}

// 📝 Status renders a human-readable status line for the menu.
func (r *FileReplaceResult) Status() string {
	return fmt.Sprintf("Replaced %d occurrence(s) in %s. Backup: %t",
		r.Occurrences, r.Path, r.BackupPath != "")
}

// 🔄 ReplaceInFile reads path as UTF-8 text, optionally writes a pristine
// copy to path+".bak" first, then overwrites the original with every
// occurrence of find replaced by replace.
func ReplaceInFile(ctx context.Context, path, find, replace string, backup bool) (*FileReplaceResult, error) {
	logger := zerolog.Ctx(ctx)

	if find == "" {
		return nil, errors.Errorf("%w: find text is required", apperr.ErrInput)
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errors.Errorf("%w: file not found: %s", apperr.ErrIO, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading %s: %w", apperr.ErrIO, path, err)
	}
	if !utf8.Valid(content) {
		return nil, errors.Errorf("%w: %s is not valid UTF-8 text", apperr.ErrIO, path)
	}

	result := &FileReplaceResult{
		Path:        path,
		Occurrences: bytes.Count(content, []byte(find)),
	}

	if backup {
		backupPath := path + BackupSuffix
		if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
			return nil, errors.Errorf("%w: writing backup %s: %w", apperr.ErrIO, backupPath, err)
		}
		result.BackupPath = backupPath
	}

	replaced, err := NewReplacer().ReplaceText(ctx, bytes.NewReader(content), []ReplacementRule{
		{FromText: find, ToText: replace},
	})
	if err != nil {
		return nil, errors.Errorf("%w: replacing in %s: %w", apperr.ErrIO, path, err)
	}
	result.WasModified = replaced.WasModified

	if err := os.WriteFile(path, replaced.ModifiedContent, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("%w: writing %s: %w", apperr.ErrIO, path, err)
	}

	logger.Debug().
		Str("path", path).
		Int("occurrences", result.Occurrences).
		Bool("backup", backup).
		Msg("replaced text in file")

	return result, nil
}
