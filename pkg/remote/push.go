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

package remote

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/filepilot/pkg/apperr"
	"github.com/walteh/filepilot/pkg/ignore"
	"github.com/walteh/filepilot/pkg/log"
	"github.com/walteh/filepilot/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// 🔧 PushOptions controls repository resolution.
type PushOptions struct {
	CreateMissing bool // create the repository when it does not exist
	Private       bool // visibility for a created repository
}

// 📦 RepositoryFile is one file's desired state in the remote repository:
// where it goes, where it comes from, and its commit message.
type RepositoryFile struct {
	Path      string // repository-relative destination path
	LocalPath string // local source file
	Message   string // commit message for this file's transaction
}

// 📊 PushSummary reports one push batch. Per-file failures are collected
// here; they never abort the batch.
type PushSummary struct {
	Repository string
	Created    int
	Updated    int
	Skipped    int
	Failed     int
	Failures   []FileFailure
}

// ⚠️ FileFailure records one failed file transaction.
type FileFailure struct {
	Path string
	Err  error
}

// 📝 Status renders a one-line batch summary.
func (s *PushSummary) Status() string {
	return fmt.Sprintf("%s: %d created, %d updated, %d skipped, %d failed",
		s.Repository, s.Created, s.Updated, s.Skipped, s.Failed)
}

// 🚚 Pusher mirrors local folders into remote repositories, one file
// transaction at a time. There is no atomic multi-file commit and no
// rollback: a failure partway leaves earlier files committed.
type Pusher struct {
	provider Provider
	rules    ignore.RuleSet
	display  *log.Logger // optional per-file console display
}

// 🏭 NewPusher creates a Pusher. display may be nil.
func NewPusher(provider Provider, rules ignore.RuleSet, display *log.Logger) *Pusher {
	return &Pusher{
		provider: provider,
		rules:    rules,
		display:  display,
	}
}

// 🏃 PushFolder makes the remote repository's tracked text files match the
// local folder's text files. Files are pushed in filesystem traversal
// order, sequentially.
func (p *Pusher) PushFolder(ctx context.Context, repoName, folder, message string, opts PushOptions) (*PushSummary, error) {
	logger := zerolog.Ctx(ctx)

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return nil, errors.Errorf("%w: resolving folder path: %w", apperr.ErrInput, err)
	}
	info, err := os.Stat(absFolder)
	if err != nil || !info.IsDir() {
		return nil, errors.Errorf("%w: local folder not found: %s", apperr.ErrInput, absFolder)
	}

	repo, err := p.resolveRepository(ctx, repoName, opts)
	if err != nil {
		return nil, err
	}

	summary := &PushSummary{Repository: repo.FullName()}
	logger.Info().Str("folder", absFolder).Str("repo", repo.FullName()).Msg("starting push")

	walkErr := filepath.WalkDir(absFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Str("path", path).Err(err).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// Prune ignored directories before descending into them.
			if path != absFolder && p.rules.MatchName(d.Name()) {
				logger.Debug().Str("dir", path).Msg("pruned ignored directory")
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absFolder, path)
		if err != nil {
			return nil
		}
		remotePath := filepath.ToSlash(rel)

		p.pushOne(ctx, repo, remotePath, path, message, summary)
		return nil
	})
	if walkErr != nil {
		return summary, errors.Errorf("%w: walking folder: %w", apperr.ErrIO, walkErr)
	}

	logger.Info().Str("summary", summary.Status()).Msg("push complete")
	return summary, nil
}

// 📄 pushOne runs the ignore filter and one create-or-update transaction
// for a single file. Failures are recorded in the summary, not returned.
func (p *Pusher) pushOne(ctx context.Context, repo Repository, remotePath, localPath, message string, summary *PushSummary) {
	logger := zerolog.Ctx(ctx)

	if p.rules.MatchPath(remotePath) {
		summary.Skipped++
		p.display.LogFileOperation(ctx, log.FileOperation{
			Path: remotePath, Action: log.ActionSkipped, Reason: "ignored",
		})
		return
	}

	content, err := os.ReadFile(localPath)
	if err != nil {
		summary.Skipped++
		p.display.LogFileOperation(ctx, log.FileOperation{
			Path: remotePath, Action: log.ActionSkipped, Reason: "unreadable",
		})
		return
	}
	if !utf8.Valid(content) {
		// No binary transfer is attempted.
		summary.Skipped++
		p.display.LogFileOperation(ctx, log.FileOperation{
			Path: remotePath, Action: log.ActionSkipped, Reason: "binary",
		})
		return
	}

	existing, err := repo.GetFile(ctx, remotePath)
	switch {
	case err == nil:
		if err := repo.UpdateFile(ctx, remotePath, message, content, existing.SHA); err != nil {
			p.recordFailure(ctx, summary, remotePath, err)
			return
		}
		summary.Updated++
		p.display.LogFileOperation(ctx, log.FileOperation{Path: remotePath, Action: log.ActionUpdated})

	case errors.Is(err, ErrNotFound):
		if err := repo.CreateFile(ctx, remotePath, message, content); err != nil {
			p.recordFailure(ctx, summary, remotePath, err)
			return
		}
		summary.Created++
		p.display.LogFileOperation(ctx, log.FileOperation{Path: remotePath, Action: log.ActionCreated})

	default:
		p.recordFailure(ctx, summary, remotePath, err)
	}

	logger.Debug().Str("file", remotePath).Msg("processed file")
}

// ⚠️ recordFailure notes a per-file transaction failure; the batch
// continues.
func (p *Pusher) recordFailure(ctx context.Context, summary *PushSummary, remotePath string, err error) {
	summary.Failed++
	summary.Failures = append(summary.Failures, FileFailure{Path: remotePath, Err: err})
	p.display.LogFileOperation(ctx, log.FileOperation{
		Path: remotePath, Action: log.ActionFailed, Reason: err.Error(),
	})
}

// 🔍 resolveRepository fetches the named repository, creating it when
// permitted.
func (p *Pusher) resolveRepository(ctx context.Context, repoName string, opts PushOptions) (Repository, error) {
	logger := zerolog.Ctx(ctx)

	repo, err := p.provider.GetRepository(ctx, repoName)
	if err == nil {
		logger.Info().Str("repo", repo.FullName()).Msg("connected to repository")
		return repo, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Errorf("%w: fetching repository %s: %w", apperr.ErrRemote, repoName, err)
	}
	if !opts.CreateMissing {
		return nil, errors.Errorf("%w: repository %s not found and creation is not permitted", apperr.ErrRemote, repoName)
	}

	repo, err = p.provider.CreateRepository(ctx, repoName, opts.Private)
	if err != nil {
		return nil, errors.Errorf("%w: creating repository %s: %w", apperr.ErrRemote, repoName, err)
	}
	logger.Info().Str("repo", repo.FullName()).Msg("created repository")
	return repo, nil
}

// 🔍 FindFolderAndPush searches for a folder by fuzzy name, then pushes the
// first directory match.
func (p *Pusher) FindFolderAndPush(ctx context.Context, folderQuery, repoName, message string, opts PushOptions) (*PushSummary, error) {
	matches := search.Find(ctx, search.Query{Name: folderQuery, MaxResults: 5})

	var target string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			target = m
			break
		}
	}
	if target == "" {
		return nil, errors.Errorf("%w: no folders found matching %q", apperr.ErrInput, folderQuery)
	}

	zerolog.Ctx(ctx).Info().Str("folder", target).Msg("found folder")
	return p.PushFolder(ctx, repoName, target, message, opts)
}

// 📦 PushFiles pushes an explicit manifest of files to an existing
// repository, one commit message per file. Used for pushing individual
// configuration files rather than a whole folder.
func (p *Pusher) PushFiles(ctx context.Context, repoName string, files []RepositoryFile) (*PushSummary, error) {
	repo, err := p.provider.GetRepository(ctx, repoName)
	if err != nil {
		return nil, errors.Errorf("%w: fetching repository %s: %w", apperr.ErrRemote, repoName, err)
	}

	summary := &PushSummary{Repository: repo.FullName()}
	for _, f := range files {
		p.pushOne(ctx, repo, f.Path, f.LocalPath, f.Message, summary)
	}
	return summary, nil
}
