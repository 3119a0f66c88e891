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

package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/filepilot/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

// TokenEnvVar holds the personal access token for the authenticated
// identity.
const TokenEnvVar = "GITHUB_TOKEN"

func init() {
	remote.RegisterProvider("github", New)
}

// 🎯 Provider implements the remote provider interface for GitHub
type Provider struct {
	client *github.Client
	login  string // cached authenticated account name
}

// 🏭 New creates a new GitHub provider. Fails when the token is absent,
// before any remote attempt is made.
func New(ctx context.Context) (remote.Provider, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return nil, errors.Errorf("%s environment variable not set", TokenEnvVar)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Provider{
		client: github.NewClient(tc),
	}, nil
}

// Name implements remote.Provider.
func (p *Provider) Name() string {
	return "github"
}

// 👤 Login returns the authenticated account name.
func (p *Provider) Login(ctx context.Context) (string, error) {
	if p.login != "" {
		return p.login, nil
	}

	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return "", errors.Errorf("getting authenticated user: %w", err)
	}

	p.login = user.GetLogin()
	return p.login, nil
}

// 🔍 GetRepository fetches the named repository under the authenticated
// identity.
func (p *Provider) GetRepository(ctx context.Context, name string) (remote.Repository, error) {
	owner, err := p.Login(ctx)
	if err != nil {
		return nil, err
	}

	repo, resp, err := p.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(resp) {
			return nil, errors.Errorf("repository %s/%s: %w", owner, name, remote.ErrNotFound)
		}
		return nil, errors.Errorf("getting repository: %w", err)
	}

	return &repository{client: p.client, owner: owner, name: repo.GetName()}, nil
}

// 🏗️ CreateRepository creates the named repository under the authenticated
// identity.
func (p *Provider) CreateRepository(ctx context.Context, name string, private bool) (remote.Repository, error) {
	owner, err := p.Login(ctx)
	if err != nil {
		return nil, err
	}

	repo, _, err := p.client.Repositories.Create(ctx, "", &github.Repository{
		Name:    github.String(name),
		Private: github.Bool(private),
	})
	if err != nil {
		return nil, errors.Errorf("creating repository: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("repo", repo.GetFullName()).Msg("created repository")
	return &repository{client: p.client, owner: owner, name: repo.GetName()}, nil
}

// 📦 repository implements remote.Repository over the contents API.
type repository struct {
	client *github.Client
	owner  string
	name   string
}

// FullName implements remote.Repository.
func (r *repository) FullName() string {
	return r.owner + "/" + r.name
}

// 🔍 GetFile fetches a tracked file's metadata. The returned SHA is the
// concurrency token UpdateFile requires.
func (r *repository) GetFile(ctx context.Context, path string) (*remote.FileInfo, error) {
	content, _, resp, err := r.client.Repositories.GetContents(ctx, r.owner, r.name, path, nil)
	if err != nil {
		if isNotFound(resp) {
			return nil, errors.Errorf("file %s: %w", path, remote.ErrNotFound)
		}
		return nil, errors.Errorf("getting file metadata: %w", err)
	}
	if content == nil {
		// Path resolved to a directory listing.
		return nil, errors.Errorf("file %s: %w", path, remote.ErrNotFound)
	}

	return &remote.FileInfo{
		Path: content.GetPath(),
		SHA:  content.GetSHA(),
	}, nil
}

// ✨ CreateFile creates a new tracked file.
func (r *repository) CreateFile(ctx context.Context, path, message string, content []byte) error {
	_, _, err := r.client.Repositories.CreateFile(ctx, r.owner, r.name, path, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
	})
	if err != nil {
		return errors.Errorf("creating file %s: %w", path, err)
	}
	return nil
}

// 🔄 UpdateFile overwrites a tracked file using sha as the concurrency
// token. A concurrent external edit invalidates the token and fails the
// transaction.
func (r *repository) UpdateFile(ctx context.Context, path, message string, content []byte, sha string) error {
	_, _, err := r.client.Repositories.UpdateFile(ctx, r.owner, r.name, path, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		SHA:     github.String(sha),
	})
	if err != nil {
		return errors.Errorf("updating file %s: %w", path, err)
	}
	return nil
}

// 🔍 isNotFound reports whether a response is a 404.
func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}
