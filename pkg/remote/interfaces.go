// Package remote defines the interfaces for remote repository providers
// (e.g. GitHub) and the folder pusher built on top of them.
package remote

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned when a repository or file does not exist remotely.
var ErrNotFound = errors.Base("not found")

// 🏭 Factory creates a new provider. Construction fails when the provider's
// credentials are absent, before any remote attempt is made.
type Factory func(ctx context.Context) (Provider, error)

var registry = map[string]Factory{}

// 📝 RegisterProvider registers a provider factory under a name.
func RegisterProvider(name string, factory Factory) {
	registry[name] = factory
}

// 🎯 GetProvider constructs the named provider.
func GetProvider(ctx context.Context, name string) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return factory(ctx)
}

// 🔌 Provider is the primary interface for interacting with a remote
// repository service under an authenticated identity.
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// Login returns the authenticated account name
	Login(ctx context.Context) (string, error)
	// GetRepository returns the named repository under the authenticated
	// identity; ErrNotFound when it does not exist
	GetRepository(ctx context.Context, name string) (Repository, error)
	// CreateRepository creates the named repository under the authenticated
	// identity
	CreateRepository(ctx context.Context, name string, private bool) (Repository, error)
}

// Repository represents one remote repository's tracked files.
type Repository interface {
	// FullName returns the repository name (e.g. "owner/repo")
	FullName() string
	// GetFile returns the remote metadata for a tracked file; ErrNotFound
	// when the path is not tracked
	GetFile(ctx context.Context, path string) (*FileInfo, error)
	// CreateFile creates a new tracked file
	CreateFile(ctx context.Context, path, message string, content []byte) error
	// UpdateFile overwrites a tracked file. sha is the concurrency token
	// from GetFile; a stale token fails the transaction
	UpdateFile(ctx context.Context, path, message string, content []byte, sha string) error
}

// 📄 FileInfo is the remote metadata for one tracked file. SHA doubles as
// the concurrency token UpdateFile requires.
type FileInfo struct {
	Path string
	SHA  string
}
