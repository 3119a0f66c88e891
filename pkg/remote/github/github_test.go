package github

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresToken(t *testing.T) {
	t.Setenv(TokenEnvVar, "")
	os.Unsetenv(TokenEnvVar)

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())
	_, err := New(ctx)
	require.Error(t, err, "construction must fail before any remote attempt")
	assert.Contains(t, err.Error(), TokenEnvVar)
}

func TestNew_WithToken(t *testing.T) {
	t.Setenv(TokenEnvVar, "mock_token")

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())
	p, err := New(ctx)
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())
}

func TestRepository_FullName(t *testing.T) {
	r := &repository{owner: "walteh", name: "filepilot"}
	assert.Equal(t, "walteh/filepilot", r.FullName())
}
