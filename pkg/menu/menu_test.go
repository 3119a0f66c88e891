package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filepilot/pkg/agent"
	"github.com/walteh/filepilot/pkg/apperr"
	"github.com/walteh/filepilot/pkg/config"
	"github.com/walteh/filepilot/pkg/remote"
	"github.com/walteh/filepilot/pkg/tabular"
	"gitlab.com/tozd/go/errors"
)

// scriptedPrompt replays canned answers instead of rendering widgets.
type scriptedPrompt struct {
	asks    []string
	selects []string
}

func (s *scriptedPrompt) Ask(label string) (string, error) {
	if len(s.asks) == 0 {
		return "", errors.Errorf("unexpected prompt: %s", label)
	}
	answer := s.asks[0]
	s.asks = s.asks[1:]
	return answer, nil
}

func (s *scriptedPrompt) Select(label string, options []string) (string, error) {
	if len(s.selects) == 0 {
		return "", errors.Errorf("unexpected select: %s", label)
	}
	choice := s.selects[0]
	s.selects = s.selects[1:]
	return choice, nil
}

// noopAgent returns canned output without touching the table.
type noopAgent struct {
	output string
}

func (a *noopAgent) Name() string { return "noop" }

func (a *noopAgent) Edit(ctx context.Context, instruction string, doc *tabular.Document) (string, error) {
	return a.output, nil
}

func newTestMenu(prompt *scriptedPrompt, agentOutput string) *Menu {
	m := New(config.Default(), agent.NewPipeline(&noopAgent{output: agentOutput}))
	m.prompt = prompt
	return m
}

func TestRun_QuitExitsLoop(t *testing.T) {
	m := newTestMenu(&scriptedPrompt{selects: []string{actionQuit}}, "")
	require.NoError(t, m.Run(context.Background()))
}

func TestRunTabular_BlankPathRunsDemo(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	// The agent output carries a recoverable column assignment, so the
	// fallback ladder edits the synthesized demo table.
	m := newTestMenu(&scriptedPrompt{asks: []string{""}}, `df['Notes'] = 'pending'`)
	require.NoError(t, m.runTabular(context.Background()))

	doc, err := tabular.LoadFile(context.Background(), defaultDemoPath)
	require.NoError(t, err)
	assert.Contains(t, doc.Columns(), "Notes")
}

func TestRunTabular_UnsupportedExtension(t *testing.T) {
	m := newTestMenu(&scriptedPrompt{asks: []string{"report.docx", "change something"}}, "")

	err := m.runTabular(context.Background())
	require.Error(t, err)
	assert.Equal(t, "input", apperr.Kind(err))
}

func TestRunPush_RequiresAllFields(t *testing.T) {
	m := newTestMenu(&scriptedPrompt{asks: []string{"repo", "", "msg"}}, "")

	err := m.runPush(context.Background())
	require.Error(t, err)
	assert.Equal(t, "input", apperr.Kind(err))
}

func TestRunReplace_EndToEnd(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("draft draft done"), 0o644))
	t.Setenv("FILEPILOT_SEARCH_ROOTS", root)

	m := newTestMenu(&scriptedPrompt{asks: []string{"notes", "draft", "final"}}, "")
	require.NoError(t, m.runReplace(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "final final done", string(content))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "draft draft done", string(backup))
}

func TestRunReplace_NoMatches(t *testing.T) {
	t.Setenv("FILEPILOT_SEARCH_ROOTS", t.TempDir())

	m := newTestMenu(&scriptedPrompt{asks: []string{"nothing-here"}}, "")
	err := m.runReplace(context.Background())
	require.Error(t, err)
	assert.Equal(t, "input", apperr.Kind(err))
}

// failingProvider simulates missing credentials.
func failingProvider(ctx context.Context) (remote.Provider, error) {
	return nil, errors.New("GITHUB_TOKEN environment variable not set")
}

func TestRunFindPush_ProviderErrorIsRemoteKind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "myproject"), 0o755))
	t.Setenv("FILEPILOT_SEARCH_ROOTS", root)

	m := newTestMenu(&scriptedPrompt{asks: []string{"myproject", "repo", ""}}, "")
	m.newProvider = failingProvider

	err := m.runFindPush(context.Background())
	require.Error(t, err)
	assert.Equal(t, "remote", apperr.Kind(err))
}
