package text

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filepilot/pkg/apperr"
	"gitlab.com/tozd/go/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReplaceInFile_WithBackup(t *testing.T) {
	original := "status: open\nstatus: open\ndone\n"
	path := writeTempFile(t, "notes.txt", original)

	result, err := ReplaceInFile(context.Background(), path, "open", "closed", true)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Occurrences)
	assert.True(t, result.WasModified)
	assert.Equal(t, path+BackupSuffix, result.BackupPath)

	// Backup holds the pristine content.
	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))

	// Main file has zero remaining occurrences.
	modified, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(modified), "open")
	assert.Equal(t, "status: closed\nstatus: closed\ndone\n", string(modified))
}

func TestReplaceInFile_WithoutBackup(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "aaa")

	result, err := ReplaceInFile(context.Background(), path, "a", "b", false)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Occurrences)
	assert.Empty(t, result.BackupPath)
	assert.NoFileExists(t, path+BackupSuffix)
}

func TestReplaceInFile_Idempotent(t *testing.T) {
	original := "X marks the X spot"
	path := writeTempFile(t, "map.txt", original)

	result, err := ReplaceInFile(context.Background(), path, "X", "X", true)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Occurrences, "count reflects the true occurrence count")
	assert.False(t, result.WasModified)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))

	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))
}

func TestReplaceInFile_MissingFile(t *testing.T) {
	_, err := ReplaceInFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "a", "b", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIO))
}

func TestReplaceInFile_EmptyFind(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "content")

	_, err := ReplaceInFile(context.Background(), path, "", "b", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInput))
}

func TestReplaceInFile_BinaryContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	_, err := ReplaceInFile(context.Background(), path, "a", "b", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIO))
}

func TestFileReplaceResult_Status(t *testing.T) {
	r := &FileReplaceResult{Path: "notes.txt", Occurrences: 3, BackupPath: "notes.txt.bak"}
	assert.Equal(t, "Replaced 3 occurrence(s) in notes.txt. Backup: true", r.Status())
}
