package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows", "pipeline.yaml")
	require.NoError(t, Write(path, []byte("name: Pipeline\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: Pipeline\n", string(data))

	require.NoError(t, Write(path, []byte("name: Other\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: Other\n", string(data))
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: {}\n"), 0644))

	bak, err := Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", bak)

	data, err := os.ReadFile(bak)
	require.NoError(t, err)
	assert.Equal(t, "jobs: {}\n", string(data))
}

func TestBackupMissingFile(t *testing.T) {
	_, err := Backup(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
