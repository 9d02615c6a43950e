package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SauloRodrigues20/agroqr/generator"
	"github.com/SauloRodrigues20/agroqr/scan"
)

// chdirClean moves into a fresh directory with no AGROQR_* overrides and
// returns it.
func chdirClean(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		"AGROQR_DATA_DIR",
		"AGROQR_LOG_LEVEL",
		"AGROQR_ENGINE",
		"AGROQR_HISTORY_PATH",
		"AGROQR_HISTORY_ENABLED",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

func TestExecuteNoArgs(t *testing.T) {
	dir := chdirClean(t)
	var stdout, stderr bytes.Buffer

	code := execute([]string{}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), generator.OutputFile)
	assert.Contains(t, stdout.String(), generator.DownloadURL)
	assert.Contains(t, stdout.String(), "410x410")

	text, err := scan.File(filepath.Join(dir, generator.OutputFile))
	require.NoError(t, err)
	assert.Equal(t, generator.DownloadURL, text)
}

func TestExecuteRejectsArgs(t *testing.T) {
	chdirClean(t)
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, execute([]string{"extra"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestExecuteOutputNotWritable(t *testing.T) {
	dir := chdirClean(t)
	// A directory in place of the image cannot be opened for writing,
	// whatever the user's privileges.
	require.NoError(t, os.Mkdir(filepath.Join(dir, generator.OutputFile), 0o755))
	var stdout, stderr bytes.Buffer

	code := execute([]string{}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error: cannot write image file")
}

func TestExecuteReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := chdirClean(t)
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })
	var stdout, stderr bytes.Buffer

	code := execute([]string{}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "cannot write image file")
}

func TestExecuteVerify(t *testing.T) {
	chdirClean(t)
	var stdout, stderr bytes.Buffer

	require.Equal(t, 0, execute([]string{}, &stdout, &stderr), stderr.String())
	stdout.Reset()

	assert.Equal(t, 0, execute([]string{"verify"}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), generator.DownloadURL)
}

func TestExecuteVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, execute([]string{"version"}, &stdout, &stderr))
	assert.Equal(t, "agroqr "+version+"\n", stdout.String())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
