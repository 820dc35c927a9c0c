package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/hpick/internal/config"
)

func TestConfig_List(t *testing.T) {
	isolateHome(t)

	out, err := executeCommand(t, "config")
	require.NoError(t, err)
	for _, key := range config.ListKeys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "picker.layout = default")
	assert.Contains(t, out, "Config file:")
}

func TestConfig_GetUnset(t *testing.T) {
	isolateHome(t)

	out, err := executeCommand(t, "config", "history.file")
	require.NoError(t, err)
	assert.Equal(t, "(not set)\n", out)
}

func TestConfig_SetThenGet(t *testing.T) {
	home := isolateHome(t)

	out, err := executeCommand(t, "config", "picker.layout", "reverse")
	require.NoError(t, err)
	assert.Contains(t, out, "picker.layout = reverse")
	assert.FileExists(t, filepath.Join(home, ".config", "hpick", "config.yaml"))

	out, err = executeCommand(t, "config", "picker.layout")
	require.NoError(t, err)
	assert.Equal(t, "reverse\n", out)
}

func TestConfig_SetDoesNotPersistEnvOverrides(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("HPICK_RESULT_FILE", filepath.Join(home, "env-result"))
	t.Setenv("HPICK_DEBUG", "1")
	t.Setenv("HPICK_MATCHER", "sahilm")

	_, err := executeCommand(t, "config", "picker.layout", "reverse")
	require.NoError(t, err)

	stored, err := config.LoadStored(filepath.Join(home, ".config", "hpick", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "reverse", stored.Picker.Layout)
	assert.Empty(t, stored.Picker.ResultFile)
	assert.Equal(t, "info", stored.Log.Level)
	assert.Empty(t, stored.Log.File)
	assert.Equal(t, "native", stored.Picker.Matcher)

	data, err := os.ReadFile(filepath.Join(home, ".config", "hpick", "config.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "env-result")
	assert.NotContains(t, string(data), "debug")
}

func TestConfig_SetInvalid(t *testing.T) {
	home := isolateHome(t)

	_, err := executeCommand(t, "config", "picker.layout", "sideways")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(home, ".config", "hpick", "config.yaml"))
}

func TestConfig_UnknownKey(t *testing.T) {
	isolateHome(t)

	_, err := executeCommand(t, "config", "picker.colour")
	assert.Error(t, err)
}

func TestConfig_FileSettingsReachPicker(t *testing.T) {
	isolateHome(t)
	hist := rankHistory(t)

	_, err := executeCommand(t, "config", "history.max_entries", "2")
	require.NoError(t, err)

	out, err := executeCommand(t, "rank", "--shell", "bash", "--history-file", hist)
	require.NoError(t, err)
	assert.Equal(t, []string{"go build", "ls"}, outputLines(out))
}
