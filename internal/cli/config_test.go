package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtlist/internal/config"
)

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
	assert.DirExists(t, filepath.Join(home, "logs"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().List, cfg.List)

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, os.WriteFile(path, []byte("list:\n  item_height: 7\n"), 0o600))
	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.List.ItemHeight)
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()

	out, _, err := execute(t, "config", "validate")
	require.NoError(t, err, "defaults are valid without a file")
	assert.Contains(t, out, "Configuration is valid")

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(
		"list:\n  item_height: 2\nrecords:\n  rules:\n    email: [required, email]\n"), 0o600))
	out, _, err = execute(t, "--config", good, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Item height: 2")
	assert.Contains(t, out, "- email: [required email]")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(
		"list:\n  item_height: 0\n  error_policy: retry\n"), 0o600))
	_, errOut, err := execute(t, "--config", bad, "config", "validate")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "list.item_height")
	assert.Contains(t, err.Error(), "list.error_policy")
	assert.NotEmpty(t, errOut)
}

func TestConfigGet(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "scalar", args: []string{"config", "get", "list.item_height"}, want: "1\n"},
		{name: "string", args: []string{"config", "get", "list.error_policy"}, want: "abort\n"},
		{name: "list", args: []string{"config", "get", "image.allowed_types"}, want: "image/jpeg,image/png,image/gif\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConfigGet_SectionAndList(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "config", "get", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "item_height: 1")
	assert.Contains(t, out, "backend: tea")

	out, _, err = execute(t, "config", "get", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "list.backend\n")
	assert.Contains(t, out, "image.quality\n")

	_, _, err = execute(t, "config", "get", "list.nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)
}
