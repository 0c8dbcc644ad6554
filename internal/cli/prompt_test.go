package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtlist/internal/config"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestConfirmOverwrite(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		want        PromptResult
	}{
		{name: "yes", input: "y\n", interactive: true, want: PromptResult{Accepted: true}},
		{name: "full yes", input: " YES \n", interactive: true, want: PromptResult{Accepted: true}},
		{name: "no", input: "n\n", interactive: true, want: PromptResult{}},
		{name: "enter defaults to no", input: "\n", interactive: true, want: PromptResult{}},
		{name: "eof", input: "", interactive: true, want: PromptResult{}},
		{name: "not interactive", input: "y\n", interactive: false, want: PromptResult{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmOverwrite(&out, strings.NewReader(tt.input), "/tmp/c.yaml", tt.interactive)
			assert.Equal(t, tt.want, got)
			if tt.interactive {
				assert.Contains(t, out.String(), "/tmp/c.yaml already exists")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestConfirmOverwrite_ReadError(t *testing.T) {
	var out bytes.Buffer
	got := ConfirmOverwrite(&out, failingReader{}, "c.yaml", true)
	assert.True(t, got.Cancelled)
	assert.False(t, got.Accepted)
}

func TestRunConfigInit_InteractiveOverwrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("list:\n  item_height: 9\n"), 0o600))

	run := func(answer string) (string, error) {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetIn(strings.NewReader(answer))
		err := runConfigInit(cmd, false, true)
		return out.String(), err
	}

	out, err := run("n\n")
	require.Error(t, err)
	assert.Contains(t, out, "Overwrite it?")
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "item_height: 9")

	out, err = run("y\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	data, readErr = os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "item_height: 1")
}
