package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	require.NotEmpty(t, v)
	_, err := semver.NewVersion(v)
	require.NoError(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "v1.2.3", want: "1.2.3"},
		{in: "1.2", want: "1.2.0"},
		{in: "0.1.0-dev", want: "0.1.0-dev"},
		{in: "nightly", want: "nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestString(t *testing.T) {
	old := buildDate
	t.Cleanup(func() { buildDate = old })
	buildDate = "2026-01-02"

	s := String()
	assert.Contains(t, s, GetVersion())
	assert.Contains(t, s, "built 2026-01-02")
	assert.NotEmpty(t, GetGitCommit())
}
