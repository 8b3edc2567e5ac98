package cmd

import (
	"bytes"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuildInfo(t *testing.T) {
	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v1.2.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2025-06-01T10:00:00Z"},
			},
		}, true
	}
	unstamped := func() (*debug.BuildInfo, bool) { return nil, false }

	tests := []struct {
		name string
		in   BuildInfo
		read func() (*debug.BuildInfo, bool)
		want BuildInfo
	}{
		{"linker values win", BuildInfo{Version: "0.3.0", GitCommit: "fff"}, stamped,
			BuildInfo{Version: "0.3.0", GitCommit: "fff", BuildTime: "2025-06-01T10:00:00Z"}},
		{"module version for dev builds", BuildInfo{Version: "dev"}, stamped,
			BuildInfo{Version: "1.2.0", GitCommit: "abc123", BuildTime: "2025-06-01T10:00:00Z"}},
		{"no build info", BuildInfo{}, unstamped, BuildInfo{Version: "dev"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveBuildInfo(tt.in, tt.read))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	saved := build
	t.Cleanup(func() { build = saved })
	build = BuildInfo{Version: "0.3.0"}

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })
	versionCmd.Run(versionCmd, nil)

	text := out.String()
	require.Contains(t, text, "soatools 0.3.0\n")
	assert.Contains(t, text, "commit: unknown\n")
	assert.Contains(t, text, "go:     "+runtime.Version())
}
