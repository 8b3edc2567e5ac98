package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// BuildInfo identifies a soatools binary. Fields left empty by the linker are
// filled from the module's embedded VCS stamp when there is one.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

var build = BuildInfo{Version: "dev"}

// SetBuildInfo records the values injected at link time and enables
// --version on the root command.
func SetBuildInfo(b BuildInfo) {
	build = resolveBuildInfo(b, debug.ReadBuildInfo)
	rootCmd.Version = build.Version
	rootCmd.SetVersionTemplate(build.String())
}

func resolveBuildInfo(b BuildInfo, read func() (*debug.BuildInfo, bool)) BuildInfo {
	if b.Version == "" {
		b.Version = "dev"
	}
	info, ok := read()
	if !ok {
		return b
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = strings.TrimPrefix(info.Main.Version, "v")
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && b.GitCommit == "":
			b.GitCommit = s.Value
		case s.Key == "vcs.time" && b.BuildTime == "":
			b.BuildTime = s.Value
		}
	}
	return b
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("soatools %s\nbuilt:  %s\ncommit: %s\ngo:     %s\n",
		b.Version, orUnknown(b.BuildTime), orUnknown(b.GitCommit), runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), build.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
