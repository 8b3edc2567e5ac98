/*
SOATools - read and edit the game data of Skies of Arcadia Legends (GameCube) through CSV files.

Copyright © 2025 Chase Lewis
*/
package main

import "github.com/ChaseLewis/SOARandomizer/cmd"

// Set with -ldflags "-X main.version=... -X main.buildTime=... -X main.gitCommit=...".
var (
	version   = "dev"
	buildTime string
	gitCommit string
)

func main() {
	cmd.SetBuildInfo(cmd.BuildInfo{Version: version, BuildTime: buildTime, GitCommit: gitCommit})
	cmd.Execute()
}
