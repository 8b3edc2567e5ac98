// Package cmd provides the command-line interface for SOATools.
// SOATools reads and edits the game data tables of Skies of Arcadia Legends
// (GameCube) through CSV files.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChaseLewis/SOARandomizer/pkg"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/config"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
)

var (
	configPath string
	cfg        = config.Default()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "soatools",
	Short: "Tools for editing Skies of Arcadia Legends game data",
	Long: `SOATools - read and edit the game data of Skies of Arcadia Legends
(GameCube) through CSV files.

Currently supports:
  - Disc images (inspect, list and extract files)
  - Game data tables (export to CSV, import from CSV, write back to the disc)
  - AKLZ files (unpack/pack)

Examples:
  soatools types
  soatools export --iso soa.iso --csv-dir ./csv
  soatools import --iso soa.iso --csv-dir ./csv accessory shop
  soatools disc info --iso soa.iso
  soatools aklz unpack a001_ep.enp a001_ep.bin
  soatools config init soatools.yaml

Settings are read from soatools.yaml (./ or ~/.config/soatools/), SOA_*
environment variables and flags, in increasing priority.

Use 'soatools [command] --help' for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		return common.ConfigureLogging(cfg.LogOptions())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return common.CloseLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default: ./soatools.yaml or ~/.config/soatools/soatools.yaml)")
	flags.StringP("iso", "i", "", "disc image (.iso/.gcm)")
	flags.String("csv-dir", "", "directory for CSV files")
	flags.BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
}

// openDisc opens the configured disc image with the configured save policy.
func openDisc() (*pkg.Session, error) {
	if cfg.ISO == "" {
		return nil, fmt.Errorf("no disc image given: use --iso or set iso in the config file")
	}
	return pkg.Open(cfg.ISO,
		pkg.WithSaveOptions(gcn.SaveOptions{Retries: cfg.Save.Retries, Delay: cfg.Save.RetryDelay()}),
		pkg.WithBackup(cfg.Save.Backup),
	)
}
