package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the SOATools configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the default configuration",
	Long: `Write the default configuration to a file (soatools.yaml when omitted).
An existing file is not overwritten unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return fmt.Errorf("error getting force flag: %w", err)
		}

		path := config.FileName + ".yaml"
		if len(args) == 1 {
			path = args[0]
		}

		flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
		if force {
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		}
		f, err := afero.NewOsFs().OpenFile(path, flags, 0o644)
		if err != nil {
			return common.FormatError(common.ErrFailedToCreateOutputFile, err)
		}
		if err := config.WriteDefault(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return common.FormatError(common.ErrFailedToCreateOutputFile, err)
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if src := cfg.Source(); src != "" {
			fmt.Printf("# from %s\n", src)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}
