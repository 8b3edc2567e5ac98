package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// discCmd groups the disc image commands.
var discCmd = &cobra.Command{
	Use:   "disc",
	Short: "Inspect GameCube disc images",
	Long: `Inspect Skies of Arcadia Legends disc images.

Commands:
  info      Show the game build and pending state
  files     List every file on the disc
  extract   Copy one file off the disc

Examples:
  soatools disc info --iso soa.iso
  soatools disc files --iso soa.iso
  soatools disc extract --iso soa.iso field/a001_ep.enp ./a001_ep.enp`,
}

var discInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the game build of a disc image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDisc()
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("Disc:    %s\n", s.Path())
		fmt.Printf("Title:   %s\n", s.Title())
		fmt.Printf("Game ID: %s\n", s.Version().GameID)
		fmt.Printf("Region:  %s\n", s.Version().Region)
		fmt.Printf("Files:   %d\n", len(s.Image().Files()))
		fmt.Printf("Types:   %d\n", len(s.Types()))
		if s.Image().ReadOnly() {
			fmt.Println("Opened read-only: changes cannot be saved")
		}
		return nil
	},
}

var discFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files on a disc image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDisc()
		if err != nil {
			return err
		}
		defer s.Close()

		img := s.Image()
		for _, f := range img.Files() {
			marker := ""
			if ok, err := img.IsCompressed(f.Path); err == nil && ok {
				marker = " [AKLZ]"
			}
			fmt.Printf("0x%09X %10d  %s%s\n", f.Offset, f.Size, f.Path, marker)
		}
		return nil
	},
}

var discExtractCmd = &cobra.Command{
	Use:   "extract [disc_path] [output_file]",
	Short: "Copy one file off a disc image",
	Long: `Copy one file off a disc image. AKLZ compressed files are written
decompressed unless --raw is given.

Example:
  soatools disc extract --iso soa.iso battle/first.lmt ./first.lmt`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetBool("raw")
		if err != nil {
			return fmt.Errorf("error getting raw flag: %w", err)
		}

		s, err := openDisc()
		if err != nil {
			return err
		}
		defer s.Close()

		path := common.CleanDiscPath(args[0])
		var data []byte
		if raw {
			data, err = s.Image().ReadRaw(path)
		} else {
			data, err = s.Image().ReadFile(path)
		}
		if err != nil {
			return err
		}

		out := afero.NewOsFs()
		if dir := filepath.Dir(args[1]); dir != "." {
			if err := out.MkdirAll(dir, 0o750); err != nil {
				return common.FormatError(common.ErrFailedToCreateOutputFile, err)
			}
		}
		if err := afero.WriteFile(out, args[1], data, 0o644); err != nil {
			return common.FormatError(common.ErrFailedToCreateOutputFile, err)
		}
		fmt.Printf("Extracted %s (%d bytes) to %s\n", path, len(data), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discCmd)
	discCmd.AddCommand(discInfoCmd)
	discCmd.AddCommand(discFilesCmd)
	discCmd.AddCommand(discExtractCmd)

	discExtractCmd.Flags().Bool("raw", false, "write AKLZ files without decompressing them")
}
