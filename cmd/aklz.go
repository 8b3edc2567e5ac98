package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChaseLewis/SOARandomizer/pkg"
)

// aklzCmd represents the parent command for AKLZ file operations.
var aklzCmd = &cobra.Command{
	Use:   "aklz",
	Short: "Process AKLZ compressed files",
	Long: `Process AKLZ compressed files such as the enemy containers
(.enp, .evp, .dat) extracted from the disc.

Commands:
  unpack    Decompress an AKLZ file
  pack      Compress a file into AKLZ

Examples:
  soatools aklz unpack a001_ep.enp a001_ep.bin
  soatools aklz pack a001_ep.bin a001_ep.enp`,
}

var aklzUnpackCmd = &cobra.Command{
	Use:   "unpack [input_file] [output_file]",
	Short: "Decompress an AKLZ file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor := pkg.NewAKLZProcessor()

		fmt.Printf("Processing AKLZ file: %s\n", args[0])
		fmt.Printf("Output file: %s\n", args[1])

		if err := processor.Unpack(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to unpack AKLZ file: %w", err)
		}

		fmt.Println("AKLZ file unpacked successfully!")
		return nil
	},
}

var aklzPackCmd = &cobra.Command{
	Use:   "pack [input_file] [output_file]",
	Short: "Compress a file into AKLZ",
	Long: `Compress a file into an AKLZ stream. The result only fits back on the
disc if it is not larger than the original file's allocation.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor := pkg.NewAKLZProcessor()

		fmt.Printf("Input file: %s\n", args[0])
		fmt.Printf("Output AKLZ file: %s\n", args[1])

		if err := processor.Pack(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to pack AKLZ file: %w", err)
		}

		fmt.Println("AKLZ file packed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aklzCmd)
	aklzCmd.AddCommand(aklzUnpackCmd)
	aklzCmd.AddCommand(aklzPackCmd)
}
