package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ChaseLewis/SOARandomizer/pkg"
	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/config"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
)

// typeSummary is one row of the types listing.
type typeSummary struct {
	Name         string `yaml:"name"`
	File         string `yaml:"file"`
	Offset       string `yaml:"offset,omitempty"`
	Count        int    `yaml:"count"`
	RecordSize   int    `yaml:"record_size"`
	Fields       int    `yaml:"fields"`
	Descriptions bool   `yaml:"descriptions"`
	GameIDBase   *int   `yaml:"game_id_base,omitempty"`
	ReadOnly     bool   `yaml:"read_only,omitempty"`
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the editable entry types",
	Long: `List the entry types with their location and record size. Without
--iso the built-in US catalog is shown and enemy counts are unknown.

Examples:
  soatools types
  soatools types --iso soa.iso --yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, err := cmd.Flags().GetBool("yaml")
		if err != nil {
			return fmt.Errorf("error getting yaml flag: %w", err)
		}

		summaries, err := summarizeTypes()
		if err != nil {
			return err
		}

		if asYAML {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(summaries)
		}
		for _, t := range summaries {
			mode := ""
			if t.ReadOnly {
				mode = " (read-only)"
			}
			fmt.Printf("%-22s %-18s %-10s %5d x %4d bytes%s\n", t.Name, t.File, t.Offset, t.Count, t.RecordSize, mode)
		}
		return nil
	},
}

func summarizeTypes() ([]typeSummary, error) {
	var (
		c *catalog.Catalog
		s *pkg.Session
	)
	if cfg.ISO != "" {
		var err error
		if s, err = openDisc(); err != nil {
			return nil, err
		}
		defer s.Close()
		c = s.Catalog()
	} else {
		var err error
		if c, err = catalog.ForVersion(gcn.Version{GameID: "GEAE8P", Region: gcn.RegionUS}); err != nil {
			return nil, err
		}
	}

	var out []typeSummary
	for _, name := range c.Names() {
		d, err := c.Descriptor(name)
		if err != nil {
			return nil, err
		}
		t := typeSummary{
			Name:         d.Name,
			File:         d.File,
			Count:        d.Count,
			RecordSize:   d.Stride(),
			Fields:       d.Layout.Len(),
			Descriptions: d.Descriptions != nil,
			ReadOnly:     d.ReadOnly,
		}
		if d.HasGameID {
			base := d.GameIDBase
			t.GameIDBase = &base
		}
		if d.MultiSource {
			t.File = "enemy files"
			t.Count = -1
			if s != nil {
				spans, err := c.Spans(s.Image(), name)
				if err != nil {
					return nil, err
				}
				t.Count = len(spans)
			}
		} else {
			t.Offset = fmt.Sprintf("0x%06X", d.Table.Start)
		}
		out = append(out, t)
	}
	return out, nil
}

var exportCmd = &cobra.Command{
	Use:   "export [type...]",
	Short: "Export entry types to CSV files",
	Long: `Export entry types to <csv-dir>/<type>.csv. Without arguments every
type is exported.

Examples:
  soatools export --iso soa.iso --csv-dir ./csv
  soatools export --iso soa.iso accessory weapon`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDisc()
		if err != nil {
			return err
		}
		defer s.Close()

		names, err := selectTypes(s, args)
		if err != nil {
			return err
		}

		fmt.Printf("Exporting %d type(s) to %s\n", len(names), cfg.CSVDir)
		n, err := exportTypes(afero.NewOsFs(), s, cfg.CSVDir, names, cfg.Export.Workers)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		fmt.Printf("Wrote %d CSV file(s)\n", n)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [type...]",
	Short: "Import CSV files and write them to the disc",
	Long: `Import <csv-dir>/<type>.csv for the given types (all types when none are
given) and save the result to the disc. Missing files and read-only types
(enemy_task) are skipped.

Every validation issue is reported. In strict mode (the default) a type with
any issue is not written; with --strict=false invalid cells keep their
current values.

Examples:
  soatools import --iso soa.iso --csv-dir ./csv
  soatools import --iso soa.iso --dry-run shop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return fmt.Errorf("error getting dry-run flag: %w", err)
		}

		s, err := openDisc()
		if err != nil {
			return err
		}
		defer s.Close()

		names, err := selectTypes(s, args)
		if err != nil {
			return err
		}

		reports, err := importTypes(afero.NewOsFs(), s, cfg.CSVDir, names, cfg.Import.Strict)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		blocked := 0
		for _, r := range reports {
			status := "written"
			if !r.Written {
				status = "not written"
				blocked++
			}
			fmt.Printf("%s: %d record(s), %d issue(s), %s\n", r.Path, r.Records, len(r.Issues), status)
			for _, issue := range r.Issues {
				fmt.Printf("  %s\n", issue)
			}
		}
		if len(reports) == 0 {
			fmt.Printf("No CSV files found in %s\n", cfg.CSVDir)
		}

		if dryRun {
			fmt.Printf("Dry run: %d file(s) would be written\n", len(s.Pending()))
			return nil
		}
		n, err := s.Save()
		if err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
		fmt.Printf("Saved %d region(s) to %s\n", n, s.Path())
		if blocked > 0 {
			return fmt.Errorf("%d type(s) not written because of validation issues", blocked)
		}
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List item ids and names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDisc()
		if err != nil {
			return err
		}
		defer s.Close()

		names, err := s.ItemNames()
		if err != nil {
			return err
		}
		for _, id := range names.IDs() {
			fmt.Printf("0x%03X %-15s %s\n", id, catalog.ItemCategoryOf(id), names.Name(id))
		}
		return nil
	},
}

// selectTypes validates type arguments; none selects every type.
func selectTypes(s *pkg.Session, args []string) ([]string, error) {
	if len(args) == 0 {
		return s.Types(), nil
	}
	for _, name := range args {
		if _, err := s.Descriptor(name); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(itemsCmd)

	typesCmd.Flags().Bool("yaml", false, "print the listing as YAML")
	exportCmd.Flags().Int("workers", config.Default().Export.Workers, "number of files written concurrently")
	importCmd.Flags().Bool("strict", true, "skip types with validation issues")
	importCmd.Flags().Bool("backup", true, "copy the disc to <iso>.bak before saving")
	importCmd.Flags().Bool("dry-run", false, "validate and report without saving")
}
