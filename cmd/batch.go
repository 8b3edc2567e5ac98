package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ChaseLewis/SOARandomizer/pkg"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/csvio"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

const csvExtension = ".csv"

// importReport is the outcome of importing one CSV file.
type importReport struct {
	Type    string
	Path    string
	Records int
	Issues  []csvio.ValidationIssue
	Written bool
}

// csvPath is the file an entry type is exported to inside dir.
func csvPath(dir, name string) string {
	return filepath.Join(dir, name+csvExtension)
}

// exportTypes writes <name>.csv into dir for each of names. Tables are read
// from the disc one after another; encoding and file writes run on up to
// workers goroutines.
func exportTypes(fs afero.Fs, s *pkg.Session, dir string, names []string, workers int) (int, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return 0, common.FormatError(common.ErrFailedToCreateOutputFile, err)
	}

	tables := make([][]*record.Record, len(names))
	for i, name := range names {
		recs, err := s.Read(name)
		if err != nil {
			return 0, err
		}
		tables[i] = recs
	}

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, name := range names {
		g.Go(func() error {
			return exportFile(fs, s, csvPath(dir, name), name, tables[i])
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(names), nil
}

func exportFile(fs afero.Fs, s *pkg.Session, path, name string, recs []*record.Record) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutputFile, err)
	}
	if err := s.WriteCSV(name, recs, f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return common.FormatError(common.ErrFailedToCreateOutputFile, err)
	}
	common.LogInfo(common.InfoEntriesExported, len(recs), name, path)
	return nil
}

// importTypes imports <name>.csv from dir for each of names. Missing files
// and read-only types are skipped. In strict mode a type with any validation
// issue is not written; otherwise invalid cells keep their current values
// and the rest is written. Nothing is saved to disc.
func importTypes(fs afero.Fs, s *pkg.Session, dir string, names []string, strict bool) ([]importReport, error) {
	var reports []importReport
	for _, name := range names {
		d, err := s.Descriptor(name)
		if err != nil {
			return reports, err
		}
		path := csvPath(dir, name)
		if d.ReadOnly {
			common.LogDebug(common.DebugReadOnlySkipped, name, path)
			continue
		}

		data, err := afero.ReadFile(fs, path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return reports, common.NewIOError("read", path, err)
		}

		res, err := s.ImportCSV(name, string(data))
		if err != nil {
			return reports, fmt.Errorf("%s: %w", path, err)
		}
		report := importReport{Type: name, Path: path, Records: len(res.Records), Issues: res.Issues}
		if len(res.Issues) == 0 || !strict {
			if err := s.Write(name, res.Records); err != nil {
				return append(reports, report), err
			}
			report.Written = true
			common.LogInfo(common.InfoEntriesImported, len(res.Records), name, path)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
