// Package pkg opens a Skies of Arcadia Legends disc image and exposes its game
// data tables as typed records that can be exported to CSV, edited, imported
// and written back.
package pkg

import (
	"io"

	"github.com/spf13/afero"

	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/csvio"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// BackupSuffix is appended to the disc path for the pre-save copy.
const BackupSuffix = ".bak"

// Session is one open disc together with the catalog describing it. A
// Session is not safe for concurrent use; every change stays in memory until
// Save.
type Session struct {
	fs      afero.Fs
	path    string
	img     *gcn.Image
	catalog *catalog.Catalog
	opts    options

	backedUp bool
}

type options struct {
	save    gcn.SaveOptions
	backup  bool
	catalog *catalog.Catalog
}

// Option configures Open.
type Option func(*options)

// WithSaveOptions sets the retry policy for disc writes.
func WithSaveOptions(o gcn.SaveOptions) Option {
	return func(opts *options) { opts.save = o }
}

// WithBackup copies the disc to <path>.bak before the first save.
func WithBackup(enabled bool) Option {
	return func(opts *options) { opts.backup = enabled }
}

// WithCatalog replaces the built-in offset catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(opts *options) { opts.catalog = c }
}

// EntryReader reads record tables.
type EntryReader interface {
	Types() []string
	Read(name string) ([]*record.Record, error)
}

// EntryWriter stages record tables for saving.
type EntryWriter interface {
	Write(name string, recs []*record.Record) error
	Save() (int, error)
}

// CSVExporter renders record tables as CSV.
type CSVExporter interface {
	ExportCSV(name string, recs []*record.Record) (string, error)
	WriteCSV(name string, recs []*record.Record, w io.Writer) error
}

// CSVImporter parses CSV back into record tables.
type CSVImporter interface {
	ImportCSV(name, text string) (*csvio.Result, error)
}

var (
	_ EntryReader = (*Session)(nil)
	_ EntryWriter = (*Session)(nil)
	_ CSVExporter = (*Session)(nil)
	_ CSVImporter = (*Session)(nil)
)
