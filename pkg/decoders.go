package pkg

import (
	"github.com/spf13/afero"

	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// Open opens a disc image from the OS file system.
func Open(path string, opts ...Option) (*Session, error) {
	return OpenFs(afero.NewOsFs(), path, opts...)
}

// OpenFs opens a disc image and selects the catalog for its game build.
func OpenFs(fs afero.Fs, path string, opts ...Option) (*Session, error) {
	o := options{save: gcn.DefaultSaveOptions}
	for _, opt := range opts {
		opt(&o)
	}

	img, err := gcn.Open(fs, path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	img.SetSaveOptions(o.save)

	c := o.catalog
	if c == nil {
		c, err = catalog.ForVersion(img.Version())
		if err != nil {
			img.Close()
			return nil, err
		}
	}

	common.LogInfo(common.InfoDiscOpened, path, img.Version().GameID, img.Version().Region)
	return &Session{fs: fs, path: path, img: img, catalog: c, opts: o}, nil
}

// Close releases the disc. Unsaved changes are dropped.
func (s *Session) Close() error {
	return s.img.Close()
}

// Path is the disc image path.
func (s *Session) Path() string { return s.path }

// Version identifies the game build.
func (s *Session) Version() gcn.Version { return s.img.Version() }

// Title is the disc title from the header.
func (s *Session) Title() string { return s.img.Title() }

// Image gives access to the underlying disc.
func (s *Session) Image() *gcn.Image { return s.img }

// Catalog is the descriptor table in use.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Types lists the entry types of this build.
func (s *Session) Types() []string { return s.catalog.Names() }

// Descriptor describes one entry type.
func (s *Session) Descriptor(name string) (*catalog.Descriptor, error) {
	return s.catalog.Descriptor(name)
}

// Read decodes every record of an entry type, including pending changes.
func (s *Session) Read(name string) ([]*record.Record, error) {
	return s.catalog.Read(s.img, name)
}

// ItemNames builds the item name table from the disc's item types.
func (s *Session) ItemNames() (*catalog.ItemNames, error) {
	tables := make(map[string][]*record.Record)
	for _, t := range catalog.ItemTypes {
		if _, err := s.catalog.Descriptor(t); err != nil {
			continue
		}
		recs, err := s.Read(t)
		if err != nil {
			return nil, err
		}
		tables[t] = recs
	}
	return catalog.NewItemNames(tables), nil
}
