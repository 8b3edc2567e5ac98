package pkg

import (
	"io"

	"github.com/ChaseLewis/SOARandomizer/pkg/csvio"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// ExportCSV renders records of an entry type as CSV text.
func (s *Session) ExportCSV(name string, recs []*record.Record) (string, error) {
	d, err := s.catalog.Descriptor(name)
	if err != nil {
		return "", err
	}
	return csvio.ExportString(d, recs)
}

// WriteCSV streams records of an entry type as CSV to w.
func (s *Session) WriteCSV(name string, recs []*record.Record, w io.Writer) error {
	d, err := s.catalog.Descriptor(name)
	if err != nil {
		return err
	}
	return csvio.Export(d, recs, w)
}
