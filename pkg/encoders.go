package pkg

import (
	"fmt"
	"io"
	"os"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/csvio"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// Write stages records for an entry type. Nothing reaches the disc before
// Save.
func (s *Session) Write(name string, recs []*record.Record) error {
	return s.catalog.Write(s.img, name, recs)
}

// ImportCSV parses CSV text for an entry type, using the current records as
// the fallback for invalid cells. It does not write anything.
func (s *Session) ImportCSV(name, text string) (*csvio.Result, error) {
	d, err := s.catalog.Descriptor(name)
	if err != nil {
		return nil, err
	}
	base, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	res, err := csvio.ImportString(d, text, csvio.Options{Base: base})
	if err != nil {
		return nil, err
	}
	if len(res.Issues) > 0 {
		common.LogWarn(common.WarnImportIssues, name, len(res.Issues))
	}
	return res, nil
}

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool { return s.img.Dirty() }

// Pending lists the disc files Save would write.
func (s *Session) Pending() []string { return s.img.Pending() }

// Save writes every pending change to the disc and returns the number of
// regions written. With backups enabled the disc is copied first, once per
// session.
func (s *Session) Save() (int, error) {
	if !s.img.Dirty() {
		return 0, nil
	}
	if s.opts.backup && !s.backedUp && !s.img.ReadOnly() {
		if err := s.backup(); err != nil {
			return 0, err
		}
		s.backedUp = true
	}

	n, err := s.img.Save()
	if err != nil {
		return n, err
	}
	common.LogInfo(common.InfoDiscSaved, n, s.path)
	return n, nil
}

// BackupPath is where Save copies the disc to.
func (s *Session) BackupPath() string { return s.path + BackupSuffix }

func (s *Session) backup() error {
	src, err := s.fs.Open(s.path)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateBackup, err)
	}
	defer src.Close()

	dst, err := s.fs.OpenFile(s.BackupPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateBackup, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return common.FormatError(common.ErrFailedToCreateBackup, err)
	}
	if err := dst.Close(); err != nil {
		return common.FormatError(common.ErrFailedToCreateBackup, fmt.Errorf("close %s: %w", s.BackupPath(), err))
	}
	common.LogInfo(common.InfoBackupCreated, s.BackupPath())
	return nil
}
