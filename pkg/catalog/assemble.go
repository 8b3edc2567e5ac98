package catalog

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// sourceCache holds each source file once per call.
type sourceCache struct {
	store Store
	files map[string][]byte
}

func newSourceCache(store Store) *sourceCache {
	return &sourceCache{store: store, files: make(map[string][]byte)}
}

func (c *sourceCache) get(path string) ([]byte, error) {
	if data, ok := c.files[path]; ok {
		return data, nil
	}
	data, err := c.store.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.files[path] = data
	return data, nil
}

// recordBytes returns the bytes of the record at s.
func (c *sourceCache) recordBytes(s Span, size int) ([]byte, error) {
	data, err := c.get(s.Path)
	if err != nil {
		return nil, err
	}
	if s.Offset < 0 || s.Offset+size > len(data) {
		return nil, common.NewCorruptData(s.Path, s.Offset, "record of %d bytes exceeds file (%d bytes)", size, len(data))
	}
	return data[s.Offset : s.Offset+size], nil
}

type loaded struct {
	desc  *Descriptor
	spans []Span
	cache *sourceCache
	recs  []*record.Record
}

func (c *Catalog) load(store Store, name string) (*loaded, error) {
	d, err := c.Descriptor(name)
	if err != nil {
		return nil, err
	}
	spans, err := c.Spans(store, name)
	if err != nil {
		return nil, err
	}

	l := &loaded{desc: d, spans: spans, cache: newSourceCache(store), recs: make([]*record.Record, len(spans))}
	for i, s := range spans {
		buf, err := l.cache.recordBytes(s, d.Layout.Size())
		if err != nil {
			return nil, err
		}
		rec, err := record.Decode(d.Layout, i, buf)
		if err != nil {
			return nil, err
		}
		rec.GameID = s.GameID
		rec.Origin = s.Origin
		rec.Slot = s.Slot
		l.recs[i] = rec
	}

	if d.Descriptions != nil {
		exe, err := l.cache.get(gcn.ExecutablePath)
		if err != nil {
			return nil, err
		}
		if err := attachDescriptions(d, store, exe, l.recs); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Read decodes every record of a type, in ID order.
func (c *Catalog) Read(store Store, name string) ([]*record.Record, error) {
	l, err := c.load(store, name)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", common.ErrFailedToReadEntries, name, err)
	}
	return l.recs, nil
}

type patch struct {
	path string
	off  int
	data []byte
}

// Write encodes records back to their sources. The collection must have
// exactly as many records as Read returns. Unchanged records are not
// written; a changed record of a read-only type is an error. Every record is encoded before anything is patched, so a failing
// record leaves the store untouched.
func (c *Catalog) Write(store Store, name string, recs []*record.Record) error {
	l, err := c.load(store, name)
	if err != nil {
		return fmt.Errorf("%s %s: %w", common.ErrFailedToWriteEntries, name, err)
	}
	if len(recs) != len(l.recs) {
		return &common.CountMismatchError{Type: name, Expected: len(l.recs), Actual: len(recs)}
	}

	var patches []patch
	var errs []error
	size := l.desc.Layout.Size()

	for i, rec := range recs {
		if rec == nil || rec.Layout != l.desc.Layout {
			errs = append(errs, fmt.Errorf("%s[%d]: record does not have the %s layout", name, i, name))
			continue
		}
		if rec.FieldsEqual(l.recs[i]) {
			common.LogDebug(common.DebugRecordUnchanged, name, i)
			continue
		}
		if l.desc.ReadOnly {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", name, i, common.ErrReadOnlyType))
			continue
		}
		current, err := l.cache.recordBytes(l.spans[i], size)
		if err != nil {
			return err
		}
		buf := bytes.Clone(current)
		if err := rec.EncodeInto(buf); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", name, i, err))
			continue
		}
		patches = append(patches, patch{path: l.spans[i].Path, off: l.spans[i].Offset, data: buf})
	}

	if l.desc.Descriptions != nil {
		descPatches, descErrs := c.describe(store, l, recs)
		patches = append(patches, descPatches...)
		errs = append(errs, descErrs...)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, p := range patches {
		if err := store.PatchFile(p.path, p.off, p.data); err != nil {
			return fmt.Errorf("%s %s: %w", common.ErrFailedToWriteEntries, name, err)
		}
	}
	return nil
}

func (c *Catalog) describe(store Store, l *loaded, recs []*record.Record) ([]patch, []error) {
	d := l.desc
	slots, err := descriptionSlots(store.PristineExecutable(), *d.Descriptions, len(recs))
	if err != nil {
		return nil, []error{err}
	}

	var patches []patch
	var errs []error
	for i, rec := range recs {
		if rec == nil || rec.Description == l.recs[i].Description {
			continue
		}
		if i >= len(slots) {
			if rec.Description != "" {
				errs = append(errs, common.FormatErrorString(common.ErrDescriptionSlotsExhausted, "%s[%d]", d.Name, i))
			}
			continue
		}
		data, err := encodeDescription(d.Name, i, rec.Description, slots[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		patches = append(patches, patch{path: gcn.ExecutablePath, off: slots[i].Offset, data: data})
	}
	return patches, errs
}
