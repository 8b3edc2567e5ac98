package catalog

import (
	"bytes"
	"fmt"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// descriptionSlot is the space one description string occupies in the
// executable: the text, its terminator and the padding up to the next
// 4-byte boundary.
type descriptionSlot struct {
	Offset int
	Size   int
}

// descriptionSlots walks a description range of the pristine executable.
// Slot boundaries never move, so they are always taken from the bytes the
// disc was opened with. At most count slots are returned.
func descriptionSlots(exe []byte, r Range, count int) ([]descriptionSlot, error) {
	if r.Start < 0 || r.End > len(exe) {
		return nil, common.NewCorruptData("description table", r.Start, "range ends at 0x%X beyond the executable (%d bytes)", r.End, len(exe))
	}

	var slots []descriptionSlot
	pos := r.Start
	for pos < r.End && len(slots) < count {
		n := bytes.IndexByte(exe[pos:r.End], 0)
		if n < 0 {
			break
		}
		size := common.AlignUp(n+1, 4)
		if pos+size > r.End {
			size = r.End - pos
		}
		slots = append(slots, descriptionSlot{Offset: pos, Size: size})
		pos += size
	}
	return slots, nil
}

// attachDescriptions decodes each record's description from the working
// executable. Records past the last slot have none.
func attachDescriptions(d *Descriptor, store Store, exe []byte, recs []*record.Record) error {
	slots, err := descriptionSlots(store.PristineExecutable(), *d.Descriptions, len(recs))
	if err != nil {
		return err
	}
	for i, slot := range slots {
		text, err := record.Latin.Decode(common.CString(exe[slot.Offset : slot.Offset+slot.Size]))
		if err != nil {
			return fmt.Errorf("%s description %d: %w", d.Name, i, err)
		}
		recs[i].Description = text
		recs[i].HasDesc = true
	}
	return nil
}

// encodeDescription renders text into a full slot, NUL padded.
func encodeDescription(name string, id int, text string, slot descriptionSlot) ([]byte, error) {
	enc, err := record.Latin.Encode(text)
	if err != nil {
		return nil, &common.FieldError{Field: fmt.Sprintf("%s[%d].description", name, id), Value: text, Err: common.ErrInvalidText}
	}
	if len(enc)+1 > slot.Size {
		return nil, &common.FieldError{
			Field: fmt.Sprintf("%s[%d].description", name, id),
			Value: text,
			Limit: fmt.Sprintf("%d bytes", slot.Size-1),
			Err:   common.ErrFieldTooLong,
		}
	}
	out := make([]byte, slot.Size)
	copy(out, enc)
	common.LogDebug(common.DebugDescriptionSlot, name, id, slot.Offset, slot.Size)
	return out, nil
}
