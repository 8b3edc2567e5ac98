package catalog

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

const (
	evpFile        = "epevent.evp"
	evpNodeCount   = 200
	evpMinSize     = 6600
	enpMaxNodes    = 84
	enpSegmentSize = 32
	enpNameSize    = 20
	datIDOffset    = 0x80
	maxEnemyTasks  = 64
)

var enpSegmentMagic = []byte{0x00, 0x00, 0xFF, 0xFF}

// enemySpans lists every enemy record in source order: the event file, then
// each field encounter file, then the battle init files. Duplicates across
// files are kept so that positions stay stable.
func enemySpans(store Store) ([]Span, error) {
	var spans []Span
	sources := 0

	evp := sortedPaths(store, func(p string) bool { return strings.EqualFold(common.BaseName(p), evpFile) })
	enp := sortedPaths(store, func(p string) bool {
		return strings.HasSuffix(strings.ToLower(common.BaseName(p)), "_ep.enp")
	})
	ec := sortedPaths(store, func(p string) bool { return isInitFile(p, "ecinit") })
	eb := sortedPaths(store, func(p string) bool { return isInitFile(p, "ebinit") })

	for _, path := range evp {
		data, err := store.ReadFile(path)
		if err != nil {
			return nil, err
		}
		spans = append(spans, evpSpans(path, data)...)
		sources++
	}
	for _, path := range enp {
		data, err := store.ReadFile(path)
		if err != nil {
			return nil, err
		}
		found, err := enpSpans(path, data)
		if err != nil {
			return nil, err
		}
		spans = append(spans, found...)
		sources++
	}
	for _, group := range []struct {
		paths  []string
		idBase int
	}{{ec, 0}, {eb, datIDOffset}} {
		for _, path := range group.paths {
			data, err := store.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if s, ok := datSpan(path, data, group.idBase); ok {
				spans = append(spans, s)
			}
			sources++
		}
	}

	common.LogDebug(common.DebugSourceResolved, Enemy, len(spans), sources)
	return spans, nil
}

func isInitFile(path, prefix string) bool {
	name := strings.ToLower(common.BaseName(path))
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".dat")
}

func fits(pos, size int) bool {
	return pos >= 0 && pos+enemyLayout.Size() <= size
}

func evpSpans(path string, data []byte) []Span {
	if len(data) < evpMinSize {
		return nil
	}
	origin := common.BaseName(path)
	var spans []Span
	for i := 0; i < evpNodeCount; i++ {
		id := int(int32(binary.BigEndian.Uint32(data[i*8:])))
		pos := int(int32(binary.BigEndian.Uint32(data[i*8+4:])))
		if id < 0 || pos <= 0 || pos >= len(data) {
			continue
		}
		if !fits(pos, len(data)) {
			common.LogDebug(common.DebugSkippingEnemyNode, origin, id, pos)
			continue
		}
		common.LogDebug(common.DebugEnemyNode, origin, id, pos)
		spans = append(spans, Span{Path: path, Offset: pos, End: len(data), GameID: id, Origin: origin})
	}
	return spans
}

type enpSegment struct {
	name string
	pos  int
	size int
}

func enpSegments(path string, data []byte) ([]enpSegment, error) {
	if !common.BytesEqualAt(data, 0, enpSegmentMagic) {
		return []enpSegment{{name: common.BaseName(path), pos: 0, size: len(data)}}, nil
	}

	r := bytes.NewReader(data)
	if err := common.SkipBytes(r, len(enpSegmentMagic)); err != nil {
		return nil, common.NewCorruptData(path, 0, "truncated segment header")
	}
	count, err := common.ReadInt16BE(r)
	if err != nil {
		return nil, common.NewCorruptData(path, 4, "truncated segment header")
	}
	marker, err := common.ReadInt16BE(r)
	if err != nil {
		return nil, common.NewCorruptData(path, 6, "truncated segment header")
	}
	if marker != -1 || count < 0 {
		return nil, common.NewCorruptData(path, 4, "bad segment header")
	}

	var segments []enpSegment
	for i := 0; i < int(count); i++ {
		off := 8 + i*enpSegmentSize
		raw, err := common.ReadBytes(r, enpNameSize)
		if err != nil {
			return nil, common.NewCorruptData(path, off, "segment table truncated")
		}
		pos, err := common.ReadInt32BE(r)
		if err != nil {
			return nil, common.NewCorruptData(path, off, "segment table truncated")
		}
		size, err := common.ReadInt32BE(r)
		if err != nil {
			return nil, common.NewCorruptData(path, off, "segment table truncated")
		}
		// trailing checksum, not verified
		if err := common.SkipBytes(r, enpSegmentSize-enpNameSize-8); err != nil {
			return nil, common.NewCorruptData(path, off, "segment table truncated")
		}

		name := string(common.CString(raw))
		if strings.HasSuffix(name, ".bin") {
			name = strings.TrimSuffix(name, ".bin") + ".enp"
		}
		if pos < 0 || size < 0 || int(pos)+int(size) > len(data) {
			continue
		}
		segments = append(segments, enpSegment{name: name, pos: int(pos), size: int(size)})
	}
	return segments, nil
}

func enpSpans(path string, data []byte) ([]Span, error) {
	segments, err := enpSegments(path, data)
	if err != nil {
		return nil, err
	}

	var spans []Span
	for _, seg := range segments {
		body := data[seg.pos : seg.pos+seg.size]
		nodes := min(enpMaxNodes, len(body)/8)
		for i := 0; i < nodes; i++ {
			id := int(int32(binary.BigEndian.Uint32(body[i*8:])))
			pos := int(int32(binary.BigEndian.Uint32(body[i*8+4:])))
			if id < 0 {
				break
			}
			if pos < 0 || pos >= len(body) {
				continue
			}
			if !fits(pos, len(body)) {
				common.LogDebug(common.DebugSkippingEnemyNode, seg.name, id, pos)
				continue
			}
			common.LogDebug(common.DebugEnemyNode, seg.name, id, pos)
			spans = append(spans, Span{Path: path, Offset: seg.pos + pos, End: seg.pos + seg.size, GameID: id, Origin: seg.name})
		}
	}
	return spans, nil
}

func datSpan(path string, data []byte, idBase int) (Span, bool) {
	name := common.BaseName(path)
	digits := name[len("ecinit"):]
	if len(digits) < 3 {
		return Span{}, false
	}
	n, err := strconv.Atoi(digits[:3])
	if err != nil || !fits(0, len(data)) {
		return Span{}, false
	}
	return Span{Path: path, Offset: 0, End: len(data), GameID: n + idBase, Origin: name}, true
}

// taskSpans lists the AI tasks that follow each enemy record. An entry of
// type -1 is an empty slot and is skipped; type -1 together with task -1
// ends the list.
func taskSpans(store Store) ([]Span, error) {
	enemies, err := enemySpans(store)
	if err != nil {
		return nil, err
	}

	cache := newSourceCache(store)
	size := enemyTaskLayout.Size()
	var spans []Span
	for _, e := range enemies {
		data, err := cache.get(e.Path)
		if err != nil {
			return nil, err
		}
		end := min(e.End, len(data))
		pos := e.Offset + enemyLayout.Size()
		for slot := 1; slot <= maxEnemyTasks && pos+size <= end; slot++ {
			typeID := int16(binary.BigEndian.Uint16(data[pos:]))
			taskID := int16(binary.BigEndian.Uint16(data[pos+2:]))
			if typeID == -1 && taskID == -1 {
				break
			}
			if typeID != -1 {
				spans = append(spans, Span{Path: e.Path, Offset: pos, End: end, GameID: e.GameID, Origin: e.Origin, Slot: slot})
			}
			pos += size
		}
	}

	common.LogDebug(common.DebugSourceResolved, EnemyTask, len(spans), len(enemies))
	return spans, nil
}
