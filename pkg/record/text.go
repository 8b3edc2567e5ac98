package record

import (
	"fmt"
	"strings"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Encoding is the in-game text encoding of a string field.
type Encoding int

const (
	// Latin is Windows-1252. Shift-JIS punctuation pairs embedded in Latin
	// text are folded to their Windows-1252 equivalents on decode.
	Latin Encoding = iota
	// ShiftJIS is used for Japanese names.
	ShiftJIS
)

func (e Encoding) String() string {
	switch e {
	case Latin:
		return "windows-1252"
	case ShiftJIS:
		return "shift-jis"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// Decode converts in-game bytes (already cut at the terminator) to UTF-8.
func (e Encoding) Decode(b []byte) (string, error) {
	var t transform.Transformer
	switch e {
	case Latin:
		t = transform.Chain(sjisPunctuation{}, charmap.Windows1252.NewDecoder())
	case ShiftJIS:
		t = japanese.ShiftJIS.NewDecoder()
	default:
		return "", fmt.Errorf("unknown text encoding %d", int(e))
	}
	out, _, err := transform.Bytes(t, b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidText, err)
	}
	return string(out), nil
}

// Encode converts UTF-8 text to in-game bytes without a terminator.
func (e Encoding) Encode(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("%w: embedded NUL", common.ErrInvalidText)
	}

	var t transform.Transformer
	switch e {
	case Latin:
		t = charmap.Windows1252.NewEncoder()
	case ShiftJIS:
		t = japanese.ShiftJIS.NewEncoder()
	default:
		return nil, fmt.Errorf("unknown text encoding %d", int(e))
	}
	out, _, err := transform.Bytes(t, []byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not representable in %s", common.ErrInvalidText, s, e)
	}
	return out, nil
}

// sjisLead starts every double-byte punctuation mark the US build mixes into
// otherwise Windows-1252 text.
const sjisLead = 0x81

var sjisPunctuationMap = map[byte]byte{
	0x40: ' ',  // ideographic space
	0x63: 0x85, // ellipsis
	0x66: '\'', // single quote
	0x67: 0x93, // left double quote
	0x68: 0x94, // right double quote
	0x73: 0xAB, // left guillemet
	0x74: 0xBB, // right guillemet
}

// sjisPunctuation rewrites 0x81-prefixed punctuation into single
// Windows-1252 bytes. Every other byte passes through unchanged.
type sjisPunctuation struct{}

func (sjisPunctuation) Reset() {}

func (sjisPunctuation) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		consumed := 1
		if b == sjisLead {
			if nSrc+1 >= len(src) && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nSrc+1 < len(src) {
				if r, ok := sjisPunctuationMap[src[nSrc+1]]; ok {
					b = r
					consumed = 2
				}
			}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += consumed
	}
	return nDst, nSrc, nil
}
