package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
)

//go:embed offsets.yaml
var embeddedOffsets []byte

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Len is the number of bytes in the range.
func (r Range) Len() int { return r.End - r.Start }

// Table file kinds used in the offset table.
const (
	FileExecutable = "executable"
	FileLevel      = "level"
)

type tableOffsets struct {
	File         string `yaml:"file"`
	Start        int    `yaml:"start"`
	End          int    `yaml:"end"`
	Descriptions *Range `yaml:"descriptions"`
}

type regionOffsets struct {
	GameID    string                  `yaml:"game_id"`
	LevelFile string                  `yaml:"level_file"`
	Tables    map[string]tableOffsets `yaml:"tables"`
}

// ParseOffsets decodes an offset table document and builds one Catalog per
// region it describes.
func ParseOffsets(data []byte) (map[gcn.Region]*Catalog, error) {
	var doc map[gcn.Region]regionOffsets
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, common.FormatError(common.ErrFailedToLoadOffsets, err)
	}

	out := make(map[gcn.Region]*Catalog, len(doc))
	for region, offsets := range doc {
		c, err := build(region, offsets)
		if err != nil {
			return nil, fmt.Errorf("%s: region %s: %w", common.ErrFailedToLoadOffsets, region, err)
		}
		out[region] = c
	}
	return out, nil
}

var builtin = sync.OnceValues(func() (map[gcn.Region]*Catalog, error) {
	return ParseOffsets(embeddedOffsets)
})

// ForVersion returns the built-in catalog for a game build.
func ForVersion(v gcn.Version) (*Catalog, error) {
	catalogs, err := builtin()
	if err != nil {
		return nil, err
	}
	c, ok := catalogs[v.Region]
	if !ok {
		return nil, fmt.Errorf("%w: no offset table for %s", common.ErrUnsupportedVersion, v)
	}
	return c, nil
}
