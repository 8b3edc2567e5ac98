package gcn

import (
	"fmt"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// Region is the market a disc build was made for.
type Region string

const (
	RegionUS Region = "US"
	RegionJP Region = "JP"
	RegionEU Region = "EU"
)

// GameCode is the product code every build of the game shares.
const GameCode = "GEA"

var regionLetters = map[byte]Region{
	'E': RegionUS,
	'J': RegionJP,
	'P': RegionEU,
}

// Version identifies one build of the game.
type Version struct {
	GameID string
	Region Region
}

func (v Version) String() string {
	return fmt.Sprintf("%s (%s)", v.GameID, v.Region)
}

// ParseVersion maps a 6-character game ID to a Version.
func ParseVersion(gameID string) (Version, error) {
	if len(gameID) != 6 || gameID[:3] != GameCode {
		return Version{}, fmt.Errorf("%w: game id %q", common.ErrNotAGameImage, gameID)
	}
	region, ok := regionLetters[gameID[3]]
	if !ok {
		common.LogWarn(common.WarnUnknownRegion, gameID)
		return Version{}, fmt.Errorf("%w: unknown region letter %q in %q", common.ErrNotAGameImage, gameID[3], gameID)
	}
	return Version{GameID: gameID, Region: region}, nil
}
