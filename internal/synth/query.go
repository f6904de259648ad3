package synth

import (
	"strings"

	"github.com/totemove/inventory-cli/internal/model"
)

// gamePlatforms maps platform markers found in search-result titles to the
// pricing database's platform slug appended to the lookup query. Longer
// markers sit earlier so "super nintendo" wins over "nes".
var gamePlatforms = []struct {
	marker string
	slug   string
}{
	{"super nintendo", "super-nintendo"},
	{"super famicom", "super-famicom"},
	{"xbox series x", "xbox-series-x"},
	{"game boy advance", "gameboy-advance"},
	{"game boy color", "gameboy-color"},
	{"nintendo 64", "nintendo-64"},
	{"mega drive", "sega-mega-drive"},
	{"dreamcast", "sega-dreamcast"},
	{"xbox 360", "xbox-360"},
	{"xbox one", "xbox-one"},
	{"gamecube", "gamecube"},
	{"game boy", "gameboy"},
	{"genesis", "sega-genesis"},
	{"saturn", "sega-saturn"},
	{"switch", "nintendo-switch"},
	{"playstation", "playstation"},
	{"wii u", "wii-u"},
	{"snes", "super-nintendo"},
	{"atari", "atari-2600"},
	{"ps5", "playstation-5"},
	{"ps4", "playstation-4"},
	{"ps3", "playstation-3"},
	{"ps2", "playstation-2"},
	{"ps1", "playstation"},
	{"n64", "nintendo-64"},
	{"nes", "nes"},
	{"wii", "wii"},
	{"xbox", "xbox"},
}

var gameKeywords = []string{"video game", "cartridge", " game"}

// pricingQuery decides whether the top visual candidate is worth a pricing
// lookup and builds the query for it. Only priceable categories (video
// games, LEGO sets, comics) hit the pricing database; everything else
// returns ("", false) and the item proceeds without listings.
func pricingQuery(candidates []model.ItemCandidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	title := strings.ToLower(candidates[0].Title)
	name := strings.TrimSpace(strings.SplitN(candidates[0].Title, "-", 2)[0])
	if name == "" {
		return "", false
	}

	for _, p := range gamePlatforms {
		if strings.Contains(title, p.marker) {
			return name + " " + p.slug, true
		}
	}
	for _, kw := range gameKeywords {
		if strings.Contains(title, kw) {
			return name, true
		}
	}
	if strings.Contains(title, "lego") {
		return "lego " + name, true
	}
	if strings.Contains(title, "comic") || strings.Contains(title, "marvel") ||
		strings.Contains(title, "dc comics") {
		return "comic " + name, true
	}
	return "", false
}
