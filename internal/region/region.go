// Package region resolves an item's regional variant from free-text signals
// (visual-search titles, snippets, model output). Precision over recall: when
// indicators for more than one region appear, the answer is UNKNOWN rather
// than a guess, because a wrong region corrupts pricing lookups silently.
package region

import (
	"strings"
	"unicode"

	"github.com/totemove/inventory-cli/internal/model"
)

// Indicator sets are disjoint by construction: a marker appears under at most
// one region. Markers are matched case-insensitively as substrings.
var indicators = map[model.Region][]string{
	model.RegionNTSCJ: {
		"ntsc-j", "japanese", "japan import", " jpn ", " japan ",
		"super famicom", "famicom", "pc engine", "rock man", "rockman",
	},
	model.RegionNTSCU: {
		"ntsc-u", "esrb", "north america", "us version", " usa ",
		"turbografx", " snes ", " nes ",
	},
	model.RegionPAL: {
		"pal version", " pal ", "pegi", "european", "uk version", "eu version",
	},
}

// Resolve scans the supplied free-text signals for regional indicators.
// Exactly one region indicated: (region, HIGH). Indicators for more than one
// region: (UNKNOWN, LOW). No indicator at all: (UNKNOWN, NONE). Resolve is
// idempotent and order-insensitive over its inputs.
func Resolve(signals []string) (model.Region, model.Certainty) {
	found := map[model.Region]bool{}
	for _, s := range signals {
		text := normalize(s)
		for region, markers := range indicators {
			if found[region] {
				continue
			}
			for _, m := range markers {
				if strings.Contains(text, m) {
					found[region] = true
					break
				}
			}
		}
		// Japanese script is its own NTSC-J signal; sellers of imports often
		// keep kana or kanji in the listing title.
		if !found[model.RegionNTSCJ] && containsJapaneseScript(s) {
			found[model.RegionNTSCJ] = true
		}
	}

	switch len(found) {
	case 0:
		return model.RegionUnknown, model.CertaintyNone
	case 1:
		for region := range found {
			return region, model.CertaintyHigh
		}
	}
	return model.RegionUnknown, model.CertaintyLow
}

// normalize lowercases and pads the text so word-boundary markers like
// " pal " can match at string edges.
func normalize(s string) string {
	return " " + strings.ToLower(s) + " "
}

func containsJapaneseScript(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}
