// Package condition maps gaming platforms to their default condition basis.
// The scanner cannot see whether a box or manual is present, so pricing falls
// back to the most common completeness tier for the platform's era.
package condition

import (
	"strings"

	"github.com/totemove/inventory-cli/internal/model"
)

// looseCartPlatforms are cartridge-era and classic handheld platforms where
// items overwhelmingly survive as bare cartridges.
var looseCartPlatforms = map[string]struct{}{
	"nes":              {},
	"famicom":          {},
	"snes":             {},
	"super nintendo":   {},
	"super famicom":    {},
	"n64":              {},
	"nintendo 64":      {},
	"genesis":          {},
	"sega genesis":     {},
	"mega drive":       {},
	"master system":    {},
	"sega 32x":         {},
	"game boy":         {},
	"game boy color":   {},
	"game boy advance": {},
	"gba":              {},
	"gbc":              {},
	"turbografx-16":    {},
	"pc engine":        {},
	"atari 2600":       {},
	"atari 5200":       {},
	"atari 7800":       {},
	"atari":            {},
}

// Default returns the condition basis assumed for a platform when the draft
// does not state one. The mapping is total: unknown platforms map to
// COMPLETE_IN_BOX, the higher-value default, so a wrong guess surfaces as an
// overvaluation flagged for review rather than a silent undervaluation.
func Default(platform string) model.ConditionBasis {
	key := strings.ToLower(strings.TrimSpace(platform))
	if _, ok := looseCartPlatforms[key]; ok {
		return model.ConditionLooseCart
	}
	return model.ConditionCompleteInBox
}
