package synth

import (
	"fmt"
	"strings"

	"github.com/totemove/inventory-cli/internal/model"
)

const promptInstructions = `Analyze the search results above and return ONLY a valid JSON object:

{
  "item_name": "Product title in the photographed region's naming",
  "platform": "Gaming platform name",
  "region": "NTSC-U, PAL, NTSC-J or null",
  "region_reasoning": "Which text indicators determined the region",
  "confidence": "HIGH/MEDIUM/LOW",
  "confidence_reason": "Brief explanation",
  "estimated_value_usd": 0.00,
  "value_range_min": 0.00,
  "value_range_max": 0.00,
  "price_source": "Which sources were used",
  "pricing_basis": "COMPLETE_IN_BOX/LOOSE_CART/LOOSE_DISC/NEW_SEALED/LOOSE_ACCESSORY/CONSOLE_ONLY/COMPLETE_CONSOLE/HANDHELD_ONLY/COMPLETE_HANDHELD/USED",
  "category": "Video Game Software, LEGO, Comic Books, Electronics, Collectibles, etc.",
  "condition_notes": "Brief notes",
  "variant_notes": "Important variants or regional differences",
  "warnings": [],
  "pricecharting_match_used": null,
  "pricecharting_match_confidence": "HIGH/MEDIUM/LOW/NONE",
  "manual_review_recommended": false,
  "manual_review_reason": ""
}

Regional indicators: "ESRB" and US platform names mean NTSC-U; "PEGI" and
European wording mean PAL; Japanese script, "Super Famicom", "Japan import"
mean NTSC-J. Use the photographed item's regional naming, not US names for
Japanese items.

Condition defaults when the listing text is silent: cartridge-era platforms
are LOOSE_CART; disc-based and modern-cartridge platforms are COMPLETE_IN_BOX.
Only claim NEW_SEALED when sources consistently say factory sealed.

When pricing options are listed, set pricecharting_match_used to the option
number matching BOTH name and region, or null if none matches.`

// BuildPrompt renders the per-item synthesis prompt from the visual-search
// candidates and pricing options available for the item.
func BuildPrompt(candidates []model.ItemCandidate, listings []model.PricingListing) string {
	var b strings.Builder

	b.WriteString("=== IMAGE SEARCH RESULTS ===\n\n")
	if len(candidates) == 0 {
		b.WriteString("(no visual matches found)\n")
	}
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Title)
		if c.Source != "" {
			fmt.Fprintf(&b, "   Source: %s\n", c.Source)
		}
		if c.Price > 0 {
			fmt.Fprintf(&b, "   Price: %.2f %s\n", c.Price, c.Currency)
		}
		if c.Condition != "" {
			fmt.Fprintf(&b, "   Condition: %s\n", c.Condition)
		}
		if c.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", c.Snippet)
		}
	}

	if len(listings) > 0 {
		fmt.Fprintf(&b, "\n=== PRICING MATCHES ===\nFound %d potential matches. Select the correct regional variant:\n\n", len(listings))
		for i, l := range listings {
			fmt.Fprintf(&b, "OPTION %d: %s\n", i+1, l.ProductName)
			fmt.Fprintf(&b, "  Platform: %s\n", l.Platform)
			if l.Region != "" {
				fmt.Fprintf(&b, "  Region: %s\n", l.Region)
			}
			if l.Basis != "" {
				fmt.Fprintf(&b, "  Basis: %s, Price: $%.2f\n", l.Basis, l.Price)
			} else {
				fmt.Fprintf(&b, "  Price: $%.2f\n", l.Price)
			}
			if l.ReleaseDate != "" {
				fmt.Fprintf(&b, "  Release: %s\n", l.ReleaseDate)
			}
			if l.UPC != "" {
				fmt.Fprintf(&b, "  UPC: %s\n", l.UPC)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(promptInstructions)
	return b.String()
}
