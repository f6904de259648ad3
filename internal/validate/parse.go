package validate

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/totemove/inventory-cli/internal/model"
)

// ParseDraft decodes raw model output into an untrusted SynthesisDraft.
// The text may wrap the JSON object in markdown code fences or prose.
func ParseDraft(raw string) (*model.SynthesisDraft, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, eris.New("validate: empty model output")
	}

	var draft model.SynthesisDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, eris.Wrap(err, "validate: parse model output")
	}
	return &draft, nil
}

// cleanJSON extracts a JSON object from text that may contain markdown code
// fences or surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
