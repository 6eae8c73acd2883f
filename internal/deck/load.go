package deck

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed deck.json
var defaultDeckJSON []byte

// Default returns the embedded major-arcana deck. It panics only if the
// embedded data is corrupt, which is a build defect, not a runtime
// condition.
func Default() Deck {
	d, err := parse(defaultDeckJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded deck is invalid: %v", err))
	}
	return d
}

// LoadFile loads and validates a deck from a JSON file. Used when config
// points at a full deck instead of the embedded default.
func LoadFile(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("failed to read deck file: %w", err)
	}
	d, err := parse(data)
	if err != nil {
		return Deck{}, fmt.Errorf("deck file %s: %w", path, err)
	}
	return d, nil
}

// parse unmarshals and validates deck JSON.
func parse(data []byte) (Deck, error) {
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("invalid deck JSON: %w", err)
	}
	if err := Validate(d); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// Validate checks deck invariants: a non-empty catalog, unique card IDs,
// non-empty names and meanings, and reversal probabilities within [0, 1].
func Validate(d Deck) error {
	if len(d.Cards) == 0 {
		return fmt.Errorf("deck has no cards")
	}

	seen := make(map[int]bool, len(d.Cards))
	for i, c := range d.Cards {
		if seen[c.ID] {
			return fmt.Errorf("duplicate card id %d at index %d", c.ID, i)
		}
		seen[c.ID] = true

		if c.Name == "" {
			return fmt.Errorf("card id %d has empty name", c.ID)
		}
		if c.UprightMeaning == "" || c.ReversedMeaning == "" {
			return fmt.Errorf("card %q is missing meaning text", c.Name)
		}
		if len(c.UprightKeywords) == 0 || len(c.ReversedKeywords) == 0 {
			return fmt.Errorf("card %q is missing keywords", c.Name)
		}
		if p := c.ReversalProbability; p != nil && (*p < 0 || *p > 1) {
			return fmt.Errorf("card %q has reversal probability %v outside [0,1]", c.Name, *p)
		}
	}

	return nil
}
