// Package deck defines the immutable card catalog the draw engine selects
// from. A Deck is loaded once at process start, validated, and never mutated;
// the engine receives it as an explicit dependency rather than reading any
// process-wide table.
package deck

// DefaultReversalProbability is used for cards that do not carry their own
// reversal probability.
const DefaultReversalProbability = 0.35

// Card represents a single catalog entry with parallel upright and reversed
// text fields. Which side is presented is decided per draw.
type Card struct {
	// ID uniquely identifies the card within the deck
	ID int `json:"id"`

	// Name is the display name (e.g., "The Fool")
	Name string `json:"name"`

	// Arcana is the grouping label ("major", or a suit for minor arcana)
	Arcana string `json:"arcana"`

	// UprightKeywords are the short descriptors for the upright orientation
	UprightKeywords []string `json:"uprightKeywords"`

	// ReversedKeywords are the short descriptors for the reversed orientation
	ReversedKeywords []string `json:"reversedKeywords"`

	// UprightMeaning is the long-form upright text (markdown)
	UprightMeaning string `json:"uprightMeaning"`

	// ReversedMeaning is the long-form reversed text (markdown)
	ReversedMeaning string `json:"reversedMeaning"`

	// Image is the asset reference for the card face
	Image string `json:"image"`

	// ReversalProbability is the chance in [0,1] that this card is drawn
	// reversed. Nil means DefaultReversalProbability.
	ReversalProbability *float64 `json:"reversalProbability,omitempty"`
}

// ReversalChance returns the effective reversal probability for the card.
func (c Card) ReversalChance() float64 {
	if c.ReversalProbability != nil {
		return *c.ReversalProbability
	}
	return DefaultReversalProbability
}

// Deck is an ordered, read-only collection of cards.
type Deck struct {
	// Name labels the deck (e.g., "Major Arcana")
	Name string `json:"name"`

	// Cards is the catalog in its canonical order
	Cards []Card `json:"cards"`
}

// Size returns the number of cards in the deck.
func (d Deck) Size() int {
	return len(d.Cards)
}
