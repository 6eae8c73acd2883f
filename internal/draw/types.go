// Package draw implements the deterministic daily draw: a seeded shuffle of
// the deck, per-card orientation assignment, and assembly of the persisted
// draw record. Everything here is a pure function of (identity, day, count,
// deck); the same inputs always produce the same draw, in any process.
package draw

// DrawnCard is one card as resolved for a specific draw. Keywords and
// Meaning are copied wholesale from either the upright or the reversed side
// of the catalog card, never mixed.
type DrawnCard struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	ImagePath string   `json:"imagePath"`
	Reversed  bool     `json:"reversed"`
	Keywords  []string `json:"keywords"`
	Meaning   string   `json:"meaning"`
}

// DailyDraw is the persisted record for one (identity, day) pair. Once
// stored it is immutable; a cache hit returns the stored content verbatim.
type DailyDraw struct {
	// Date is the civil day key this draw belongs to
	Date string `json:"date"`

	// Cards is the ordered draw, length = requested count, no duplicate IDs
	Cards []DrawnCard `json:"cards"`

	// KeywordList flattens every card's keywords in draw order
	KeywordList []string `json:"keywordList"`

	// KeywordString is KeywordList joined with ", "
	KeywordString string `json:"keywordString"`

	// MeaningString is every card's meaning joined with a single space
	MeaningString string `json:"meaningString"`

	// ReversedCount and UprightCount always sum to len(Cards)
	ReversedCount int `json:"reversedCount"`
	UprightCount  int `json:"uprightCount"`

	// CreatedAt is the creation instant in epoch milliseconds, set once
	CreatedAt int64 `json:"createdAt"`
}
