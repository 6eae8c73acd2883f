package draw

import (
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/rng"
)

// orientationSeedSuffix is appended to the shuffle seed to derive the
// orientation stream, so card order and orientation stay uncorrelated.
const orientationSeedSuffix = "_rev"

// Shuffle returns a new slice containing a permutation of cards, fully
// determined by seed. The input slice is not modified.
func Shuffle(cards []deck.Card, seed string) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)

	gen := rng.NewSeeded(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(gen.Next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Orientations decides the reversed flag for each selected card, in order,
// using a stream seeded independently of the shuffle. A card with reversal
// probability 0 is never reversed; probability 1 always is.
func Orientations(cards []deck.Card, seed string) []bool {
	gen := rng.NewSeeded(seed)
	flags := make([]bool, len(cards))
	for i, c := range cards {
		flags[i] = gen.Next() < c.ReversalChance()
	}
	return flags
}
