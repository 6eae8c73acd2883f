package draw

import (
	"strings"
	"time"

	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/errors"
)

// keywordJoin separates entries in the aggregated keyword string.
const keywordJoin = ", "

// Seed derives the shuffle seed for an (identity, day) pair.
func Seed(identity, day string) string {
	return identity + "_" + day
}

// Build computes the daily draw for identity on day: shuffle the deck with
// the derived seed, take the first count cards, assign orientations from an
// independently seeded stream, and aggregate keywords and meanings.
//
// Note that draws for different counts under the same seed do not share a
// prefix: each count is its own full shuffle, and truncation stability is
// not a property of Fisher–Yates.
func Build(identity, day string, count int, d deck.Deck, now time.Time) (*DailyDraw, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, errors.NewInvalidKey("identity must not be empty")
	}
	if strings.TrimSpace(day) == "" {
		return nil, errors.NewInvalidKey("day key must not be empty")
	}
	if count < 1 {
		return nil, errors.NewInvalidRequest("count must be at least 1")
	}
	if count > d.Size() {
		return nil, errors.NewCatalogTooSmall(count, d.Size())
	}

	seed := Seed(identity, day)
	shuffled := Shuffle(d.Cards, seed)
	selected := shuffled[:count]
	flags := Orientations(selected, seed+orientationSeedSuffix)

	cards := make([]DrawnCard, count)
	keywordList := make([]string, 0, count*4)
	meanings := make([]string, 0, count)
	reversed := 0

	for i, c := range selected {
		keywords := c.UprightKeywords
		meaning := c.UprightMeaning
		if flags[i] {
			keywords = c.ReversedKeywords
			meaning = c.ReversedMeaning
			reversed++
		}

		cards[i] = DrawnCard{
			ID:        c.ID,
			Name:      c.Name,
			ImagePath: c.Image,
			Reversed:  flags[i],
			Keywords:  keywords,
			Meaning:   meaning,
		}

		keywordList = append(keywordList, keywords...)
		meanings = append(meanings, meaning)
	}

	return &DailyDraw{
		Date:          day,
		Cards:         cards,
		KeywordList:   keywordList,
		KeywordString: strings.Join(keywordList, keywordJoin),
		MeaningString: strings.Join(meanings, " "),
		ReversedCount: reversed,
		UprightCount:  count - reversed,
		CreatedAt:     now.UnixMilli(),
	}, nil
}
