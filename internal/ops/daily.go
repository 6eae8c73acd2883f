package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/db"
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/draw"
	"github.com/kchava/arcana/internal/errors"
)

// Draw source labels for DailyOutput.Source.
const (
	SourceStore    = "store"
	SourceComputed = "computed"
)

// DailyInput contains parameters for the Daily operation.
type DailyInput struct {
	Identity string
	Day      string
	Count    int       // 0 means the configured draw count
	Now      time.Time // zero means time.Now(); injectable for tests
}

// DailyOutput contains the result of the Daily operation. Draw holds the
// stored payload verbatim on a cache hit, or the freshly computed draw on a
// miss.
type DailyOutput struct {
	Identity       string          `json:"identity"`
	Day            string          `json:"day"`
	Source         string          `json:"source"`
	RecordID       string          `json:"record_id"`
	Draw           json.RawMessage `json:"draw"`
	PersistWarning string          `json:"persist_warning,omitempty"`
}

// Daily is the get-or-create path for daily draws.
//
// The store is read first; an existing record is returned exactly as
// stored, never recomputed or overwritten, even if its shape predates the
// current draw count or schema. On a miss the draw is computed, persisted
// with last-write-wins semantics, and returned.
//
// A persist failure after a successful compute returns BOTH a non-nil
// output and a STORE_PERSIST_FAILURE error: the draw is pure, so it is
// valid for the current call whether or not the write landed. Callers that
// see that code should surface the draw and treat the error as a warning.
func Daily(database *sql.DB, cfg *config.Config, d deck.Deck, input DailyInput) (*DailyOutput, error) {
	key, err := ValidateKey(input.Identity, input.Day)
	if err != nil {
		return nil, err
	}

	count := input.Count
	if count == 0 {
		count = cfg.DrawCount
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Read strictly precedes any compute-and-write.
	rec, err := db.GetDraw(database, key.Identity, key.Day)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return &DailyOutput{
			Identity: key.Identity,
			Day:      key.Day,
			Source:   SourceStore,
			RecordID: rec.RecordID,
			Draw:     json.RawMessage(rec.Payload),
		}, nil
	}

	computed, err := draw.Build(key.Identity, key.Day, count, d, now)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(computed)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	recordID, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	out := &DailyOutput{
		Identity: key.Identity,
		Day:      key.Day,
		Source:   SourceComputed,
		RecordID: recordID,
		Draw:     payload,
	}

	if err := db.PutDraw(database, &db.DrawRecord{
		RecordID:  recordID,
		Identity:  key.Identity,
		Day:       key.Day,
		Payload:   payload,
		CreatedAt: computed.CreatedAt,
	}); err != nil {
		// Read-your-write best effort: the computed draw is still valid.
		if aErr, ok := err.(*errors.ArcanaError); ok {
			out.PersistWarning = aErr.Message
		} else {
			out.PersistWarning = err.Error()
		}
		return out, err
	}

	return out, nil
}

// generateULID generates a new ULID for the given instant.
func generateULID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
