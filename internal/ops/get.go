package ops

import (
	"database/sql"
	"encoding/json"

	"github.com/kchava/arcana/internal/db"
	"github.com/kchava/arcana/internal/errors"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	Identity string
	Day      string
}

// GetOutput contains the result of the Get operation. Draw holds the stored
// payload verbatim.
type GetOutput struct {
	Identity  string          `json:"identity"`
	Day       string          `json:"day"`
	RecordID  string          `json:"record_id"`
	Draw      json.RawMessage `json:"draw"`
	CreatedAt int64           `json:"created_at"`
}

// Get is the read-only lookup path. Unlike Daily it never computes a draw:
// a missing record is NOT_FOUND.
func Get(database *sql.DB, input GetInput) (*GetOutput, error) {
	key, err := ValidateKey(input.Identity, input.Day)
	if err != nil {
		return nil, err
	}

	rec, err := db.GetDraw(database, key.Identity, key.Day)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NewNotFound(key.Identity, key.Day)
	}

	return &GetOutput{
		Identity:  rec.Identity,
		Day:       rec.Day,
		RecordID:  rec.RecordID,
		Draw:      json.RawMessage(rec.Payload),
		CreatedAt: rec.CreatedAt,
	}, nil
}
