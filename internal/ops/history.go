package ops

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/kchava/arcana/internal/db"
	"github.com/kchava/arcana/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Identity string
	Limit    int // 0 means DefaultHistoryLimit, capped at MaxHistoryLimit
	Offset   int
}

// HistoryEntry is a per-day summary derived from a stored draw payload.
type HistoryEntry struct {
	Day           string   `json:"day"`
	RecordID      string   `json:"record_id"`
	CardNames     []string `json:"card_names"`
	ReversedCount int      `json:"reversed_count"`
	UprightCount  int      `json:"upright_count"`
	CreatedAt     int64    `json:"created_at"`
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Identity   string         `json:"identity"`
	Entries    []HistoryEntry `json:"entries"`
	Pagination Pagination     `json:"pagination"`
}

// payloadSummary decodes only the payload fields history needs.
type payloadSummary struct {
	Cards []struct {
		Name     string `json:"name"`
		Reversed bool   `json:"reversed"`
	} `json:"cards"`
	ReversedCount int `json:"reversedCount"`
	UprightCount  int `json:"uprightCount"`
}

// History lists an identity's stored draws, most recent day first.
func History(database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	identity := strings.TrimSpace(input.Identity)
	if identity == "" {
		return nil, errors.NewInvalidKey("identity must not be empty")
	}

	limit := clampLimit(input.Limit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	recs, total, err := db.ListDraws(database, identity, limit, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		entry := HistoryEntry{
			Day:       rec.Day,
			RecordID:  rec.RecordID,
			CreatedAt: rec.CreatedAt,
		}

		// A payload that fails to decode still gets a bare entry; the
		// record itself remains retrievable via Get.
		var summary payloadSummary
		if err := json.Unmarshal(rec.Payload, &summary); err == nil {
			entry.ReversedCount = summary.ReversedCount
			entry.UprightCount = summary.UprightCount
			names := make([]string, 0, len(summary.Cards))
			for _, c := range summary.Cards {
				names = append(names, c.Name)
			}
			entry.CardNames = names
		}

		entries = append(entries, entry)
	}

	return &HistoryOutput{
		Identity: identity,
		Entries:  entries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(entries) < total,
			Total:   total,
		},
	}, nil
}
