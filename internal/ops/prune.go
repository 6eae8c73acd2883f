package ops

import (
	"database/sql"
	"time"

	"github.com/kchava/arcana/internal/calendar"
	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/db"
	"github.com/kchava/arcana/internal/errors"
)

// PruneInput contains parameters for the Prune operation.
type PruneInput struct {
	Days     int       // retain draws from the last N days (cutoff exclusive)
	Identity *string   // optional filter by identity
	Timezone string    // empty means the configured default timezone
	Now      time.Time // zero means time.Now(); injectable for tests
}

// PruneOutput contains the result of the Prune operation.
type PruneOutput struct {
	CutoffDay string `json:"cutoff_day"`
	Deleted   int    `json:"deleted"`
}

// Prune deletes draws older than the retention window. Draws from the
// cutoff day itself are kept.
func Prune(database *sql.DB, cfg *config.Config, input PruneInput) (*PruneOutput, error) {
	if input.Days < 1 {
		return nil, errors.NewInvalidRequest("days must be at least 1")
	}

	tz := input.Timezone
	if tz == "" {
		tz = cfg.DefaultTimezone
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	today, err := calendar.DayKey(tz, now)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	// Day keys are zero-padded ISO dates, so lexicographic comparison in
	// the store matches chronological order.
	t, err := time.Parse(calendar.DayKeyLayout, today)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	cutoff := t.AddDate(0, 0, -input.Days).Format(calendar.DayKeyLayout)

	deleted, err := db.PruneBefore(database, cutoff, input.Identity)
	if err != nil {
		return nil, err
	}

	return &PruneOutput{
		CutoffDay: cutoff,
		Deleted:   deleted,
	}, nil
}
