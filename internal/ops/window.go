package ops

import (
	"time"

	"github.com/kchava/arcana/internal/calendar"
	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/errors"
)

// WindowInput contains parameters for the Window operation.
type WindowInput struct {
	Timezone string    // empty means the configured default timezone
	Now      time.Time // zero means time.Now(); injectable for tests
}

// WindowOutput contains the result of the Window operation.
type WindowOutput struct {
	Timezone string          `json:"timezone"`
	Window   calendar.Window `json:"window"`
}

// Window resolves the yesterday/today/tomorrow day keys for a timezone.
// The boundaries shift with the timezone's civil date, DST included.
func Window(cfg *config.Config, input WindowInput) (*WindowOutput, error) {
	tz := input.Timezone
	if tz == "" {
		tz = cfg.DefaultTimezone
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	w, err := calendar.Resolve(tz, now)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	return &WindowOutput{
		Timezone: tz,
		Window:   w,
	}, nil
}
