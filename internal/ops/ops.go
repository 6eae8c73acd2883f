package ops

import (
	"strings"

	"github.com/kchava/arcana/internal/calendar"
	"github.com/kchava/arcana/internal/errors"
)

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Key is a validated (identity, day) draw address.
type Key struct {
	Identity string
	Day      string
}

// ValidateKey validates and trims a draw key. Rules:
// - identity must be non-empty after trimming
// - day must be a well-formed YYYY-MM-DD civil date
// Violations are INVALID_KEY and are raised before any store access.
func ValidateKey(identity, day string) (Key, error) {
	identity = strings.TrimSpace(identity)
	day = strings.TrimSpace(day)

	if identity == "" {
		return Key{}, errors.NewInvalidKey("identity must not be empty")
	}
	if day == "" {
		return Key{}, errors.NewInvalidKey("day key must not be empty")
	}
	if !calendar.ValidDayKey(day) {
		return Key{}, errors.NewInvalidKey("day key must be a YYYY-MM-DD date")
	}

	return Key{Identity: identity, Day: day}, nil
}

// clampLimit applies default and maximum bounds to a requested page size.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
