package db

import (
	"database/sql"

	"github.com/kchava/arcana/internal/errors"
)

// DrawRecord is a stored daily draw row. Payload holds the draw JSON exactly
// as it was first written; readers must return it verbatim rather than
// re-marshaling, so stale-shape records survive schema drift untouched.
type DrawRecord struct {
	RecordID  string
	Identity  string
	Day       string
	Payload   []byte
	CreatedAt int64
}

// GetDraw retrieves the stored draw for (identity, day).
// Returns (nil, nil) when no record exists; a read failure is surfaced as
// STORE_UNAVAILABLE.
func GetDraw(db *sql.DB, identity, day string) (*DrawRecord, error) {
	query := `
		SELECT record_id, identity, day, payload, created_at
		FROM draws
		WHERE identity = ? AND day = ?
	`

	rec := &DrawRecord{}
	err := db.QueryRow(query, identity, day).Scan(
		&rec.RecordID, &rec.Identity, &rec.Day, &rec.Payload, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	return rec, nil
}

// PutDraw stores a draw record at (identity, day) with last-write-wins
// semantics. Concurrent writers for the same key compute bit-identical
// payloads, so an overwrite never corrupts state.
func PutDraw(db *sql.DB, rec *DrawRecord) error {
	query := `
		INSERT OR REPLACE INTO draws (record_id, identity, day, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, rec.RecordID, rec.Identity, rec.Day, rec.Payload, rec.CreatedAt)
	if err != nil {
		return errors.NewStorePersistFailure(err)
	}

	return nil
}

// ListDraws returns stored draws for an identity, most recent day first.
// The total count (ignoring pagination) is returned alongside the page.
func ListDraws(db *sql.DB, identity string, limit, offset int) ([]DrawRecord, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM draws WHERE identity = ?`, identity).Scan(&total); err != nil {
		return nil, 0, errors.NewStoreUnavailable(err)
	}

	query := `
		SELECT record_id, identity, day, payload, created_at
		FROM draws
		WHERE identity = ?
		ORDER BY day DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.Query(query, identity, limit, offset)
	if err != nil {
		return nil, 0, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	records := make([]DrawRecord, 0, limit)
	for rows.Next() {
		var rec DrawRecord
		if err := rows.Scan(&rec.RecordID, &rec.Identity, &rec.Day, &rec.Payload, &rec.CreatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewStoreUnavailable(err)
	}

	return records, total, nil
}

// StreamForExport returns a rows cursor over stored draws for export,
// optionally filtered by identity, ordered by identity then day.
func StreamForExport(db *sql.DB, identity *string) (*sql.Rows, error) {
	query := `
		SELECT record_id, identity, day, payload, created_at
		FROM draws
	`
	args := []any{}
	if identity != nil {
		query += ` WHERE identity = ?`
		args = append(args, *identity)
	}
	query += ` ORDER BY identity, day`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return rows, nil
}

// ScanDrawFromRows scans a DrawRecord from a rows cursor positioned on a row.
func ScanDrawFromRows(rows *sql.Rows) (*DrawRecord, error) {
	rec := &DrawRecord{}
	if err := rows.Scan(&rec.RecordID, &rec.Identity, &rec.Day, &rec.Payload, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

// PruneBefore permanently deletes stored draws with a day key strictly
// before cutoffDay, optionally restricted to one identity. Day keys sort
// lexicographically as dates, so plain string comparison is correct.
func PruneBefore(db *sql.DB, cutoffDay string, identity *string) (int, error) {
	query := `DELETE FROM draws WHERE day < ?`
	args := []any{cutoffDay}
	if identity != nil {
		query += ` AND identity = ?`
		args = append(args, *identity)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewStoreUnavailable(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(affected), nil
}
