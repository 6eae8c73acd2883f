package db

import (
	"fmt"
	"testing"
	"time"
)

// newTestRecord creates a draw record with a small JSON payload.
func newTestRecord(identity, day string) *DrawRecord {
	payload := fmt.Sprintf(`{"date":%q,"cards":[],"reversedCount":0,"uprightCount":0}`, day)
	return &DrawRecord{
		RecordID:  "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Identity:  identity,
		Day:       day,
		Payload:   []byte(payload),
		CreatedAt: time.Now().UnixMilli(),
	}
}

// stringPtr returns a pointer to the given string.
func stringPtr(s string) *string {
	return &s
}

func TestPutAndGetDraw(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	rec := newTestRecord("user-42", "2024-03-10")
	if err := PutDraw(db, rec); err != nil {
		t.Fatalf("PutDraw failed: %v", err)
	}

	got, err := GetDraw(db, "user-42", "2024-03-10")
	if err != nil {
		t.Fatalf("GetDraw failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetDraw returned nil for stored record")
	}
	if got.Identity != "user-42" {
		t.Errorf("Identity = %q, want user-42", got.Identity)
	}
	if got.Day != "2024-03-10" {
		t.Errorf("Day = %q, want 2024-03-10", got.Day)
	}
	if string(got.Payload) != string(rec.Payload) {
		t.Errorf("Payload = %s, want %s", got.Payload, rec.Payload)
	}
	if got.CreatedAt != rec.CreatedAt {
		t.Errorf("CreatedAt = %d, want %d", got.CreatedAt, rec.CreatedAt)
	}
}

func TestGetDraw_Missing(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	got, err := GetDraw(db, "nobody", "2024-03-10")
	if err != nil {
		t.Fatalf("GetDraw failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetDraw = %+v, want nil for missing record", got)
	}
}

func TestPutDraw_LastWriteWins(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	first := newTestRecord("user-42", "2024-03-10")
	if err := PutDraw(db, first); err != nil {
		t.Fatalf("first PutDraw failed: %v", err)
	}

	second := newTestRecord("user-42", "2024-03-10")
	second.Payload = []byte(`{"date":"2024-03-10","cards":[],"reversedCount":1,"uprightCount":0}`)
	if err := PutDraw(db, second); err != nil {
		t.Fatalf("second PutDraw failed: %v", err)
	}

	got, err := GetDraw(db, "user-42", "2024-03-10")
	if err != nil {
		t.Fatalf("GetDraw failed: %v", err)
	}
	if string(got.Payload) != string(second.Payload) {
		t.Errorf("Payload = %s, want last write", got.Payload)
	}

	// Still exactly one row for the key
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM draws").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestPutDraw_DistinctKeys(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	// Same identity different days, and same day different identities,
	// are distinct rows.
	keys := []struct{ identity, day string }{
		{"user-42", "2024-03-10"},
		{"user-42", "2024-03-11"},
		{"user-43", "2024-03-10"},
	}
	for _, k := range keys {
		if err := PutDraw(db, newTestRecord(k.identity, k.day)); err != nil {
			t.Fatalf("PutDraw(%s, %s) failed: %v", k.identity, k.day, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM draws").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 3 {
		t.Errorf("row count = %d, want 3", count)
	}
}

func TestListDraws(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	days := []string{"2024-03-08", "2024-03-09", "2024-03-10"}
	for _, day := range days {
		if err := PutDraw(db, newTestRecord("user-42", day)); err != nil {
			t.Fatalf("PutDraw failed: %v", err)
		}
	}
	// Another identity's rows must not appear
	if err := PutDraw(db, newTestRecord("user-43", "2024-03-10")); err != nil {
		t.Fatalf("PutDraw failed: %v", err)
	}

	records, total, err := ListDraws(db, "user-42", 10, 0)
	if err != nil {
		t.Fatalf("ListDraws failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	// Most recent day first
	if records[0].Day != "2024-03-10" {
		t.Errorf("records[0].Day = %q, want 2024-03-10", records[0].Day)
	}
	if records[2].Day != "2024-03-08" {
		t.Errorf("records[2].Day = %q, want 2024-03-08", records[2].Day)
	}
}

func TestListDraws_Pagination(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	for i := 1; i <= 5; i++ {
		day := fmt.Sprintf("2024-03-%02d", i)
		if err := PutDraw(db, newTestRecord("user-42", day)); err != nil {
			t.Fatalf("PutDraw failed: %v", err)
		}
	}

	records, total, err := ListDraws(db, "user-42", 2, 2)
	if err != nil {
		t.Fatalf("ListDraws failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Day != "2024-03-03" {
		t.Errorf("records[0].Day = %q, want 2024-03-03", records[0].Day)
	}
}

func TestStreamForExport(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	if err := PutDraw(db, newTestRecord("user-42", "2024-03-10")); err != nil {
		t.Fatalf("PutDraw failed: %v", err)
	}
	if err := PutDraw(db, newTestRecord("user-43", "2024-03-10")); err != nil {
		t.Fatalf("PutDraw failed: %v", err)
	}

	// Unfiltered: both rows
	rows, err := StreamForExport(db, nil)
	if err != nil {
		t.Fatalf("StreamForExport failed: %v", err)
	}
	count := 0
	for rows.Next() {
		if _, err := ScanDrawFromRows(rows); err != nil {
			t.Fatalf("ScanDrawFromRows failed: %v", err)
		}
		count++
	}
	rows.Close()
	if count != 2 {
		t.Errorf("unfiltered count = %d, want 2", count)
	}

	// Filtered by identity
	rows, err = StreamForExport(db, stringPtr("user-42"))
	if err != nil {
		t.Fatalf("StreamForExport failed: %v", err)
	}
	count = 0
	for rows.Next() {
		rec, err := ScanDrawFromRows(rows)
		if err != nil {
			t.Fatalf("ScanDrawFromRows failed: %v", err)
		}
		if rec.Identity != "user-42" {
			t.Errorf("Identity = %q, want user-42", rec.Identity)
		}
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("filtered count = %d, want 1", count)
	}
}

func TestPruneBefore(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	days := []string{"2024-02-01", "2024-02-15", "2024-03-10"}
	for _, day := range days {
		if err := PutDraw(db, newTestRecord("user-42", day)); err != nil {
			t.Fatalf("PutDraw failed: %v", err)
		}
	}

	pruned, err := PruneBefore(db, "2024-03-01", nil)
	if err != nil {
		t.Fatalf("PruneBefore failed: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}

	// Remaining row is the most recent
	records, total, err := ListDraws(db, "user-42", 10, 0)
	if err != nil {
		t.Fatalf("ListDraws failed: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("total = %d, len = %d, want 1/1", total, len(records))
	}
	if records[0].Day != "2024-03-10" {
		t.Errorf("remaining Day = %q, want 2024-03-10", records[0].Day)
	}
}

func TestPruneBefore_IdentityFilter(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	if err := PutDraw(db, newTestRecord("user-42", "2024-01-01")); err != nil {
		t.Fatalf("PutDraw failed: %v", err)
	}
	if err := PutDraw(db, newTestRecord("user-43", "2024-01-01")); err != nil {
		t.Fatalf("PutDraw failed: %v", err)
	}

	pruned, err := PruneBefore(db, "2024-02-01", stringPtr("user-42"))
	if err != nil {
		t.Fatalf("PruneBefore failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	// user-43's row untouched
	got, err := GetDraw(db, "user-43", "2024-01-01")
	if err != nil {
		t.Fatalf("GetDraw failed: %v", err)
	}
	if got == nil {
		t.Error("user-43 record was pruned by identity-filtered prune")
	}
}
