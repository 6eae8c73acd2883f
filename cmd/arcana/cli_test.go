package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/db"
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	return config.DefaultConfig()
}

// runCLI runs the app with the given args, capturing stdout.
func runCLI(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"arcana"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestCLIDraw tests the draw command.
func TestCLIDraw(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg, deck.Default())

	out, err := runCLI(t, app, "draw", "user-42", "--day=2024-03-10")
	if err != nil {
		t.Fatalf("draw command failed: %v", err)
	}

	var output ops.DailyOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Source != ops.SourceComputed {
		t.Errorf("expected source=computed, got %s", output.Source)
	}
	if output.RecordID == "" {
		t.Error("expected non-empty record_id")
	}
	if output.Day != "2024-03-10" {
		t.Errorf("expected day=2024-03-10, got %s", output.Day)
	}

	// Second draw for the same key returns the stored result
	out, err = runCLI(t, app, "draw", "user-42", "--day=2024-03-10")
	if err != nil {
		t.Fatalf("second draw failed: %v", err)
	}

	var second ops.DailyOutput
	if err := json.Unmarshal([]byte(out), &second); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if second.Source != ops.SourceStore {
		t.Errorf("expected source=store, got %s", second.Source)
	}
	if second.RecordID != output.RecordID {
		t.Errorf("expected record_id=%s, got %s", output.RecordID, second.RecordID)
	}
}

// TestCLIGet tests the get command.
func TestCLIGet(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	seeded, err := ops.Daily(database, cfg, deck.Default(), ops.DailyInput{
		Identity: "user-42",
		Day:      "2024-03-10",
	})
	if err != nil {
		t.Fatalf("failed to seed draw: %v", err)
	}

	app := newCLIApp(database, cfg, deck.Default())

	out, err := runCLI(t, app, "get", "user-42", "2024-03-10")
	if err != nil {
		t.Fatalf("get command failed: %v", err)
	}

	var output ops.GetOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.RecordID != seeded.RecordID {
		t.Errorf("expected record_id=%s, got %s", seeded.RecordID, output.RecordID)
	}
	if !bytes.Equal(output.Draw, seeded.Draw) {
		t.Error("expected stored payload to match seeded draw")
	}
}

// TestCLIWindow tests the window command.
func TestCLIWindow(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg, deck.Default())

	out, err := runCLI(t, app, "window", "--timezone=UTC")
	if err != nil {
		t.Fatalf("window command failed: %v", err)
	}

	var output ops.WindowOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Timezone != "UTC" {
		t.Errorf("expected timezone=UTC, got %s", output.Timezone)
	}
	if output.Window.Today == "" || output.Window.Yesterday == "" || output.Window.Tomorrow == "" {
		t.Error("expected all three window day keys")
	}
}

// TestCLIHistory tests the history command.
func TestCLIHistory(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	for _, day := range []string{"2024-03-08", "2024-03-09", "2024-03-10"} {
		_, err := ops.Daily(database, cfg, deck.Default(), ops.DailyInput{
			Identity: "user-42",
			Day:      day,
		})
		if err != nil {
			t.Fatalf("failed to seed draw for %s: %v", day, err)
		}
	}

	app := newCLIApp(database, cfg, deck.Default())

	out, err := runCLI(t, app, "history", "user-42")
	if err != nil {
		t.Fatalf("history command failed: %v", err)
	}

	var output ops.HistoryOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if len(output.Entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(output.Entries))
	}
	if output.Pagination.Total != 3 {
		t.Errorf("expected total=3, got %d", output.Pagination.Total)
	}
	if output.Entries[0].Day != "2024-03-10" {
		t.Errorf("expected newest first, got %s", output.Entries[0].Day)
	}
}

// TestCLIDeck tests the deck command.
func TestCLIDeck(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()
	d := deck.Default()

	app := newCLIApp(database, cfg, d)

	t.Run("full catalog", func(t *testing.T) {
		out, err := runCLI(t, app, "deck")
		if err != nil {
			t.Fatalf("deck command failed: %v", err)
		}

		var output struct {
			Name  string      `json:"name"`
			Size  int         `json:"size"`
			Cards []deck.Card `json:"cards"`
		}
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Size != d.Size() {
			t.Errorf("expected size=%d, got %d", d.Size(), output.Size)
		}
		if len(output.Cards) != d.Size() {
			t.Errorf("expected %d cards, got %d", d.Size(), len(output.Cards))
		}
	})

	t.Run("names only", func(t *testing.T) {
		out, err := runCLI(t, app, "deck", "--names-only")
		if err != nil {
			t.Fatalf("deck command failed: %v", err)
		}

		var output struct {
			Cards []string `json:"cards"`
		}
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if len(output.Cards) != d.Size() {
			t.Errorf("expected %d names, got %d", d.Size(), len(output.Cards))
		}
	})
}

// TestCLIExport tests the export command.
func TestCLIExport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	exportDir := t.TempDir()
	cfg := testConfig()
	cfg.AllowedPaths = []string{exportDir}

	for _, day := range []string{"2024-03-09", "2024-03-10"} {
		_, err := ops.Daily(database, cfg, deck.Default(), ops.DailyInput{
			Identity: "user-42",
			Day:      day,
		})
		if err != nil {
			t.Fatalf("failed to seed draw for %s: %v", day, err)
		}
	}

	app := newCLIApp(database, cfg, deck.Default())
	exportPath := filepath.Join(exportDir, "export.jsonl")

	out, err := runCLI(t, app, "export", "--path="+exportPath)
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Count != 2 {
		t.Errorf("expected count=2, got %d", output.Count)
	}
	if output.Path != exportPath {
		t.Errorf("expected path=%s, got %s", exportPath, output.Path)
	}
}

// TestCLIPrune tests the prune command.
func TestCLIPrune(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	// Seed one old draw and one recent draw
	for _, day := range []string{"2000-01-01", "2099-01-01"} {
		_, err := ops.Daily(database, cfg, deck.Default(), ops.DailyInput{
			Identity: "user-42",
			Day:      day,
		})
		if err != nil {
			t.Fatalf("failed to seed draw for %s: %v", day, err)
		}
	}

	app := newCLIApp(database, cfg, deck.Default())

	out, err := runCLI(t, app, "prune", "--days=30")
	if err != nil {
		t.Fatalf("prune command failed: %v", err)
	}

	var output ops.PruneOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Deleted != 1 {
		t.Errorf("expected deleted=1, got %d", output.Deleted)
	}
	if output.CutoffDay == "" {
		t.Error("expected non-empty cutoff_day")
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	app := newCLIApp(database, cfg, deck.Default())

	t.Run("get not found returns error", func(t *testing.T) {
		// cli.Exit writes to stderr, so just verify the error is returned
		_, err := runCLI(t, app, "get", "user-42", "2024-03-10")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("draw without identity returns error", func(t *testing.T) {
		_, err := runCLI(t, app, "draw")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("get with malformed day returns error", func(t *testing.T) {
		_, err := runCLI(t, app, "get", "user-42", "not-a-day")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("prune with zero days returns error", func(t *testing.T) {
		_, err := runCLI(t, app, "prune", "--days=0")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("window with unknown timezone returns error", func(t *testing.T) {
		_, err := runCLI(t, app, "window", "--timezone=Mars/Olympus_Mons")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"arcana"},
			expected: false,
		},
		{
			name:     "draw command",
			args:     []string{"arcana", "draw"},
			expected: true,
		},
		{
			name:     "history command",
			args:     []string{"arcana", "history"},
			expected: true,
		},
		{
			name:     "web command",
			args:     []string{"arcana", "web"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"arcana", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"arcana", "--version"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"arcana", "-h"},
			expected: true,
		},
		{
			name:     "short version flag",
			args:     []string{"arcana", "-v"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"arcana", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isCLIMode()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"arcana"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"arcana", "--help"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"arcana", "-h"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"arcana", "--version"},
			expected: true,
		},
		{
			name:     "short version flag",
			args:     []string{"arcana", "-v"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"arcana", "help"},
			expected: true,
		},
		{
			name:     "draw command is not help",
			args:     []string{"arcana", "draw"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}
