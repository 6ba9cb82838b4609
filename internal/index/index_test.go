package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// helper: create an empty file, making parent directories as needed.
func createFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to create file %s: %v", path, err)
	}
}

func TestSearch(t *testing.T) {
	dir := t.TempDir()
	createFile(t, filepath.Join(dir, "20200218", "pro", "time_calibration.Run01625.0000.h5"))
	createFile(t, filepath.Join(dir, "20200316", "pro", "time_calibration.Run01805.0000.h5"))
	createFile(t, filepath.Join(dir, "20200316", "v0.1", "time_calibration.Run01805.0000.h5"))
	createFile(t, filepath.Join(dir, "20200316", "pro", "README"))

	matches, err := Search(dir, "**/pro/time_calibration.Run*.0000.h5")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(matches), matches)
	}
	// Lexicographic order over the date directories.
	if filepath.Base(filepath.Dir(filepath.Dir(matches[0]))) != "20200218" {
		t.Errorf("matches not sorted: %v", matches)
	}
}

func TestSearchMissingBaseDir(t *testing.T) {
	matches, err := Search(filepath.Join(t.TempDir(), "nope"), "**/*.h5")
	if err != nil {
		t.Fatalf("Search on missing dir: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

func TestUnique(t *testing.T) {
	dir := t.TempDir()
	createFile(t, filepath.Join(dir, "20200218", "pro", "drs4_pedestal.Run00100.0000.h5"))

	got, err := Unique(dir, "20200218/pro/drs4_pedestal*.0000.h5")
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if filepath.Base(got) != "drs4_pedestal.Run00100.0000.h5" {
		t.Errorf("got %s", got)
	}

	if _, err := Unique(dir, "20200219/pro/drs4_pedestal*.0000.h5"); !errors.Is(err, ErrNotFound) {
		t.Errorf("zero matches: want ErrNotFound, got %v", err)
	}

	createFile(t, filepath.Join(dir, "20200218", "pro", "drs4_pedestal.Run00105.0000.h5"))
	_, err = Unique(dir, "20200218/pro/drs4_pedestal*.0000.h5")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("two matches: want AmbiguousError, got %v", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Errorf("candidates = %v, want both matches", ambiguous.Candidates)
	}
}

func TestEntriesSkipsUnparseableNames(t *testing.T) {
	dir := t.TempDir()
	createFile(t, filepath.Join(dir, "20200218", "pro", "time_calibration.Run00100.0000.h5"))
	createFile(t, filepath.Join(dir, "20200218", "pro", "time_calibration.backup.h5"))

	entries, err := Entries(dir, "**/pro/time_calibration*.h5")
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (unparseable skipped): %v", len(entries), entries)
	}
	if entries[0].Run != 100 || entries[0].Version != "pro" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestFloor(t *testing.T) {
	dir := t.TempDir()
	for _, run := range []int{100, 105, 110} {
		createFile(t, filepath.Join(dir, "20200218", "v1",
			fmt.Sprintf("time_calibration.Run%05d.0000.h5", run)))
	}
	pattern := "**/v1/time_calibration.Run*.0000.h5"

	tests := []struct {
		target  int
		wantRun int
		wantErr bool
	}{
		{target: 107, wantRun: 105}, // floor, not nearest
		{target: 100, wantRun: 100}, // <= is inclusive
		{target: 110, wantRun: 110},
		{target: 500, wantRun: 110},
		{target: 99, wantErr: true}, // smaller than every artifact
	}

	for _, tt := range tests {
		entry, err := Floor(dir, pattern, tt.target)
		if tt.wantErr {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Floor(%d): want ErrNotFound, got %v", tt.target, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Floor(%d): %v", tt.target, err)
			continue
		}
		if entry.Run != tt.wantRun {
			t.Errorf("Floor(%d) = run %d, want %d", tt.target, entry.Run, tt.wantRun)
		}
	}
}

// Floor must compare parsed run numbers, not filename strings: a
// six-digit run sorts before a five-digit one lexicographically.
func TestFloorNumericOrder(t *testing.T) {
	dir := t.TempDir()
	createFile(t, filepath.Join(dir, "20200218", "v1", "time_calibration.Run99999.0000.h5"))
	createFile(t, filepath.Join(dir, "20230101", "v1", "time_calibration.Run100050.0000.h5"))

	entry, err := Floor(dir, "**/v1/time_calibration.Run*.0000.h5", 100100)
	if err != nil {
		t.Fatalf("Floor: %v", err)
	}
	if entry.Run != 100050 {
		t.Errorf("got run %d, want 100050", entry.Run)
	}
}

// A literal pattern segment must traverse a symlinked directory: the pro
// pointer is exactly that, and lookups through it have to work.
func TestSearchThroughSymlinkSegment(t *testing.T) {
	dir := t.TempDir()
	createFile(t, filepath.Join(dir, "20200218", "v1", "drs4_pedestal.Run00100.0000.h5"))
	if err := os.Symlink(filepath.Join(dir, "20200218", "v1"), filepath.Join(dir, "20200218", "pro")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	matches, err := Search(dir, "**/pro/drs4_pedestal*.0000.h5")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %v", len(matches), matches)
	}

	// The sibling v1 directory still matches only its own pattern.
	matches, err = Search(dir, "**/v1/drs4_pedestal*.0000.h5")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches through v1, want 1: %v", len(matches), matches)
	}
}
