package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/wordgarden/internal/testutil"
)

func TestArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	dbPath := filepath.Join(tmpDir, "speech.db")
	testutil.CreateTestFile(t, dbPath, []byte("cache"))
	testutil.CreateTestFile(t, dbPath+"-wal", []byte("wal"))

	archived, err := ArchiveFile(dbPath)
	if err != nil {
		t.Fatalf("ArchiveFile failed: %v", err)
	}

	testutil.AssertFileNotExists(t, dbPath)
	testutil.AssertFileNotExists(t, dbPath+"-wal")

	if filepath.Dir(archived) != filepath.Join(tmpDir, "archive") {
		t.Errorf("Archived into unexpected directory: %s", archived)
	}

	name := filepath.Base(archived)
	if !strings.HasPrefix(name, "speech-") || !strings.HasSuffix(name, ".db") {
		t.Errorf("Unexpected archive name: %s", name)
	}

	testutil.AssertFileContent(t, archived, []byte("cache"))
	testutil.AssertFileContains(t, archived+"-wal", "wal")
}

func TestArchiveFile_NonExistent(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ArchiveFile(filepath.Join(tmpDir, "missing.db"))
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestArchiveFile_SameSecond(t *testing.T) {
	fixed := time.Date(2025, 7, 1, 10, 30, 0, 123456000, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "speech.db")

	var paths []string
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(dbPath, []byte("cache"), 0644); err != nil {
			t.Fatalf("Failed to create cache file: %v", err)
		}
		archived, err := ArchiveFile(dbPath)
		if err != nil {
			t.Fatalf("ArchiveFile failed: %v", err)
		}
		paths = append(paths, filepath.Base(archived))
	}

	if paths[0] != "speech-20250701-103000.db" {
		t.Errorf("First archive = %s", paths[0])
	}
	if paths[1] != "speech-20250701-103000.123456.db" {
		t.Errorf("Second archive = %s", paths[1])
	}
}
