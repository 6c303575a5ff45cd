package local_fs

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLocalFS_SendFile(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{
		SavePath: tempDir,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	filename := "2026/08/journal-backup.zip"
	content := "hello world"
	modTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	savedPath, err := client.SendFile(filename, strings.NewReader(content), "application/zip", modTime)
	if err != nil {
		t.Fatalf("SendFile failed: %v", err)
	}

	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(savedContent) != content {
		t.Errorf("Content mismatch: expected %s, got %s", content, string(savedContent))
	}

	fileInfo, err := os.Stat(savedPath)
	if err != nil {
		t.Fatalf("Failed to stat saved file: %v", err)
	}
	if !fileInfo.ModTime().Equal(modTime) {
		t.Errorf("ModTime mismatch: expected %v, got %v", modTime, fileInfo.ModTime())
	}
}

func TestLocalFS_SendContentAndDelete(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{
		SavePath: tempDir,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	savedPath, err := client.SendContent("exports/2026-08-25.md", []byte("# diary"), time.Time{})
	if err != nil {
		t.Fatalf("SendContent failed: %v", err)
	}
	if _, err := os.Stat(savedPath); err != nil {
		t.Fatalf("Saved file missing: %v", err)
	}

	if err := client.Delete("exports/2026-08-25.md"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(savedPath); !os.IsNotExist(err) {
		t.Fatal("File still exists after Delete")
	}

	// Deleting a missing key is a no-op
	if err := client.Delete("exports/missing.md"); err != nil {
		t.Fatalf("Delete of missing key returned error: %v", err)
	}
}
