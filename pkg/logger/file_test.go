package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "innings.log")

	closer, err := InitWithFile(path, FileOptions{MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("init with file: %v", err)
	}
	Get().Info(context.Background(), "models loaded", Int("models", 2))
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "models loaded") {
		t.Fatalf("log file missing line: %q", data)
	}

	if _, err := InitWithFile("", FileOptions{}); err == nil {
		t.Fatal("expected error for empty path")
	}
	_ = Init()
}
