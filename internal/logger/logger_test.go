package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesLogDirectory(t *testing.T) {
	tempDir := t.TempDir()

	if err := Init(Config{Debug: false, ConfigDir: tempDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if Logger == nil {
		t.Fatal("expected Logger to be set after Init")
	}

	info, err := os.Stat(filepath.Join(tempDir, "logs"))
	if err != nil {
		t.Fatalf("expected logs directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected logs to be a directory")
	}
}

func TestLogHelpersNilSafe(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()
	Logger = nil

	// None of these should panic with a nil logger.
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}
