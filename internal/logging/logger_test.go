package logging_test

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"talkline/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"  WARN  ", slog.LevelWarn},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := logging.ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSONWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "talkline.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("converted document", "source_id", "doc-1", "segments", 3)
	logger.Debug("suppressed")

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []map[string]any
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v", err)
		}
		lines = append(lines, entry)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1 (debug suppressed)", len(lines))
	}
	if lines[0]["msg"] != "converted document" {
		t.Errorf("msg = %v", lines[0]["msg"])
	}
	if lines[0]["source_id"] != "doc-1" {
		t.Errorf("source_id = %v", lines[0]["source_id"])
	}
	if lines[0]["level"] != "info" {
		t.Errorf("level = %v", lines[0]["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWithComponentNilLogger(t *testing.T) {
	logger := logging.WithComponent(nil, "test")
	if logger == nil {
		t.Fatal("WithComponent(nil) returned nil")
	}
	// Must not panic.
	logger.Info("discarded")
}
