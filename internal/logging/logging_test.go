package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := New(tt.level, "text", &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New("info", "json", &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("hello", "key", "val")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("Expected JSON output, got %s", buf.String())
	}

	if _, err := New("info", "xml", &buf); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", "text", &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected debug output suppressed, got %s", buf.String())
	}
}
