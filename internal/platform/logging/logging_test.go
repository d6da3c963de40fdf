package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter(config.Default(), &buf), "ledger")
	logger.Info().Str("drug_id", "d1").Msg("stock increased")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON output: %v (%q)", err, buf.String())
	}
	if line["component"] != "ledger" {
		t.Errorf("expected component field, got %v", line["component"])
	}
	if line["env"] != "development" {
		t.Errorf("expected env field, got %v", line["env"])
	}
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogLevel = "warn"
	logger := NewWithWriter(cfg, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be written")
	}
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogFormat = "console"
	logger := NewWithWriter(cfg, &buf)
	logger.Info().Msg("hello")
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected console formatting, got %q", buf.String())
	}
}
