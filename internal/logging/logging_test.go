package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warning"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel("whatever"))
}

func TestLogInspection_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json")

	result := &entity.InspectionResult{
		TemplateID:    "part",
		Passed:        false,
		MatchStrategy: entity.StrategyCoordinate,
		Summary:       entity.Summary{TotalFeatures: 3, Passed: 2, Missing: 1},
		Warnings:      []string{"capped"},
	}
	LogInspection(logger, "rec-1", result, 12*time.Millisecond)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "WARN", entry["level"])
	require.Equal(t, "inspection completed", entry["msg"])
	require.Equal(t, "part", entry["template_id"])
	require.Equal(t, "COORDINATE", entry["strategy"])
	require.EqualValues(t, 1, entry["missing"])
	require.EqualValues(t, 12, entry["duration_ms"])
}

func TestLogInspectionError_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	LogInspectionError(NewWithWriter(&buf, "error", "text"), "part", errors.New("boom"))
	require.Contains(t, buf.String(), "error=boom")

	buf.Reset()
	NewWithWriter(&buf, "error", "text").Info("hidden")
	require.Empty(t, buf.String())
}
