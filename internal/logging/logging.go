package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"feature-inspector/internal/domain/entity"
)

// New returns a slog.Logger with the provided level string (info, debug, warn, error).
// format may be "json" or "text".
func New(level string, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter same as New but writes to w.
func NewWithWriter(w io.Writer, level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard logger for tests and library defaults.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogInspection logs the outcome of one inspection.
func LogInspection(logger *slog.Logger, recordID string, result *entity.InspectionResult, duration time.Duration) {
	level := slog.LevelInfo
	if !result.Passed {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "inspection completed",
		"id", recordID,
		"template_id", result.TemplateID,
		"strategy", string(result.MatchStrategy),
		"passed", result.Passed,
		"total", result.Summary.TotalFeatures,
		"passed_count", result.Summary.Passed,
		"deviation", result.Summary.Deviation,
		"missing", result.Summary.Missing,
		"extra", result.Summary.Extra,
		"duration_ms", duration.Milliseconds(),
	)
	for _, w := range result.Warnings {
		logger.Warn("inspection warning", "id", recordID, "warning", w)
	}
}

// LogInspectionError logs an inspection that could not run.
func LogInspectionError(logger *slog.Logger, templateID string, err error) {
	logger.Error("inspection failed",
		"template_id", templateID,
		"error", err.Error(),
	)
}
