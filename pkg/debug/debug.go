// Package debug provides category-based debug logging for docqa.
//
// Two orthogonal controls:
//   - Categories (WHAT to debug): controlled via the DOCQA_DEBUG env var
//   - Levels (HOW MUCH detail): controlled via the DOCQA_LOG_LEVEL env var
//
// Usage:
//
//	debug.Log("embedding", "request", "model", model, "chars", len(text))
//	if debug.Enabled("qdrant") { /* expensive formatting */ }
//
// Categories: embedding, qdrant, completion, extract, auth, transport, all.
// Levels: ERROR, WARN, INFO, DEBUG, TRACE.
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below slog.LevelDebug for maximum verbosity.
// At TRACE, full untruncated upstream request/response bodies are logged.
const LevelTrace = slog.LevelDebug - 4

// categories holds the set of enabled debug categories.
// Access is read-only after Init(), so no synchronization needed.
var categories map[string]bool

func init() {
	// Initialize from environment for immediate availability.
	// Can be re-initialized later via Init().
	categories = parseCategories(os.Getenv("DOCQA_DEBUG"))
}

// Init configures the debug system. Called at startup; the environment
// always wins over the passed-in values.
func Init(configCategories string, configLevel string) {
	cats := os.Getenv("DOCQA_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv("DOCQA_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}
	if level == "" {
		level = "INFO"
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// Enabled reports whether debug output is active for the given category.
// This is a constant-time map lookup with zero allocation.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug message for the given category.
// If the category is not enabled, this is a no-op.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level message for the given category.
// Only visible when DOCQA_LOG_LEVEL=TRACE.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(nil, LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether TRACE level is active for the given category.
func TraceIsEnabled(category string) bool {
	if !Enabled(category) {
		return false
	}
	return slog.Default().Enabled(nil, LevelTrace)
}

// Raw writes plain text to stderr without any slog formatting.
// Use this for copy-paste-ready output (full upstream bodies).
// Only emitted when category is enabled AND level is TRACE.
func Raw(category string, text string) {
	if !TraceIsEnabled(category) {
		return
	}
	fmt.Fprintln(os.Stderr, text)
}

// ParseLevel converts a level string to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the list of enabled categories.
func Categories() []string {
	var result []string
	for k := range categories {
		result = append(result, k)
	}
	return result
}

// Truncate returns s truncated to maxLen characters, with "..." appended
// if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	if s == "" {
		return m
	}
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
