package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type levelStyle struct {
	level log.Level
	key   string
	icon  string
	color lipgloss.AdaptiveColor
}

var levelStyles = []levelStyle{
	{log.ErrorLevel, "error", "❌", lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}},
	{log.WarnLevel, "warn", "⚠️", lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}},
	{log.InfoLevel, "info", "ℹ️", lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}},
	{log.DebugLevel, "debug", "🐛", lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}},
}

var formatters = map[string]log.Formatter{
	"json": log.JSONFormatter,
	"text": log.TextFormatter,
}

// SetupLogger builds the process logger and installs it as slog's default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text", TimeFormat: "2006-01-02 15:04:05"}
	}

	formatter := log.TextFormatter
	if f, ok := formatters[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles())

	return slog.New(logger)
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	accent := levelStyles[len(levelStyles)-1].color
	for _, ls := range levelStyles {
		s.Levels[ls.level] = lipgloss.NewStyle().
			SetString(ls.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(ls.color)
		s.Keys[ls.key] = lipgloss.NewStyle().Foreground(ls.color)
		s.Values[ls.key] = lipgloss.NewStyle().Bold(true)
	}
	for _, key := range []string{"prefix", "caller", "time", "component", "request_id"} {
		s.Keys[key] = lipgloss.NewStyle().Foreground(accent)
		s.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	return s
}
