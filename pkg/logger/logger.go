// Package logger 建立以 charmbracelet/log 為 handler 的 slog.Logger
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Config log 設定
type Config struct {
	Level      string `yaml:"level"`       // debug | info | warn | error
	Format     string `yaml:"format"`      // text | json | logfmt
	Prefix     string `yaml:"prefix"`      // 每行前綴
	TimeFormat string `yaml:"time_format"` // 時間格式，預設 time.DateTime
}

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// New 建立 logger 並設為 slog 預設 logger
func New(cfg Config) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter 與 New 相同，但輸出至指定 writer
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	formatter := log.TextFormatter
	if f, ok := formatters[strings.ToLower(cfg.Format)]; ok {
		formatter = f
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           parseLevel(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})

	handler.SetStyles(levelStyles())

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// levelStyles 依等級上色；非 TTY 輸出時 lipgloss 不會輸出色碼
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	levels := map[log.Level]lipgloss.AdaptiveColor{
		log.DebugLevel: {Light: "#7E57C2", Dark: "#7E57C2"},
		log.InfoLevel:  {Light: "#04B575", Dark: "#04B575"},
		log.WarnLevel:  {Light: "#EE6FF8", Dark: "#EE6FF8"},
		log.ErrorLevel: {Light: "#FF6B6B", Dark: "#FF6B6B"},
	}
	for lvl, c := range levels {
		styles.Levels[lvl] = styles.Levels[lvl].Foreground(c).Bold(true)
	}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(levels[log.ErrorLevel])
	return styles
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
