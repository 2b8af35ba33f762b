package logx

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// NewConsoleLogger создаёт цветной консольный логгер. Неизвестный уровень даёт info.
func NewConsoleLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.DateTime,
	}))
}
