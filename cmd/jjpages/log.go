package main

import (
	"io"
	"log/slog"
	"os"
	"strconv"
)

// newLog logs text to w without timestamps. The level is debug when
// verbose or when JJPAGES_DEBUG is set.
func newLog(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := strconv.ParseBool(os.Getenv("JJPAGES_DEBUG")); verbose || v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
