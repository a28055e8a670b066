package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(newStdoutHandler(os.Stdout)))
}

// Attach adds extra handlers next to stdout, e.g. a DBHandler once the
// Postgres backend is bound.
func Attach(handlers ...slog.Handler) {
	all := append([]slog.Handler{newStdoutHandler(os.Stdout)}, handlers...)
	slog.SetDefault(slog.New(NewMultiHandler(all...)))
}

func newStdoutHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
