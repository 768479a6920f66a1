package logging

import "io"

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New returns a Logger for the given format. Unknown formats use slog JSON.
func New(format string, w io.Writer, level string) Logger {
	switch format {
	case FormatText:
		return NewTextLogger(w, level)
	case FormatZap:
		return NewZapJSONLogger(w, level)
	default:
		return NewJSONLogger(w, level)
	}
}
