package output

import (
	"fmt"
	"io"
)

// Notice prefixes for operator-facing messages.
const (
	prefixInfo    = "ℹ️  "
	prefixWarn    = "⚠️  "
	prefixSuccess = "✅ "
)

// Infof writes an informational line to w.
func Infof(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, prefixInfo+fmt.Sprintf(format, args...))
}

// Warnf writes a warning line to w.
func Warnf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, prefixWarn+fmt.Sprintf(format, args...))
}

// Successf writes a success line to w.
func Successf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, prefixSuccess+fmt.Sprintf(format, args...))
}
