package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kalambet/solaces/internal/docs"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

// deviceState renders LOCKED/UNLOCKED for doors and ON/OFF for everything else.
func deviceState(d docs.Device) string {
	text := d.StatusText()
	if d.IsOn {
		return colorize(colorGreen, text)
	}
	return colorize(colorDim, text)
}

func logStatusColor(s docs.LogStatus) string {
	if s == docs.StatusSuccess {
		return colorize(colorGreen, string(s))
	}
	return colorize(colorRed, string(s))
}

func systemStatusColor(s docs.SystemStatus) string {
	switch s {
	case docs.SystemOK:
		return colorize(colorGreen, s.Label())
	case docs.SystemWatch:
		return colorize(colorYellow, s.Label())
	case docs.SystemIssue:
		return colorize(colorRed, s.Label())
	default:
		return colorize(colorDim, s.Label())
	}
}

// ago formats t relative to now, e.g. "3 minutes ago".
func ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
