// Package display provides user-friendly formatting for CLI output.
package display

import (
	"fmt"
	"os"
	"sync"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
)

var (
	colorEnabled     = true
	colorInitialized = false
	colorMu          sync.Mutex
)

// InitColors initializes the color system based on flags and environment.
// Should be called once during startup with the --no-color flag value.
func InitColors(noColor bool) {
	colorMu.Lock()
	defer colorMu.Unlock()

	initColorsLocked(noColor)
}

func initColorsLocked(noColor bool) {
	colorInitialized = true
	colorEnabled = !noColor

	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		colorEnabled = false
	}
}

// ColorsEnabled returns whether colors are currently enabled.
func ColorsEnabled() bool {
	colorMu.Lock()
	defer colorMu.Unlock()

	if !colorInitialized {
		initColorsLocked(false)
	}

	return colorEnabled
}

// SetColorsEnabled allows manual control of color output (useful for testing).
func SetColorsEnabled(enabled bool) {
	colorMu.Lock()
	defer colorMu.Unlock()

	colorEnabled = enabled
	colorInitialized = true
}

func colorize(text, color string) string {
	if !ColorsEnabled() {
		return text
	}

	return color + text + reset
}

// Success formats text as successful (green).
func Success(text string) string {
	return colorize(text, green)
}

// Error formats text as an error (red).
func Error(text string) string {
	return colorize(text, red)
}

// Warning formats text as a warning (yellow).
func Warning(text string) string {
	return colorize(text, yellow)
}

// Info formats text as informational (blue).
func Info(text string) string {
	return colorize(text, blue)
}

// Muted formats text as muted/secondary (gray).
func Muted(text string) string {
	return colorize(text, gray)
}

// Bold formats text as bold.
func Bold(text string) string {
	return colorize(text, bold)
}

// Cyan formats text in cyan (used for commands and tags).
func Cyan(text string) string {
	return colorize(text, cyan)
}

// SuccessMsg formats a success message with a checkmark.
func SuccessMsg(format string, args ...any) string {
	return Success("✓") + " " + fmt.Sprintf(format, args...)
}

// ErrorMsg formats an error message with a cross.
func ErrorMsg(format string, args ...any) string {
	return Error("✗") + " " + Error(fmt.Sprintf(format, args...))
}

// WarningMsg formats a warning message.
func WarningMsg(format string, args ...any) string {
	return Warning("⚠") + " " + Warning(fmt.Sprintf(format, args...))
}

// InfoMsg formats an info message with an arrow.
func InfoMsg(format string, args ...any) string {
	return Info("→") + " " + fmt.Sprintf(format, args...)
}
