package logger

import (
	"github.com/fatih/color" // Colored console output for each log level
)

// Colorized printf-style functions for the CLI's log levels.
// Each one behaves like fmt.Printf; callers include the level prefix
// (e.g. "[INFO] ") and the trailing newline themselves.

// Info logs progress messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs recoverable problems in bright magenta, such as a stale prepare
// snapshot or a copy source that has not been built yet.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs the fatal error that ends a command, in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs verbose diagnostics in cyan once enabled through Init.
// Until then it is a no-op, so packages can call it from tests without setup.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug output.
// The root command calls it from its PersistentPreRun hook with the value of --debug.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
