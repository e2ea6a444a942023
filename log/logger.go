// Package log provides the process-wide logger used by every n3map
// subsystem. A single *logrus.Logger is configured once from CLI flags
// and handed out either directly (Log()) or pre-fixed per subsystem
// (WithPrefix), so a walker run reads as one coherent, colorized stream
// instead of interleaved ad-hoc fmt.Printf calls.
package log

//go:generate go run github.com/abice/go-enum -f=$GOFILE --marshal --names

import (
	"io"

	colorable "github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Level log level ENUM(
// info
// debug
// warn
// error
// fatal
// )
type Level int

// ColorMode controls ANSI color output ENUM(
// auto // color iff stdout is a terminal
// always
// never
// )
type ColorMode int

type Config struct {
	Level     Level     `default:"info"`
	Color     ColorMode `default:"auto"`
	Timestamp bool      `default:"true"`
}

// nolint:gochecknoglobals
var logger *logrus.Logger

// nolint:gochecknoinits
func init() {
	logger = logrus.New()
	ConfigureLogger(Config{Level: LevelInfo, Color: ColorModeAuto, Timestamp: true})
}

// Log returns the global logger.
func Log() *logrus.Logger {
	return logger
}

// WithPrefix returns the global logger scoped to a subsystem prefix, e.g.
// "nsecwalker", "queryprovider", "prehash".
func WithPrefix(prefix string) *logrus.Entry {
	return logger.WithField("prefix", prefix)
}

// ConfigureLogger applies configuration to the global logger. Called once at
// startup from the parsed CLI flags.
func ConfigureLogger(lc Config) {
	if level, err := logrus.ParseLevel(lc.Level.String()); err != nil {
		logger.Fatalf("invalid log level %s: %v", lc.Level, err)
	} else {
		logger.SetLevel(level)
	}

	formatter := &prefixed.TextFormatter{
		TimestampFormat:  "2006-01-02 15:04:05",
		FullTimestamp:    true,
		ForceFormatting:  true,
		QuoteEmptyFields: true,
		DisableTimestamp: !lc.Timestamp,
	}

	switch lc.Color {
	case ColorModeAlways:
		formatter.ForceColors = true
		logger.SetOutput(colorable.NewColorableStdout())
	case ColorModeNever:
		formatter.DisableColors = true
	case ColorModeAuto:
		// prefixed-formatter autodetects the terminal on the configured output.
	}

	formatter.SetColorScheme(&prefixed.ColorScheme{
		PrefixStyle:    "blue+b",
		TimestampStyle: "white+h",
	})

	logger.SetFormatter(formatter)
}

// Silence disables logger output entirely. Used for -q/--quiet.
func Silence() {
	logger.SetOutput(io.Discard)
}

// Verbose switches the global logger to debug level. Used for -v/--verbose.
func Verbose() {
	logger.SetLevel(logrus.DebugLevel)
}
