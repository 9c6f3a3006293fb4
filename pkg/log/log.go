package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger, set once by Init at startup and read
// by every helper below. pkg/pipeline doesn't use it directly; each
// pipeline.Worker takes a zerolog.Logger through its Logger field instead,
// built from WithSortingCenter. pkg/troublereporter does no logging.
var Logger zerolog.Logger

// Level names accepted by --log-level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

var zerologLevels = map[Level]zerolog.Level{
	DebugLevel: zerolog.DebugLevel,
	InfoLevel:  zerolog.InfoLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
}

// Config selects Init's output shape.
type Config struct {
	Level Level
	// JSONOutput writes one JSON object per line; otherwise a
	// human-readable console line with a timestamp prefix.
	JSONOutput bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// RunID, when set, is attached to every line as run_id. cmd/parceltrack
	// run and sorting-center invocations that share a terminal or log
	// aggregator use it to tell concurrent runs apart.
	RunID string
}

// Init builds Logger from cfg. Unrecognized or empty Level falls back to
// InfoLevel rather than erroring, since a typo in --log-level shouldn't
// stop the binary from starting.
func Init(cfg Config) {
	level, ok := zerologLevels[cfg.Level]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var base zerolog.Logger
	if cfg.JSONOutput {
		base = zerolog.New(output).With().Timestamp().Logger()
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	if cfg.RunID != "" {
		base = base.With().Str("run_id", cfg.RunID).Logger()
	}
	Logger = base
}

// WithComponent tags a child logger with a component name, for one-off
// subsystems that don't warrant their own With* helper.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithSortingCenter tags a child logger with a sorting center code; every
// pipeline.Worker logs through one of these.
func WithSortingCenter(code string) zerolog.Logger {
	return Logger.With().Str("sorting_center", code).Logger()
}

// WithPackageID tags a child logger with a package id, for the
// single-package extract debug path.
func WithPackageID(packageID string) zerolog.Logger {
	return Logger.With().Str("package_id", packageID).Logger()
}

func Info(msg string) {
	Logger.Info().Msg(msg)
}

func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

func Error(msg string) {
	Logger.Error().Msg(msg)
}

func Errorf(format string, err error) {
	Logger.Error().Err(err).Msgf(format, err)
}

func Fatal(msg string) {
	Logger.Fatal().Msg(msg)
}
