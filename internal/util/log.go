package util

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	console io.Writer = os.Stdout
	logFile *os.File
	level             = zerolog.InfoLevel
	logger            = build()
)

// SetOutput redirects console output; the log file tee is kept.
func SetOutput(w io.Writer) {
	console = w
	logger = build()
}

// SetVerbose enables Debug messages.
func SetVerbose(v bool) {
	if v {
		level = zerolog.DebugLevel
	} else {
		level = zerolog.InfoLevel
	}
	logger = build()
}

// SetLogFile tees every message, without colors, to path. The file is opened
// for append and never truncated.
func SetLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	CloseLogFile()
	logFile = f
	logger = build()
	return nil
}

// LogFile returns the current tee target, or nil when none is set.
func LogFile() io.Writer {
	if logFile == nil {
		return nil
	}
	return logFile
}

func CloseLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
		logger = build()
	}
}

func build() zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:         console,
		PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: formatLevel(true),
	}
	var w io.Writer = out
	if logFile != nil {
		w = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{
			Out:         logFile,
			NoColor:     true,
			TimeFormat:  time.RFC3339,
			FormatLevel: formatLevel(false),
		})
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// formatLevel renders the [INFO]/[DONE]/[WARN]/[FAIL] prefixes. Success
// messages carry no level and render as [DONE].
func formatLevel(color bool) zerolog.Formatter {
	return func(i interface{}) string {
		label, code := "[DONE]", "32"
		switch i {
		case zerolog.LevelDebugValue:
			label, code = "[DEBUG]", "90"
		case zerolog.LevelInfoValue:
			label, code = "[INFO]", "34"
		case zerolog.LevelWarnValue:
			label, code = "[WARN]", "33"
		case zerolog.LevelErrorValue:
			label, code = "[FAIL]", "31"
		}
		if !color {
			return label
		}
		return "\033[" + code + "m" + label + "\033[0m"
	}
}

func Debug(msg string, args ...interface{}) {
	logger.Debug().Msg(fmt.Sprintf(msg, args...))
}

func Info(msg string, args ...interface{}) {
	logger.Info().Msg(fmt.Sprintf(msg, args...))
}

func Success(msg string, args ...interface{}) {
	logger.Log().Msg(fmt.Sprintf(msg, args...))
}

func Warn(msg string, args ...interface{}) {
	logger.Warn().Msg(fmt.Sprintf(msg, args...))
}

func Fail(msg string, args ...interface{}) {
	logger.Error().Msg(fmt.Sprintf(msg, args...))
}
