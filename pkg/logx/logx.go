// Package logx provides leveled logging for the whole application.
//
// It is a thin facade over zerolog so call sites stay decoupled from the
// underlying library.
package logx

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents a logging level
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// SetLevel sets the minimum level that will be emitted
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	switch l {
	case LevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	}
}

// SetOutput replaces the logger sink (used by tests)
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Output(w)
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string) { l := get(); l.Debug().Msg(msg) }

func Debugf(format string, args ...any) { l := get(); l.Debug().Msg(fmt.Sprintf(format, args...)) }

func Info(msg string) { l := get(); l.Info().Msg(msg) }

func Infof(format string, args ...any) { l := get(); l.Info().Msg(fmt.Sprintf(format, args...)) }

func Warn(msg string) { l := get(); l.Warn().Msg(msg) }

func Warnf(format string, args ...any) { l := get(); l.Warn().Msg(fmt.Sprintf(format, args...)) }

func Error(msg string) { l := get(); l.Error().Msg(msg) }

func Errorf(format string, args ...any) { l := get(); l.Error().Msg(fmt.Sprintf(format, args...)) }

// Fatal logs the message and exits the process
func Fatal(msg string) { l := get(); l.Fatal().Msg(msg) }

func Fatalf(format string, args ...any) { l := get(); l.Fatal().Msg(fmt.Sprintf(format, args...)) }
