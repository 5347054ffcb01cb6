// Package nlog is a thin leveled-logging facade over zerolog, shaped after
// the teacher's cmn/nlog call sites (Infof/Infoln/Warningln/Errorln, plus a
// per-module "fast verbosity" gate) so the rest of the tree never imports
// zerolog directly.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
	verbose = map[string]int{}
)

// Format selects the wire format of the underlying writer.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Configure rebuilds the package logger. Called once at startup from
// cmn/config after a Config is loaded; safe to call again in tests.
func Configure(level string, format Format, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	var w io.Writer = out
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(lvl)

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetVerbose sets the "fast verbosity" threshold for module, mirroring the
// teacher's config.FastV(level, module) gate used to avoid formatting
// diagnostic strings on the selector's hot path unless asked for.
func SetVerbose(module string, level int) {
	mu.Lock()
	verbose[module] = level
	mu.Unlock()
}

// V reports whether module is verbose-enabled at least to level.
func V(level int, module string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose[module] >= level
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Infof(format string, args ...any)    { get().Info().Msgf(format, args...) }
func Infoln(args ...any)                  { get().Info().Msg(sprint(args)) }
func Warningf(format string, args ...any) { get().Warn().Msgf(format, args...) }
func Warningln(args ...any)               { get().Warn().Msg(sprint(args)) }
func Errorf(format string, args ...any)   { get().Error().Msgf(format, args...) }
func Errorln(args ...any)                 { get().Error().Msg(sprint(args)) }
func Debugf(format string, args ...any)   { get().Debug().Msgf(format, args...) }
func Debugln(args ...any)                 { get().Debug().Msg(sprint(args)) }

func sprint(args []any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += toString(a)
	}
	return s
}

func toString(a any) string {
	if s, ok := a.(string); ok {
		return s
	}
	if e, ok := a.(error); ok {
		return e.Error()
	}
	if st, ok := a.(interface{ String() string }); ok {
		return st.String()
	}
	return fmt.Sprintf("%v", a)
}
