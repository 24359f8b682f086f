// Copyright 2024 The enotescan Authors
// This file is part of the enotescan library.
//
// The enotescan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The enotescan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the enotescan library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides a leveled, structured logger built on top of
// log/slog. It mirrors the shape of go-ethereum's log package: a small
// Logger interface, level-specific convenience methods taking alternating
// key/value pairs, and a couple of handlers (plain terminal, JSON) suitable
// for wiring into the scan machine and enote store.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level mirrors slog.Level with names matching the scanning-engine's own
// vocabulary (Trace is used heavily by the chunk processor for per-enote
// rejects).
type Level = slog.Level

const (
	LevelTrace Level = slog.Level(-8)
	LevelDebug Level = slog.LevelDebug
	LevelInfo  Level = slog.LevelInfo
	LevelWarn  Level = slog.LevelWarn
	LevelError Level = slog.LevelError
	LevelCrit  Level = slog.Level(12)
)

// Logger is the interface every component in this module logs through.
type Logger interface {
	With(ctx ...any) Logger
	New(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// New creates a Logger seeded with the given alternating key/value context.
func New(ctx ...any) Logger {
	return &logger{inner: slog.New(DefaultHandler()).With(ctx...)}
}

// NewLogger wraps an arbitrary slog.Handler.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) With(ctx ...any) Logger { return &logger{inner: l.inner.With(ctx...)} }
func (l *logger) New(ctx ...any) Logger  { return l.With(ctx...) }

func (l *logger) write(level Level, msg string, ctx ...any) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.write(LevelCrit, msg, ctx...) }

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

// DefaultHandler returns an Info-level terminal handler writing to stderr,
// wrapped in a go-colorable writer when stderr is a tty. The terminal
// handler writes plain text either way; it emits no ANSI color codes.
func DefaultHandler() slog.Handler {
	out := io.Writer(os.Stderr)
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	if useColor {
		out = colorable.NewColorable(os.Stderr)
	}
	return NewTerminalHandlerWithLevel(out, LevelInfo, useColor)
}

// NewTerminalHandlerWithLevel builds a human-readable handler at the given
// minimum level.
func NewTerminalHandlerWithLevel(w io.Writer, level Level, useColor bool) slog.Handler {
	return &terminalHandler{w: w, level: level, useColor: useColor}
}

// JSONHandler returns a machine-readable handler, used when the engine runs
// headless under a supervising process.
func JSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: LevelTrace})
}

type terminalHandler struct {
	w        io.Writer
	level    Level
	useColor bool
	attrs    []slog.Attr
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := formatRecord(ts, r.Level, r.Message, h.attrs, r)
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler { return h }

// CallerFrame captures the caller skip frames up the stack (runtime frames
// trimmed) for diagnostic logging, or the zero Call if the stack is not
// that deep. No package in this module calls it.
func CallerFrame(skip int) stack.Call {
	trace := stack.Trace().TrimRuntime()
	if len(trace) <= skip {
		return 0
	}
	return trace[skip]
}
