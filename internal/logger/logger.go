// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the sync engine.
//
// Every entry carries a "role" (server or command line), a timestamp and a
// "func" caller field with the function name. Request and sync scoped
// loggers travel in the context; use FromContext to get them back.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFileName is the name of the command line log file.
const LogFileName = "repo-sync.log"

type Logger struct {
	zerolog.Logger
}

// New builds a JSON logger writing to w.
func New(w io.Writer, role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}

	return &Logger{zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()}
}

// NewLogger logs to stderr, leaving stdout to command output.
func NewLogger(role string) *Logger {
	return New(os.Stderr, role)
}

// NewClientLogger appends to LogFileName under the user cache directory so
// that one-shot commands keep a history of their syncs. It falls back to
// stderr when the file cannot be opened.
func NewClientLogger(role string) *Logger {
	f, err := openLogFile()
	if err != nil {
		l := NewLogger(role)
		l.Warn().Err(err).Msg("log file unavailable, logging to stderr")
		return l
	}
	return New(f, role)
}

func openLogFile() (*os.File, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "go-repo-sync")
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, LogFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy of l that can take extra fields without
// touching l.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// ForRepo returns a child logger tagged with the repository id and address.
func (l *Logger) ForRepo(repoID int64, address string) *Logger {
	return &Logger{l.With().Int64("repo_id", repoID).Str("address", address).Logger()}
}

// WithRepo stores a repository tagged logger in ctx. The logger already in
// ctx is used as the parent; fallback is used when ctx has none.
func WithRepo(ctx context.Context, fallback *Logger, repoID int64, address string) context.Context {
	parent := FromContext(ctx)
	if parent.GetLevel() == zerolog.Disabled {
		parent = fallback
	}
	return parent.ForRepo(repoID, address).WithContext(ctx)
}

func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext never returns nil: without a stored logger zerolog hands out
// its disabled default logger.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
