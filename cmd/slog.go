package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// init installs the default logger before any command runs. Debug level logs
// colored text with trimmed source paths; everything else logs JSON to stderr.
func init() {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			panic(fmt.Sprintf("invalid log level: %s", raw))
		}
	}

	if level == slog.LevelDebug {
		slog.SetDefault(newDebugLogger(os.Stdout, sourcePrefix()))
		slog.Debug("debug logging enabled")
		return
	}
	slog.SetDefault(newJSONLogger(os.Stderr, level))
}

func newDebugLogger(w io.Writer, prefix string) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
		AddSource:  true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if source, ok := a.Value.Any().(*slog.Source); ok && a.Key == slog.SourceKey {
				source.File = trimSource(source.File, prefix)
			}
			if err, ok := a.Value.Any().(error); ok {
				colored := tint.Err(err)
				colored.Key = a.Key
				return colored
			}
			return a
		},
	}))
}

func newJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// sourcePrefix is "/<last module path element>/", e.g. "/podstore/".
func sourcePrefix() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Path == "" {
		return "/podstore/"
	}
	path := info.Main.Path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return "/" + path + "/"
}

// trimSource keeps the module-relative part of an absolute source path.
func trimSource(file, prefix string) string {
	if _, rel, ok := strings.Cut(file, prefix); ok {
		return rel
	}
	if i := strings.LastIndex(file, "/src/"); i != -1 {
		return file[i+len("/src/"):]
	}
	return file
}
