// Package debug builds the console logger used by the command line tools.
package debug

import (
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type LoggerOptions struct {
	Level zerolog.Level
	Color bool
	// Caller adds the calling package, file and line to every event.
	Caller bool
	// RunID tags every event of one invocation.
	RunID string
}

// NewLogger returns a console logger writing to w.
func NewLogger(w io.Writer, opts LoggerOptions) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: !opts.Color, TimeFormat: time.TimeOnly}

	lctx := zerolog.New(out).Level(opts.Level).With()
	if opts.RunID != "" {
		lctx = lctx.Str("run", opts.RunID)
	}

	logger := lctx.Logger().Hook(TimeHook{})
	if opts.Caller {
		logger = logger.Hook(CallerHook{WithColor: opts.Color})
	}
	return logger
}

// skipFrames reads the event's unexported caller skip so the hook reports the
// same frame zerolog's own Caller() would.
func skipFrames(e *zerolog.Event) int {
	field := reflect.ValueOf(e).Elem().FieldByName("skipFrame")
	if field.IsValid() && field.CanAddr() {
		return int(field.Int())
	}
	return 0
}

type TimeHook struct {
	// Format defaults to millisecond precision without a zone.
	Format string
}

func (h TimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := h.Format
	if format == "" {
		format = "2006-01-02T15:04:05.0000Z"
	}
	e.Str(zerolog.TimestampFieldName, time.Now().Format(format))
}

type CallerHook struct {
	WithColor bool
}

func (h CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(skipFrames(e) + 3)
	if !ok {
		return
	}

	pkg, _ := SplitFuncName(runtime.FuncForPC(pc).Name())

	e.Str(zerolog.CallerFieldName, FormatCaller(pkg, file, line, h.WithColor))
}

// SplitFuncName splits a runtime function name into its package path and the
// function, keeping the receiver with the function.
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(name[lastSlash:], '.') + lastSlash
	if firstDot < lastSlash {
		return name, ""
	}

	pkg = name[:firstDot]
	function = name[firstDot+1:]

	if strings.Contains(pkg, ".(") {
		parts := strings.SplitN(pkg, ".(", 2)
		pkg = parts[0]
		function = "(" + parts[1] + "." + function
	}

	return pkg, function
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		file = path[i+1:]
	}

	if colorize {
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, color.New(color.Bold).Sprint(file), sep, color.New(color.FgHiRed, color.Bold).Sprintf("%d", line))
	}

	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}
