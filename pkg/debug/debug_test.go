package debug_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/walteh/vuetmpls/pkg/debug"
)

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		pkg      string
		function string
	}{
		{name: "method", input: "github.com/walteh/vuetmpls/pkg/parser.(*state).openTag", pkg: "github.com/walteh/vuetmpls/pkg/parser", function: "(*state).openTag"},
		{name: "function", input: "github.com/walteh/vuetmpls/pkg/grammar.ParseFor", pkg: "github.com/walteh/vuetmpls/pkg/grammar", function: "ParseFor"},
		{name: "main", input: "main.main", pkg: "main", function: "main"},
		{name: "no dot", input: "weird", pkg: "weird", function: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, function := debug.SplitFuncName(tt.input)
			assert.Equal(t, tt.pkg, pkg)
			assert.Equal(t, tt.function, function)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "github.com/walteh/vuetmpls/pkg/parser:parser.go:42", debug.FormatCaller("github.com/walteh/vuetmpls/pkg/parser", "/src/pkg/parser/parser.go", 42, false))
	assert.Equal(t, "main:main.go:1", debug.FormatCaller("main", "main.go", 1, false))
}

func TestHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(debug.TimeHook{Format: "2006"}).Hook(debug.CallerHook{})

	logger.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"caller":"`)
	assert.Contains(t, out, `"time":"`)
	assert.Contains(t, out, `"message":"hello"`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := debug.NewLogger(&buf, debug.LoggerOptions{Level: zerolog.InfoLevel, RunID: "abc"})

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "a.vue").Msg("parsed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "parsed")
	assert.Contains(t, out, "run=abc")
	assert.Contains(t, out, "file=a.vue")
}
