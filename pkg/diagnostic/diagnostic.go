package diagnostic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/vuetmpls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Reporter receives template diagnostics. Reporting never aborts parsing.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// Diagnostics groups diagnostic messages by severity
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Message string
	// Tag of the element the message is about, if any.
	Tag string
	// NodeID of the element the message is about, 0 when it concerns the whole template.
	NodeID   int
	Location position.RawPosition
	Severity DiagnosticSeverity
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	// SeverityError marks malformed directive expressions.
	SeverityError DiagnosticSeverity = "error"
	// SeverityWarning marks discouraged or ambiguous usage, reported in dev mode only.
	SeverityWarning DiagnosticSeverity = "warning"
)

// Collector logs every diagnostic to the context logger and keeps it for later inspection.
type Collector struct {
	diagnostics []Diagnostic
}

var _ Reporter = &Collector{}

func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Reporter
func (c *Collector) Report(ctx context.Context, d Diagnostic) {
	if d.Severity == "" {
		d.Severity = SeverityWarning
	}

	ev := zerolog.Ctx(ctx).Warn()
	if d.Severity == SeverityError {
		ev = zerolog.Ctx(ctx).Error()
	}
	ev.Str("tag", d.Tag).Int("node", d.NodeID).Int("offset", d.Location.Offset).Msg(d.Message)

	c.diagnostics = append(c.diagnostics, d)
}

// All returns every diagnostic in report order.
func (c *Collector) All() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Diagnostics splits the collected messages by severity.
func (c *Collector) Diagnostics() *Diagnostics {
	diags := &Diagnostics{
		Errors:   make([]Diagnostic, 0),
		Warnings: make([]Diagnostic, 0),
	}
	for _, d := range c.diagnostics {
		switch d.Severity {
		case SeverityError:
			diags.Errors = append(diags.Errors, d)
		default:
			diags.Warnings = append(diags.Warnings, d)
		}
	}
	return diags
}

type tee []Reporter

func (t tee) Report(ctx context.Context, d Diagnostic) {
	for _, r := range t {
		r.Report(ctx, d)
	}
}

// Tee fans every diagnostic out to each non-nil reporter in order.
func Tee(reporters ...Reporter) Reporter {
	out := make(tee, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Formatter formats diagnostics into a specific output format
type Formatter interface {
	// Format formats diagnostics found in source into bytes
	Format(diagnostics *Diagnostics, filename, source string) ([]byte, error)
}

// TextFormatter writes one "file:line:col: severity: message" line per diagnostic.
type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format implements Formatter
func (f *TextFormatter) Format(diagnostics *Diagnostics, filename, source string) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	var buf bytes.Buffer
	write := func(d Diagnostic) {
		rng := d.Location.GetRange(source)
		fmt.Fprintf(&buf, "%s:%d:%d: %s: %s", filename, rng.Start.Line+1, rng.Start.Character, d.Severity, d.Message)
		if d.Tag != "" {
			fmt.Fprintf(&buf, " <%s>", d.Tag)
		}
		buf.WriteByte('\n')
	}

	for _, d := range diagnostics.Errors {
		write(d)
	}
	for _, d := range diagnostics.Warnings {
		write(d)
	}

	return buf.Bytes(), nil
}

// JSONFormatter formats diagnostics the way editors expect them (zero-based ranges).
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format implements Formatter
func (f *JSONFormatter) Format(diagnostics *Diagnostics, filename, source string) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	type jsonPlace struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	}

	type jsonRange struct {
		Start jsonPlace `json:"start"`
		End   jsonPlace `json:"end"`
	}

	type jsonDiagnostic struct {
		File     string    `json:"file"`
		Severity int       `json:"severity"`
		Message  string    `json:"message"`
		Tag      string    `json:"tag,omitempty"`
		Range    jsonRange `json:"range"`
	}

	result := make([]jsonDiagnostic, 0, len(diagnostics.Errors)+len(diagnostics.Warnings))

	convert := func(d Diagnostic, severity int) jsonDiagnostic {
		startLine, startCol := d.Location.GetLineAndColumn(source)
		endLine, endCol := d.Location.GetEndPosition().GetLineAndColumn(source)
		return jsonDiagnostic{
			File:     filename,
			Severity: severity,
			Message:  d.Message,
			Tag:      d.Tag,
			Range: jsonRange{
				Start: jsonPlace{Line: startLine, Character: startCol},
				End:   jsonPlace{Line: endLine, Character: endCol},
			},
		}
	}

	for _, d := range diagnostics.Errors {
		result = append(result, convert(d, 1))
	}
	for _, d := range diagnostics.Warnings {
		result = append(result, convert(d, 2))
	}

	return json.Marshal(result)
}
