// Package token defines the tag/text events consumed by the template parser.
package token

import (
	"context"
	"io"

	"github.com/walteh/vuetmpls/pkg/position"
)

// Kind discriminates the token vocabulary.
type Kind int

const (
	OpenTag Kind = iota
	CloseTag
	Text
	ProcessingInstruction
)

func (k Kind) String() string {
	switch k {
	case OpenTag:
		return "OpenTag"
	case CloseTag:
		return "CloseTag"
	case Text:
		return "Text"
	case ProcessingInstruction:
		return "ProcessingInstruction"
	}
	return "Unknown"
}

// QuoteType records how an attribute value was written in the source.
type QuoteType int

const (
	// NoValue marks a value-less attribute such as `v-else`.
	NoValue QuoteType = iota
	Unquoted
	Single
	Double
)

func (q QuoteType) String() string {
	switch q {
	case NoValue:
		return "none"
	case Unquoted:
		return "unquoted"
	case Single:
		return "single"
	case Double:
		return "double"
	}
	return "unknown"
}

// Token is one tag or text event.
type Token struct {
	Kind Kind
	// Data is the tag name for tags and the decoded content for text.
	Data string
	// Attrs is nil when the tag carried no attributes.
	Attrs *AttrMap
	// Implied is set on close tags synthesized for void or self-closing elements.
	Implied bool

	Position position.RawPosition
}

// Source produces tokens in document order. Next returns io.EOF once the stream is exhausted.
type Source interface {
	Next(ctx context.Context) (*Token, error)
}

// SliceSource replays a fixed list of tokens.
type SliceSource struct {
	tokens []*Token
	next   int
}

var _ Source = &SliceSource{}

func NewSliceSource(tokens ...*Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

func (s *SliceSource) Next(ctx context.Context) (*Token, error) {
	if s.next >= len(s.tokens) {
		return nil, io.EOF
	}
	tok := s.tokens[s.next]
	s.next++
	return tok, nil
}

// Open builds an open-tag token. Attribute values are recorded as double quoted.
func Open(tag string, attrs ...Attr) *Token {
	tok := &Token{Kind: OpenTag, Data: tag}
	if len(attrs) > 0 {
		tok.Attrs = NewAttrMap(attrs...)
	}
	return tok
}

// Close builds a close-tag token.
func Close(tag string) *Token {
	return &Token{Kind: CloseTag, Data: tag}
}

// NewText builds a text token.
func NewText(data string) *Token {
	return &Token{Kind: Text, Data: data}
}
