// Package htmltok adapts golang.org/x/net/html to a token.Source.
//
// Tag names are lowercased and entities in text are decoded. Attribute names
// keep their source spelling, since dynamic arguments like #[slotName] hold
// case-sensitive expressions. Comments and doctypes are skipped. Void elements and
// self-closing tags are followed by an implied close token.
package htmltok

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"

	"github.com/walteh/vuetmpls/pkg/position"
	"github.com/walteh/vuetmpls/pkg/token"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports tags that never have content or an end tag.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

type Tokenizer struct {
	z       *html.Tokenizer
	offset  int
	pending []*token.Token
}

var _ token.Source = &Tokenizer{}

func New(r io.Reader) *Tokenizer {
	z := html.NewTokenizer(r)
	z.SetMaxBuf(0)
	return &Tokenizer{z: z}
}

func NewString(src string) *Tokenizer {
	return New(strings.NewReader(src))
}

func (t *Tokenizer) Next(ctx context.Context) (*token.Token, error) {
	if len(t.pending) > 0 {
		tok := t.pending[0]
		t.pending = t.pending[1:]
		return tok, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tt := t.z.Next()
		// copied before TagName lowercases the buffer in place
		raw := string(t.z.Raw())
		pos := position.RawPosition{Offset: t.offset, Text: raw}
		t.offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if errors.Is(t.z.Err(), io.EOF) {
				return nil, io.EOF
			}
			return nil, errors.Errorf("tokenizing html at offset %d: %w", pos.Offset, t.z.Err())

		case html.TextToken:
			return &token.Token{Kind: token.Text, Data: string(t.z.Text()), Position: pos}, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := t.openTag(raw, pos)
			if tt == html.SelfClosingTagToken || IsVoidElement(tok.Data) {
				t.pending = append(t.pending, &token.Token{
					Kind:     token.CloseTag,
					Data:     tok.Data,
					Implied:  true,
					Position: position.RawPosition{Offset: t.offset},
				})
			}
			return tok, nil

		case html.EndTagToken:
			name, _ := t.z.TagName()
			return &token.Token{Kind: token.CloseTag, Data: string(name), Position: pos}, nil

		default:
			zerolog.Ctx(ctx).Trace().Str("type", tt.String()).Int("offset", pos.Offset).Msg("skipping token")
		}
	}
}

func (t *Tokenizer) openTag(raw string, pos position.RawPosition) *token.Token {
	name, hasAttr := t.z.TagName()
	tok := &token.Token{Kind: token.OpenTag, Data: string(name), Position: pos}
	if !hasAttr {
		return tok
	}

	scanned := scanAttrs(raw)
	tok.Attrs = token.NewAttrMap()
	for i := 0; ; i++ {
		key, val, more := t.z.TagAttr()
		attr := token.Attr{Name: string(key), Value: string(val), Quote: token.Double}
		if i < len(scanned) {
			attr.Quote = scanned[i].quote
			// TagAttr lowercases; take the source spelling when both agree
			if strings.EqualFold(scanned[i].name, attr.Name) {
				attr.Name = scanned[i].name
			}
		}
		tok.Attrs.Set(attr)
		if !more {
			break
		}
	}
	return tok
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t', '\f':
		return true
	}
	return false
}

type rawAttr struct {
	name  string
	quote token.QuoteType
}

// scanAttrs walks the raw text of a start tag and returns the name as written
// and the quote style of each attribute, in the same order the tokenizer
// reports them.
func scanAttrs(raw string) []rawAttr {
	i := 1
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	var out []rawAttr
	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		start := i
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && (raw[i] != '=' || i == start) {
			i++
		}
		name := raw[start:i]
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] != '=' {
			out = append(out, rawAttr{name: name, quote: token.NoValue})
			continue
		}

		i++
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			out = append(out, rawAttr{name: name, quote: token.Unquoted})
			continue
		}

		switch q := raw[i]; q {
		case '"', '\'':
			i++
			for i < len(raw) && raw[i] != q {
				i++
			}
			i++
			if q == '"' {
				out = append(out, rawAttr{name: name, quote: token.Double})
			} else {
				out = append(out, rawAttr{name: name, quote: token.Single})
			}
		default:
			for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' {
				i++
			}
			out = append(out, rawAttr{name: name, quote: token.Unquoted})
		}
	}
	return out
}
