// Package parser drives a token stream through the directive processors and
// builds the element tree.
package parser

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/vuetmpls/pkg/ast"
	"github.com/walteh/vuetmpls/pkg/diagnostic"
	"github.com/walteh/vuetmpls/pkg/grammar"
	"github.com/walteh/vuetmpls/pkg/htmltok"
	"github.com/walteh/vuetmpls/pkg/token"
)

// ErrUnsupportedToken is returned for token kinds the driver has no transition for.
var ErrUnsupportedToken = errors.Base("unsupported token")

type Whitespace string

const (
	// WhitespacePreserve turns whitespace-only text between elements into a single space.
	WhitespacePreserve Whitespace = "preserve"
	// WhitespaceCondense drops whitespace-only text containing a line break and
	// collapses whitespace runs elsewhere.
	WhitespaceCondense Whitespace = "condense"
)

// TextHandler replaces the default text node creation. parent is the innermost
// open element and inPre is set inside whitespace-preserving tags.
type TextHandler func(ctx context.Context, tree *ast.Tree, parent *ast.Node, tok *token.Token, inPre bool)

type Options struct {
	Dev           bool
	SSR           bool
	NewSlotSyntax bool
	Whitespace    Whitespace

	// IsPreTag defaults to IsPreTag.
	IsPreTag func(tag string) bool
	// IsReservedTag defaults to IsReservedTag.
	IsReservedTag func(tag string) bool

	TextHandler TextHandler
	// Reporter receives diagnostics in addition to the per-parse collector.
	Reporter diagnostic.Reporter
}

type Parser struct {
	opts Options
}

func New(opts Options) *Parser {
	if opts.Whitespace == "" {
		opts.Whitespace = WhitespacePreserve
	}
	if opts.IsPreTag == nil {
		opts.IsPreTag = IsPreTag
	}
	if opts.IsReservedTag == nil {
		opts.IsReservedTag = IsReservedTag
	}
	return &Parser{opts: opts}
}

type Result struct {
	Tree *ast.Tree
	// Root is the first root-level element, nil for a template without elements.
	Root        *ast.Node
	Diagnostics *diagnostic.Diagnostics
}

// ParseString tokenizes src as HTML and parses it.
func (p *Parser) ParseString(ctx context.Context, src string) (*Result, error) {
	return p.Parse(ctx, htmltok.NewString(src))
}

// Parse consumes src until io.EOF. Elements still open at the end are closed
// in reverse order.
func (p *Parser) Parse(ctx context.Context, src token.Source) (*Result, error) {
	collector := diagnostic.NewCollector()

	s := &state{
		opts:     p.opts,
		reporter: diagnostic.Tee(collector, p.opts.Reporter),
	}
	s.tree = ast.NewTree(ast.Options{
		Dev:           p.opts.Dev,
		NewSlotSyntax: p.opts.NewSlotSyntax,
		IsReservedTag: p.opts.IsReservedTag,
		Reporter:      s.reporter,
	})

	logger := zerolog.Ctx(ctx)
	logger.Debug().Bool("dev", p.opts.Dev).Bool("ssr", p.opts.SSR).Bool("new_slot_syntax", p.opts.NewSlotSyntax).Msg("parsing template")

	for {
		tok, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading token: %w", err)
		}

		switch tok.Kind {
		case token.OpenTag:
			s.openTag(ctx, tok)
		case token.CloseTag:
			s.closeTag(ctx, tok)
		case token.Text:
			s.text(ctx, tok)
		default:
			return nil, errors.Errorf("%s at offset %d: %w", tok.Kind, tok.Position.Offset, ErrUnsupportedToken)
		}
	}

	for i := len(s.stack) - 1; i >= 0; i-- {
		n := s.stack[i]
		s.tree.Warn(ctx, n, "tag <%s> has no matching end tag.", n.El.Tag())
		s.closeElement(ctx, n)
	}
	s.stack = nil

	res := &Result{
		Tree:        s.tree,
		Root:        s.root,
		Diagnostics: collector.Diagnostics(),
	}

	logger.Debug().Int("nodes", s.tree.Len()).Int("errors", len(res.Diagnostics.Errors)).Int("warnings", len(res.Diagnostics.Warnings)).Msg("parsed template")

	return res, nil
}

// state is the driver state carried across one token stream.
type state struct {
	opts     Options
	reporter diagnostic.Reporter
	tree     *ast.Tree

	// stack holds the open elements, innermost last.
	stack []*ast.Node
	root  *ast.Node

	// vPreOwner and preOwner are the elements that entered the current v-pre
	// and whitespace-preserving regions; both regions end when their owner closes.
	vPreOwner *ast.Node
	preOwner  *ast.Node

	warned bool
}

func (s *state) current() *ast.Node {
	if len(s.stack) == 0 {
		return s.tree.Root()
	}
	return s.stack[len(s.stack)-1]
}

func (s *state) inVPre() bool {
	return s.vPreOwner != nil
}

func (s *state) inPre() bool {
	return s.preOwner != nil
}

// warnToken reports a dev warning that has no element to attach to.
func (s *state) warnToken(ctx context.Context, tok *token.Token, msg string) {
	if !s.opts.Dev {
		return
	}
	s.reporter.Report(ctx, diagnostic.Diagnostic{
		Message:  msg,
		Tag:      tok.Data,
		Location: tok.Position,
		Severity: diagnostic.SeverityWarning,
	})
}

func (s *state) warnOnce(ctx context.Context, n *ast.Node, format string, args ...any) {
	if s.warned || !s.opts.Dev {
		return
	}
	s.warned = true
	s.tree.Warn(ctx, n, format, args...)
}

func (s *state) openTag(ctx context.Context, tok *token.Token) {
	parent := s.current()
	n := s.tree.Create(ast.NewElement(tok), parent.ID)

	if s.opts.Dev {
		for _, name := range tok.Attrs.Names() {
			if grammar.HasInvalidAttrChars(name) {
				s.tree.Warn(ctx, n, "Invalid dynamic argument expression: attribute names cannot contain spaces, quotes, <, >, / or =. (%s)", name)
			}
		}
	}

	if isForbiddenTag(n.El) && !s.opts.SSR {
		n.El.Forbidden = true
		s.tree.Warn(ctx, n, "Templates should only be responsible for mapping the state to the UI. Avoid placing tags with side-effects in your templates, such as <%s>, as they will not be parsed.", n.El.Tag())
	}

	if !s.inVPre() {
		s.tree.ProcessPre(ctx, n)
		if n.El.Pre {
			s.vPreOwner = n
		}
	}
	if !s.inPre() && s.opts.IsPreTag(n.El.Tag()) {
		s.preOwner = n
	}

	if s.inVPre() {
		s.tree.ProcessRawAttributes(ctx, n)
	} else if !n.El.Processed {
		s.tree.ProcessFor(ctx, n)
		s.tree.ProcessIf(ctx, n)
		s.tree.ProcessOnce(ctx, n)
	}

	if parent.ID == ast.RootID {
		s.assignRoot(ctx, n)
	}

	s.stack = append(s.stack, n)
}

// assignRoot applies the single-root rules to an element opened at the top level.
func (s *state) assignRoot(ctx context.Context, n *ast.Node) {
	if s.root == nil {
		s.root = n
		s.checkRootConstraints(ctx, n)
		return
	}

	if s.root.El.If != "" && (n.El.ElseIf != "" || n.El.Else) {
		s.checkRootConstraints(ctx, n)
		return
	}

	s.warnOnce(ctx, n, "Component template should contain exactly one root element. If you are using v-if on multiple elements, use v-else-if to chain them instead.")
}

// checkRootConstraints flags roots that may render more than one node.
func (s *state) checkRootConstraints(ctx context.Context, n *ast.Node) {
	if n.El.TagIs("slot") || n.El.TagIs("template") {
		s.warnOnce(ctx, n, "Cannot use <%s> as component root element because it may contain multiple nodes.", n.El.Tag())
	}
	if n.HasRawAttr("v-for") {
		s.warnOnce(ctx, n, "Cannot use v-for on stateful component root element because it renders multiple elements.")
	}
}

// closeTag closes the nearest open element with a matching tag, and every
// element opened after it.
func (s *state) closeTag(ctx context.Context, tok *token.Token) {
	pos := -1
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].El.TagIs(tok.Data) {
			pos = i
			break
		}
	}

	if pos < 0 {
		s.warnToken(ctx, tok, "stray end tag </"+tok.Data+"> is ignored.")
		return
	}

	for i := len(s.stack) - 1; i >= pos; i-- {
		n := s.stack[i]
		if i > pos {
			s.tree.Warn(ctx, n, "tag <%s> has no matching end tag.", n.El.Tag())
		}
		s.closeElement(ctx, n)
	}
	s.stack = s.stack[:pos]
}

func (s *state) closeElement(ctx context.Context, n *ast.Node) {
	if !s.inPre() {
		trimTrailingWhitespace(n)
	}

	if !s.inVPre() && !n.El.Processed {
		s.tree.ProcessElement(ctx, n)
	}

	if s.vPreOwner == n {
		s.vPreOwner = nil
	}
	if s.preOwner == n {
		s.preOwner = nil
	}

	zerolog.Ctx(ctx).Trace().Int("node", n.ID).Str("tag", n.El.Tag()).Msg("closed element")
}

func trimTrailingWhitespace(n *ast.Node) {
	for len(n.Children) > 0 {
		last := n.Children[len(n.Children)-1]
		if !last.El.IsText() || last.El.Text() != " " {
			return
		}
		n.Children = n.Children[:len(n.Children)-1]
	}
}

func (s *state) text(ctx context.Context, tok *token.Token) {
	if len(s.stack) == 0 {
		if strings.TrimSpace(tok.Data) != "" {
			s.warnToken(ctx, tok, "text \""+strings.TrimSpace(tok.Data)+"\" outside root element will be ignored.")
		}
		return
	}

	parent := s.current()

	if s.opts.TextHandler != nil {
		s.opts.TextHandler(ctx, s.tree, parent, tok, s.inPre())
		return
	}

	text := tok.Data
	if !s.inPre() && !isTextTag(parent.El.Tag()) {
		switch {
		case strings.TrimSpace(text) == "":
			if len(parent.Children) == 0 {
				return
			}
			if s.opts.Whitespace == WhitespaceCondense && grammar.HasLineBreak(text) {
				return
			}
			text = " "
		case s.opts.Whitespace == WhitespaceCondense:
			text = grammar.CondenseWhitespace(text)
		}
	}
	if text == "" {
		return
	}

	s.tree.Create(ast.NewElement(&token.Token{
		Kind:     token.Text,
		Data:     text,
		Position: tok.Position,
	}), parent.ID)
}

// isForbiddenTag reports side-effecting tags that templates must not contain.
func isForbiddenTag(el *ast.Element) bool {
	if el.TagIs("style") {
		return true
	}
	if !el.TagIs("script") {
		return false
	}
	typ, ok := el.Token.Attrs.Get("type")
	return ok && typ.Value == "text/javascript"
}
