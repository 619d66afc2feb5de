package ast_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/walteh/vuetmpls/pkg/ast"
	"github.com/walteh/vuetmpls/pkg/diagnostic"
	"github.com/walteh/vuetmpls/pkg/token"
)

func reservedTags(tag string) bool {
	switch tag {
	case "div", "span", "ul", "li", "p", "template", "slot", "transition-group":
		return true
	}
	return false
}

func newTestTree(t *testing.T, opts ast.Options) (context.Context, *ast.Tree, *diagnostic.Collector) {
	t.Helper()

	ctx := zerolog.New(zerolog.TestWriter{T: t}).With().Str("test", t.Name()).Logger().WithContext(context.Background())

	collector := diagnostic.NewCollector()
	opts.Reporter = collector
	if opts.IsReservedTag == nil {
		opts.IsReservedTag = reservedTags
	}

	return ctx, ast.NewTree(opts), collector
}

func open(tree *ast.Tree, parentID int, tag string, attrs ...token.Attr) *ast.Node {
	return tree.Create(ast.NewElement(token.Open(tag, attrs...)), parentID)
}

func messages(c *diagnostic.Collector) []string {
	var out []string
	for _, d := range c.All() {
		out = append(out, d.Message)
	}
	return out
}
