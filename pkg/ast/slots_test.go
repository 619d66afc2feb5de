package ast_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vuetmpls/pkg/ast"
	"github.com/walteh/vuetmpls/pkg/diagnostic"
	"github.com/walteh/vuetmpls/pkg/grammar"
	"github.com/walteh/vuetmpls/pkg/token"
)

func TestProcessSlotContent_Legacy(t *testing.T) {
	t.Run("deprecated scope on template", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true})
		n := open(tree, ast.RootID, "template", token.A("scope", "props"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, "props", n.El.SlotScope)
		msgs := messages(collector)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], `"scope" attribute for scoped slots have been deprecated`)
	})

	t.Run("slot-scope on template", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true})
		n := open(tree, ast.RootID, "template", token.A("slot-scope", "{ row }"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, "{ row }", n.El.SlotScope)
		assert.Empty(t, collector.All())
	})

	t.Run("slot-scope with v-for is ambiguous", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true})
		n := open(tree, ast.RootID, "li", token.A("v-for", "x in xs"), token.A("slot-scope", "s"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, "s", n.El.SlotScope)
		msgs := messages(collector)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "Ambiguous combined usage of slot-scope and v-for on <li>")
	})

	t.Run("warnings are silent outside dev mode", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{})
		n := open(tree, ast.RootID, "template", token.A("scope", "props"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, "props", n.El.SlotScope)
		assert.Empty(t, collector.All())
	})
}

func TestProcessSlotContent_Target(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		attrs     []token.Attr
		target    string
		dynamic   bool
		keepAttr  bool
		attrValue string
	}{
		{
			name:      "static target",
			tag:       "div",
			attrs:     []token.Attr{token.A("slot", "header")},
			target:    `"header"`,
			keepAttr:  true,
			attrValue: "header",
		},
		{
			name:      "empty target is the default slot",
			tag:       "div",
			attrs:     []token.Attr{token.A("slot", "")},
			target:    `"default"`,
			keepAttr:  true,
			attrValue: "",
		},
		{
			name:      "dynamic shorthand target",
			tag:       "div",
			attrs:     []token.Attr{token.A(":slot", "current")},
			target:    "current",
			dynamic:   true,
			keepAttr:  true,
			attrValue: "current",
		},
		{
			name:    "v-bind target",
			tag:     "div",
			attrs:   []token.Attr{token.A("v-bind:slot", "current")},
			target:  "current",
			dynamic: true,
			// re-inserted under the plain name
			keepAttr:  true,
			attrValue: "current",
		},
		{
			name:   "template does not keep the attribute",
			tag:    "template",
			attrs:  []token.Attr{token.A("slot", "header")},
			target: `"header"`,
		},
		{
			name:   "scoped element does not keep the attribute",
			tag:    "div",
			attrs:  []token.Attr{token.A("slot", "header"), token.A("slot-scope", "s")},
			target: `"header"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, tree, _ := newTestTree(t, ast.Options{})
			n := open(tree, ast.RootID, tt.tag, tt.attrs...)

			tree.ProcessSlotContent(ctx, n)

			assert.Equal(t, tt.target, n.El.SlotTarget)
			assert.Equal(t, tt.dynamic, n.El.SlotTargetDynamic)

			if !tt.keepAttr {
				return
			}
			v, ok := n.GetRawAttr("slot")
			require.True(t, ok)
			assert.Equal(t, tt.attrValue, v)
			assert.False(t, n.El.Ignored.Has("slot"))
		})
	}
}

func TestProcessSlotContent_TemplateVSlot(t *testing.T) {
	t.Run("named slot inside a component", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})
		host := open(tree, ast.RootID, "my-list")
		n := open(tree, host.ID, "template", token.A("v-slot:header", "{ item }"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, `"header"`, n.El.SlotTarget)
		assert.False(t, n.El.SlotTargetDynamic)
		assert.Equal(t, "{ item }", n.El.SlotScope)
		assert.Empty(t, collector.All())
	})

	t.Run("dynamic shorthand without scope", func(t *testing.T) {
		ctx, tree, _ := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})
		host := open(tree, ast.RootID, "my-list")
		n := open(tree, host.ID, "template", token.Flag("#[slotName]"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, "slotName", n.El.SlotTarget)
		assert.True(t, n.El.SlotTargetDynamic)
		assert.Equal(t, grammar.EmptySlotScopeToken, n.El.SlotScope)
	})

	t.Run("parent that is not a component", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})
		host := open(tree, ast.RootID, "div")
		n := open(tree, host.ID, "template", token.Flag("v-slot"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, `"default"`, n.El.SlotTarget)
		msgs := messages(collector)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "<template v-slot> can only appear at the root level")
	})

	t.Run("mixed syntaxes", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})
		host := open(tree, ast.RootID, "my-list")
		n := open(tree, host.ID, "template", token.A("slot", "a"), token.A("v-slot:b", ""))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, `"b"`, n.El.SlotTarget, "v-slot is resolved last")
		assert.Equal(t, []string{"Unexpected mixed usage of different slot syntaxes."}, messages(collector))
	})

	t.Run("new syntax disabled", func(t *testing.T) {
		ctx, tree, _ := newTestTree(t, ast.Options{Dev: true})
		host := open(tree, ast.RootID, "my-list")
		n := open(tree, host.ID, "template", token.A("v-slot:header", "s"))

		tree.ProcessSlotContent(ctx, n)

		assert.Empty(t, n.El.SlotTarget)
		assert.Empty(t, n.El.SlotScope)
		assert.False(t, n.El.Ignored.Has("v-slot:header"))
	})
}

func TestProcessSlotContent_ComponentRewrite(t *testing.T) {
	ctx, tree, collector := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})

	host := open(tree, ast.RootID, "my-list", token.A("v-slot:foo", "s"))
	scoped := open(tree, host.ID, "div")
	scoped.El.SlotScope = "other"
	plain := open(tree, host.ID, "span")
	host.El.Plain = true

	tree.ProcessSlotContent(ctx, host)

	assert.Empty(t, collector.All())
	assert.Empty(t, host.Children)
	assert.False(t, host.El.Plain)

	require.Equal(t, 1, host.El.ScopedSlots.Len())
	container, ok := host.El.ScopedSlots.Get(`"foo"`)
	require.True(t, ok)

	assert.Equal(t, "template", container.El.Tag())
	assert.Equal(t, `"foo"`, container.El.SlotTarget)
	assert.False(t, container.El.SlotTargetDynamic)
	assert.Equal(t, "s", container.El.SlotScope)
	assert.Equal(t, []*ast.Node{plain}, container.Children)

	parentID, ok := container.ParentID()
	require.True(t, ok)
	assert.Equal(t, host.ID, parentID)

	parentID, ok = plain.ParentID()
	require.True(t, ok)
	assert.Equal(t, host.ID, parentID, "moved children keep the host as parent")

	got, ok := tree.Get(container.ID)
	require.True(t, ok)
	assert.Same(t, container, got)

	got, ok = tree.Get(scoped.ID)
	require.True(t, ok, "a child with its own slot scope stays in the arena")
	assert.Same(t, scoped, got)
	assert.NotContains(t, container.Children, scoped)
}

func TestProcessSlotContent_ComponentRewriteLogged(t *testing.T) {
	_, tree, _ := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	host := open(tree, ast.RootID, "my-list", token.A("#header", "h"))
	open(tree, host.ID, "span")
	scoped := open(tree, host.ID, "template", token.A("slot-scope", "o"))
	scoped.El.SlotScope = "o"

	tree.ProcessSlotContent(ctx, host)

	out := buf.String()
	assert.Contains(t, out, "moved component children into slot container")
	assert.Contains(t, out, `"moved":1`)
	assert.Contains(t, out, fmt.Sprintf(`"dropped":[%d]`, scoped.ID))
}

func TestProcessSlotContent_ComponentWarnings(t *testing.T) {
	t.Run("default slot on a platform element", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})
		n := open(tree, ast.RootID, "div", token.Flag("v-slot"))

		tree.ProcessSlotContent(ctx, n)

		assert.Equal(t, []string{"v-slot can only be used on components or <template>."}, messages(collector))
		container, ok := n.El.ScopedSlots.Get(`"default"`)
		require.True(t, ok)
		assert.Equal(t, grammar.EmptySlotScopeToken, container.El.SlotScope)
	})

	t.Run("other named slots already present", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{Dev: true, NewSlotSyntax: true})
		n := open(tree, ast.RootID, "my-list", token.A("v-slot", "props"))
		other := open(tree, n.ID, "template")
		n.El.ScopedSlots = ast.NewSlotMap()
		n.El.ScopedSlots.Set(`"header"`, other)

		tree.ProcessSlotContent(ctx, n)

		assert.Contains(t, messages(collector), "To avoid scope ambiguity, the default slot should also use <template> syntax when there are other named slots.")
		assert.Equal(t, []string{`"header"`, `"default"`}, n.El.ScopedSlots.Names())
	})

	t.Run("shorthand without a name is an error", func(t *testing.T) {
		ctx, tree, collector := newTestTree(t, ast.Options{NewSlotSyntax: true})
		n := open(tree, ast.RootID, "my-list", token.Flag("#"))

		tree.ProcessSlotContent(ctx, n)

		diags := collector.Diagnostics()
		require.Len(t, diags.Errors, 1)
		assert.Equal(t, "v-slot shorthand syntax requires a slot name: #", diags.Errors[0].Message)
		assert.Equal(t, diagnostic.SeverityError, diags.Errors[0].Severity)
	})
}
