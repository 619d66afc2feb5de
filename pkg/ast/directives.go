package ast

import (
	"context"

	"github.com/walteh/vuetmpls/pkg/grammar"
)

// ProcessPre marks n when it carries v-pre. The driver decides what the region means.
func (t *Tree) ProcessPre(ctx context.Context, n *Node) {
	if _, ok := n.GetAndRemoveAttr("v-pre", MarkIgnored); ok {
		n.El.Pre = true
	}
}

// ProcessRawAttributes handles elements inside a v-pre region, where directives are not compiled.
func (t *Tree) ProcessRawAttributes(ctx context.Context, n *Node) {
	if n.El.Token.Attrs.Len() == 0 {
		n.El.Plain = true
	}
}

func (t *Tree) ProcessFor(ctx context.Context, n *Node) {
	exp, ok := n.GetAndRemoveAttr("v-for", MarkIgnored)
	if !ok || exp == "" {
		return
	}

	res, ok := grammar.ParseFor(exp)
	if !ok {
		t.Error(ctx, n, "Invalid v-for expression: %s", exp)
		return
	}

	n.El.Alias = res.Alias
	n.El.For = res.For
	n.El.Iterator1 = res.Iterator1
	n.El.Iterator2 = res.Iterator2
}

// ProcessIf records v-if, or else the v-else and v-else-if markers. Chaining
// else branches to their v-if is left to a later pass.
func (t *Tree) ProcessIf(ctx context.Context, n *Node) {
	if exp, ok := n.GetAndRemoveAttr("v-if", MarkIgnored); ok {
		n.El.If = exp
		return
	}

	if _, ok := n.GetAndRemoveAttr("v-else", MarkIgnored); ok {
		n.El.Else = true
	}
	if exp, ok := n.GetAndRemoveAttr("v-else-if", MarkIgnored); ok {
		n.El.ElseIf = exp
	}
}

func (t *Tree) ProcessOnce(ctx context.Context, n *Node) {
	if _, ok := n.GetAndRemoveAttr("v-once", MarkIgnored); ok {
		n.El.Once = true
	}
}

// ProcessKey resolves the key binding. The key is only recorded in dev mode.
func (t *Tree) ProcessKey(ctx context.Context, n *Node) {
	exp, ok := n.GetBindingAttr("key", false)
	if !ok || exp == "" {
		return
	}
	if !t.opts.Dev {
		return
	}

	if n.El.TagIs("template") {
		raw, _ := n.GetRawBindingAttr("key")
		t.Warn(ctx, n, "<template> cannot be keyed. Place the key on real elements instead. key=%q", raw)
	}

	if n.El.For != "" {
		iterator := n.El.Iterator2
		if iterator == "" {
			iterator = n.El.Iterator1
		}
		if exp == n.El.Iterator1 || exp == n.El.Iterator2 {
			t.Warn(ctx, n, "Avoid using the v-for iterator %q as key, it does not identify the item.", exp)
		}
		if iterator != "" && exp == iterator {
			if p, ok := t.ElementParent(n); ok && p.El.TagIs("transition-group") {
				raw, _ := n.GetRawBindingAttr("key")
				t.Warn(ctx, n, "Do not use v-for index as key on <transition-group> children, this is the same as not using keys. key=%q", raw)
			}
		}
	}

	n.El.Key = exp
}

func (t *Tree) ProcessRef(ctx context.Context, n *Node) {
	ref, ok := n.GetBindingAttr("ref", true)
	if !ok || ref == "" {
		return
	}
	n.El.Ref = ref
	n.El.RefInFor = t.CheckInFor(n)
}

// CheckInFor reports whether n or any ancestor is a v-for host.
func (t *Tree) CheckInFor(n *Node) bool {
	for cur, ok := n, true; ok; cur, ok = t.Parent(cur) {
		if cur.El.For != "" {
			return true
		}
	}
	return false
}

// IsMaybeComponent reports whether n could render a component rather than a platform tag.
func (t *Tree) IsMaybeComponent(n *Node) bool {
	if n.El.Component || n.HasRawAttr(":is") || n.HasRawAttr("v-bind:is") {
		return true
	}
	if is, ok := n.GetRawAttr("is"); ok {
		return !t.opts.IsReservedTag(is)
	}
	return !t.opts.IsReservedTag(n.El.Tag())
}

// ProcessElement finalizes n once its close tag is seen.
func (t *Tree) ProcessElement(ctx context.Context, n *Node) {
	t.ProcessKey(ctx, n)

	// any leftover attribute, consumed or not, makes the element non-plain
	n.El.Plain = n.El.Key == "" && n.El.ScopedSlots.Len() == 0 && n.El.Token.Attrs.Len() == 0

	t.ProcessRef(ctx, n)
	t.ProcessSlotContent(ctx, n)
	t.ProcessSlotOutlet(ctx, n)
	t.ProcessComponent(ctx, n)
}

// ProcessSlotOutlet resolves the name of a <slot> outlet.
func (t *Tree) ProcessSlotOutlet(ctx context.Context, n *Node) {
	if !n.El.TagIs("slot") {
		return
	}
	if name, ok := n.GetBindingAttr("name", true); ok {
		n.El.SlotName = name
	}
	if n.El.Key != "" {
		t.Warn(ctx, n, "`key` does not work on <slot> because slots are abstract outlets and can possibly expand into multiple elements. Use the key on a wrapping element instead.")
	}
}

// ProcessComponent handles dynamic components (`is`) and inline templates.
func (t *Tree) ProcessComponent(ctx context.Context, n *Node) {
	if binding, ok := n.GetBindingAttr("is", true); ok {
		n.El.Component = true
		n.El.ComponentName = binding
	}
	if _, ok := n.GetAndRemoveAttr("inline-template", MarkIgnored); ok {
		n.El.InlineTemplate = true
	}
}
