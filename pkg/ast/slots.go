package ast

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/walteh/vuetmpls/pkg/grammar"
	"github.com/walteh/vuetmpls/pkg/token"
)

// ProcessSlotContent handles content that is passed into a slot, in both the
// legacy (slot / slot-scope) and the v-slot syntax.
func (t *Tree) ProcessSlotContent(ctx context.Context, n *Node) {
	isTemplate := n.El.TagIs("template")

	if isTemplate {
		scope, ok := n.GetAndRemoveAttr("scope", MarkIgnored)
		if ok && scope != "" {
			t.Warn(ctx, n, `the "scope" attribute for scoped slots have been deprecated and replaced by "slot-scope" since 2.5. The new "slot-scope" attribute can also be used on plain elements in addition to <template> to denote scoped slots.`)
			n.El.SlotScope = scope
		} else if scope, ok := n.GetAndRemoveAttr("slot-scope", MarkIgnored); ok {
			n.El.SlotScope = scope
		}
	} else if scope, ok := n.GetAndRemoveAttr("slot-scope", MarkIgnored); ok && scope != "" {
		if n.HasRawAttr("v-for") {
			t.Warn(ctx, n, "Ambiguous combined usage of slot-scope and v-for on <%s> (v-for takes higher priority). Use a wrapper <template> for the scoped slot to make it clearer.", n.El.Tag())
		}
		n.El.SlotScope = scope
	}

	// slot="xxx"
	if target, ok := n.GetBindingAttr("slot", true); ok && target != "" {
		if target == `""` {
			target = `"default"`
		}
		n.El.SlotTarget = target
		n.El.SlotTargetDynamic = n.HasRawAttr(":slot") || n.HasRawAttr("v-bind:slot")

		// keep slot as a plain attribute for native shadow DOM, only for non-scoped slots
		if !isTemplate && n.El.SlotScope == "" {
			raw := token.Attr{Name: "slot", Value: target, Quote: token.Double}
			for _, name := range []string{":slot", "v-bind:slot", "slot"} {
				if attr, ok := n.attrs().Get(name); ok {
					raw.Value = attr.Value
					raw.Quote = attr.Quote
					break
				}
			}
			n.InsertIntoAttrs(raw)
		}
	}

	if !t.opts.NewSlotSyntax {
		return
	}

	if isTemplate {
		t.processTemplateSlot(ctx, n)
		return
	}
	t.processComponentSlot(ctx, n)
}

// processTemplateSlot handles <template v-slot:name="scope">.
func (t *Tree) processTemplateSlot(ctx context.Context, n *Node) {
	binding, ok := n.GetAndRemoveAttrByRegex(grammar.SlotRE)
	if !ok {
		return
	}

	zerolog.Ctx(ctx).Trace().Int("node", n.ID).Str("binding", binding.Name).Msg("template slot")

	if n.El.SlotTarget != "" || n.El.SlotScope != "" {
		t.Warn(ctx, n, "Unexpected mixed usage of different slot syntaxes.")
	}
	if p, ok := t.ElementParent(n); ok && !t.IsMaybeComponent(p) {
		t.Warn(ctx, n, "<template v-slot> can only appear at the root level inside the receiving component")
	}

	name := t.slotName(ctx, n, binding)
	n.El.SlotTarget = name.Name
	n.El.SlotTargetDynamic = name.Dynamic
	n.El.SlotScope = slotScope(binding)
}

// processComponentSlot handles v-slot written directly on a component. The
// component's children move into a synthesized <template> that becomes the
// default (or named) scoped slot.
func (t *Tree) processComponentSlot(ctx context.Context, n *Node) {
	binding, ok := n.GetAndRemoveAttrByRegex(grammar.SlotRE)
	if !ok {
		return
	}

	if !t.IsMaybeComponent(n) {
		t.Warn(ctx, n, "v-slot can only be used on components or <template>.")
	}
	if n.El.SlotScope != "" || n.El.SlotTarget != "" {
		t.Warn(ctx, n, "Unexpected mixed usage of different slot syntaxes.")
	}
	if n.El.ScopedSlots.Len() > 0 {
		t.Warn(ctx, n, "To avoid scope ambiguity, the default slot should also use <template> syntax when there are other named slots.")
	}

	if n.El.ScopedSlots == nil {
		n.El.ScopedSlots = NewSlotMap()
	}

	name := t.slotName(ctx, n, binding)

	// snapshot before Create appends the container to n.Children
	moved := make([]*Node, 0, len(n.Children))
	var dropped []int
	for _, c := range n.Children {
		if c.El.SlotScope == "" {
			moved = append(moved, c)
			continue
		}
		// children with their own slot scope are not carried into the
		// container and stay reachable only through Tree.Get
		dropped = append(dropped, c.ID)
	}

	container := t.Create(NewElement(&token.Token{
		Kind:     token.OpenTag,
		Data:     "template",
		Position: n.El.Token.Position,
	}), n.ID)
	container.El.SlotTarget = name.Name
	container.El.SlotTargetDynamic = name.Dynamic
	container.El.SlotScope = slotScope(binding)

	// moved children keep n as their parent, the container is not an ancestor in their view
	for _, c := range moved {
		c.parent = n.ID
	}
	container.Children = moved

	n.El.ScopedSlots.Set(name.Name, container)

	zerolog.Ctx(ctx).Debug().
		Int("host", n.ID).
		Int("container", container.ID).
		Str("slot", name.Name).
		Int("moved", len(moved)).
		Ints("dropped", dropped).
		Msg("moved component children into slot container")

	// children are reachable through ScopedSlots only
	n.Children = nil
	n.El.Plain = false
}

func (t *Tree) slotName(ctx context.Context, n *Node, binding token.Attr) grammar.SlotName {
	name := grammar.ParseSlotName(binding.Name)
	if name.MissingName {
		t.Error(ctx, n, "v-slot shorthand syntax requires a slot name: %s", binding.Name)
	}
	return name
}

func slotScope(binding token.Attr) string {
	if binding.Value == "" {
		return grammar.EmptySlotScopeToken
	}
	return binding.Value
}
