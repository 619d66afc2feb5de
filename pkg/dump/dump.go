// Package dump renders a parsed tree for humans and snapshot tests.
package dump

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/vuetmpls/pkg/ast"
)

type Attr struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
	Quote string `yaml:"quote,omitempty"`
}

type ScopedSlot struct {
	Name     string `yaml:"name"`
	Template *Node  `yaml:"template"`
}

// Node is the serializable view of one tree node. Attrs lists only the
// attributes no directive has consumed.
type Node struct {
	ID   int    `yaml:"id"`
	Tag  string `yaml:"tag,omitempty"`
	Text string `yaml:"text,omitempty"`

	Attrs []Attr `yaml:"attrs,omitempty"`

	Plain          bool   `yaml:"plain,omitempty"`
	Forbidden      bool   `yaml:"forbidden,omitempty"`
	Pre            bool   `yaml:"pre,omitempty"`
	Once           bool   `yaml:"once,omitempty"`
	Component      bool   `yaml:"component,omitempty"`
	ComponentName  string `yaml:"component_name,omitempty"`
	InlineTemplate bool   `yaml:"inline_template,omitempty"`

	Key      string `yaml:"key,omitempty"`
	Ref      string `yaml:"ref,omitempty"`
	RefInFor bool   `yaml:"ref_in_for,omitempty"`

	For       string `yaml:"for,omitempty"`
	Alias     string `yaml:"alias,omitempty"`
	Iterator1 string `yaml:"iterator1,omitempty"`
	Iterator2 string `yaml:"iterator2,omitempty"`

	If     string `yaml:"if,omitempty"`
	ElseIf string `yaml:"else_if,omitempty"`
	Else   bool   `yaml:"else,omitempty"`

	SlotName          string `yaml:"slot_name,omitempty"`
	SlotTarget        string `yaml:"slot_target,omitempty"`
	SlotTargetDynamic bool   `yaml:"slot_target_dynamic,omitempty"`
	SlotScope         string `yaml:"slot_scope,omitempty"`

	ScopedSlots []ScopedSlot `yaml:"scoped_slots,omitempty"`
	Children    []*Node      `yaml:"children,omitempty"`
}

// FromNode converts n and everything reachable from it.
func FromNode(n *ast.Node) *Node {
	el := n.El
	out := &Node{
		ID:                n.ID,
		Tag:               el.Tag(),
		Text:              el.Text(),
		Attrs:             liveAttrs(n),
		Plain:             el.Plain,
		Forbidden:         el.Forbidden,
		Pre:               el.Pre,
		Once:              el.Once,
		Component:         el.Component,
		ComponentName:     el.ComponentName,
		InlineTemplate:    el.InlineTemplate,
		Key:               el.Key,
		Ref:               el.Ref,
		RefInFor:          el.RefInFor,
		For:               el.For,
		Alias:             el.Alias,
		Iterator1:         el.Iterator1,
		Iterator2:         el.Iterator2,
		If:                el.If,
		ElseIf:            el.ElseIf,
		Else:              el.Else,
		SlotName:          el.SlotName,
		SlotTarget:        el.SlotTarget,
		SlotTargetDynamic: el.SlotTargetDynamic,
		SlotScope:         el.SlotScope,
	}

	for _, name := range el.ScopedSlots.Names() {
		c, _ := el.ScopedSlots.Get(name)
		out.ScopedSlots = append(out.ScopedSlots, ScopedSlot{Name: name, Template: FromNode(c)})
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, FromNode(c))
	}

	return out
}

func liveAttrs(n *ast.Node) []Attr {
	if n.El.Token == nil {
		return nil
	}
	var out []Attr
	for _, a := range n.El.Token.Attrs.All() {
		if n.El.Ignored.Has(a.Name) {
			continue
		}
		out = append(out, Attr{Name: a.Name, Value: a.Value, Quote: a.Quote.String()})
	}
	return out
}

// YAML renders the tree from its synthetic root.
func YAML(tree *ast.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromNode(tree.Root())); err != nil {
		return nil, errors.Errorf("encoding tree: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Errorf("closing yaml encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// Table renders one row per node in walk order, indenting by depth.
func Table(tree *ast.Tree) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"ID", "Node", "Parent", "Directives", "Attributes"})

	tree.Walk(tree.Root(), func(n *ast.Node, depth int) {
		parent := ""
		if id, ok := n.ParentID(); ok {
			parent = strconv.Itoa(id)
		}

		attrs := make([]string, 0)
		for _, a := range liveAttrs(n) {
			attrs = append(attrs, a.Name+"="+strconv.Quote(a.Value))
		}

		tbl.AppendRow(table.Row{n.ID, strings.Repeat("  ", depth) + label(n), parent, strings.Join(directives(n.El), " "), strings.Join(attrs, " ")})
	})

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d nodes", tree.Len())})

	return tbl.Render()
}

func label(n *ast.Node) string {
	switch {
	case n.ID == ast.RootID:
		return "(root)"
	case n.El.IsText():
		return strconv.Quote(n.El.Text())
	}
	return "<" + n.El.Tag() + ">"
}

func directives(el *ast.Element) []string {
	var out []string
	add := func(name, value string) {
		if value != "" {
			out = append(out, name+"="+value)
		}
	}
	flag := func(name string, set bool) {
		if set {
			out = append(out, name)
		}
	}

	add("if", el.If)
	add("else-if", el.ElseIf)
	flag("else", el.Else)
	if el.For != "" {
		alias := el.Alias
		for _, it := range []string{el.Iterator1, el.Iterator2} {
			if it != "" {
				alias += "," + it
			}
		}
		out = append(out, "for="+alias+" in "+el.For)
	}
	add("key", el.Key)
	add("ref", el.Ref)
	flag("ref-in-for", el.RefInFor)
	flag("once", el.Once)
	flag("pre", el.Pre)
	flag("plain", el.Plain)
	flag("forbidden", el.Forbidden)
	add("component", el.ComponentName)
	add("slot-name", el.SlotName)
	add("slot-target", el.SlotTarget)
	add("slot-scope", el.SlotScope)

	return out
}
