package ast

import (
	"regexp"
	"strconv"

	"github.com/walteh/vuetmpls/pkg/filter"
	"github.com/walteh/vuetmpls/pkg/token"
)

// RemoveMode says what consuming an attribute does to the raw attribute map.
type RemoveMode int

const (
	// MarkIgnored leaves the attribute in the raw map and records it in Element.Ignored.
	MarkIgnored RemoveMode = iota
	// FullyRemove deletes the attribute from the raw map.
	FullyRemove
)

func (n *Node) attrs() *token.AttrMap {
	if n.El.Token == nil {
		return nil
	}
	return n.El.Token.Attrs
}

func (n *Node) HasRawAttr(name string) bool {
	return n.attrs().Has(name)
}

// GetRawAttr returns the raw value without consuming it. Value-less attributes yield "".
func (n *Node) GetRawAttr(name string) (string, bool) {
	attr, ok := n.attrs().Get(name)
	if !ok {
		return "", false
	}
	return attr.Value, true
}

// GetAndRemoveAttr consumes name according to mode and returns its value.
func (n *Node) GetAndRemoveAttr(name string, mode RemoveMode) (string, bool) {
	attr, ok := n.GetAndRemoveAttrIncludingQuotes(name, mode)
	if !ok {
		return "", false
	}
	return attr.Value, true
}

// GetAndRemoveAttrIncludingQuotes is GetAndRemoveAttr that also returns the quoting style.
func (n *Node) GetAndRemoveAttrIncludingQuotes(name string, mode RemoveMode) (token.Attr, bool) {
	attrs := n.attrs()
	attr, ok := attrs.Get(name)
	if !ok {
		return token.Attr{}, false
	}

	switch mode {
	case FullyRemove:
		attrs.Delete(name)
		n.El.Ignored.Remove(name)
	default:
		n.El.Ignored.Add(attr.Name)
	}

	return attr, true
}

// GetAndRemoveAttrByRegex consumes the first attribute whose name matches re.
// The whole attribute is returned since some directives carry their argument in the name.
func (n *Node) GetAndRemoveAttrByRegex(re *regexp.Regexp) (token.Attr, bool) {
	for _, attr := range n.attrs().All() {
		if re.MatchString(attr.Name) {
			n.El.Ignored.Add(attr.Name)
			return attr, true
		}
	}
	return token.Attr{}, false
}

// GetBindingAttr resolves name as a binding: `:name`, then `v-bind:name`, both run
// through the filter transform. With getStatic a plain `name` attribute is the
// fallback and comes back as a quoted string literal.
func (n *Node) GetBindingAttr(name string, getStatic bool) (string, bool) {
	dynamic, ok := n.GetAndRemoveAttrIncludingQuotes(":"+name, MarkIgnored)
	if !ok {
		dynamic, ok = n.GetAndRemoveAttrIncludingQuotes("v-bind:"+name, MarkIgnored)
	}
	if ok {
		return filter.Parse(dynamic.Value), true
	}

	if getStatic {
		if static, ok := n.GetAndRemoveAttr(name, MarkIgnored); ok {
			return strconv.Quote(static), true
		}
	}

	return "", false
}

// GetRawBindingAttr follows the GetBindingAttr precedence but returns the
// unfiltered source value and consumes nothing.
func (n *Node) GetRawBindingAttr(name string) (string, bool) {
	for _, candidate := range []string{":" + name, "v-bind:" + name, name} {
		if v, ok := n.GetRawAttr(candidate); ok {
			return v, true
		}
	}
	return "", false
}

// InsertIntoAttrs upserts attr into the raw map, creating the map when the tag had none.
// An inserted attribute is live again, so it is no longer marked ignored.
func (n *Node) InsertIntoAttrs(attr token.Attr) {
	if n.El.Token.Attrs == nil {
		n.El.Token.Attrs = token.NewAttrMap()
	}
	n.El.Token.Attrs.Set(attr)
	n.El.Ignored.Remove(attr.Name)
}
