package ast

import (
	"strings"

	"github.com/walteh/vuetmpls/pkg/token"
)

// Element is the compiler annotation attached to one token. Directive processors
// fill it in while stripping directive attributes from Token.Attrs.
type Element struct {
	Token *token.Token

	Forbidden bool
	// Pre is set on the element that carries v-pre.
	Pre       bool
	Plain     bool
	Processed bool

	Component      bool
	ComponentName  string
	InlineTemplate bool

	// Ignored holds attributes consumed by a directive but left in Token.Attrs
	// so later passes can still read the source text.
	Ignored NameSet

	Key      string
	Ref      string
	RefInFor bool

	// v-for
	Alias     string
	For       string
	Iterator1 string
	Iterator2 string

	// v-if / v-else-if / v-else
	If          string
	IfProcessed bool
	ElseIf      string
	Else        bool

	Once bool

	// SlotName is the name of a <slot> outlet.
	SlotName          string
	SlotTarget        string
	SlotTargetDynamic bool
	SlotScope         string
	ScopedSlots       *SlotMap
}

// NewElement wraps a token. The token is shared, not copied: attribute
// consumption is visible through it.
func NewElement(tok *token.Token) *Element {
	return &Element{Token: tok}
}

// Tag returns the tag name, or the empty string for text and the root.
func (e *Element) Tag() string {
	if e.Token == nil || e.Token.Kind == token.Text {
		return ""
	}
	return e.Token.Data
}

// TagIs compares the tag name case-insensitively.
func (e *Element) TagIs(tag string) bool {
	return strings.EqualFold(e.Tag(), tag)
}

func (e *Element) IsText() bool {
	return e.Token != nil && e.Token.Kind == token.Text
}

// Text returns the content of a text node.
func (e *Element) Text() string {
	if !e.IsText() {
		return ""
	}
	return e.Token.Data
}

// NameSet is a case-insensitive set of attribute names that remembers insertion order.
type NameSet struct {
	names []string
	index map[string]int
}

func (s *NameSet) Add(name string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	key := strings.ToLower(name)
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = len(s.names)
	s.names = append(s.names, name)
}

func (s *NameSet) Has(name string) bool {
	_, ok := s.index[strings.ToLower(name)]
	return ok
}

func (s *NameSet) Remove(name string) {
	key := strings.ToLower(name)
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.names = append(s.names[:i], s.names[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.names); j++ {
		s.index[strings.ToLower(s.names[j])] = j
	}
}

func (s *NameSet) Len() int {
	return len(s.names)
}

func (s *NameSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// SlotMap maps resolved slot names to their slot container nodes.
// Keys compare case-insensitively and iteration follows insertion order.
type SlotMap struct {
	names []string
	nodes []*Node
	index map[string]int
}

func NewSlotMap() *SlotMap {
	return &SlotMap{index: make(map[string]int)}
}

func (m *SlotMap) Set(name string, n *Node) {
	key := strings.ToLower(name)
	if i, ok := m.index[key]; ok {
		m.nodes[i] = n
		return
	}
	m.index[key] = len(m.names)
	m.names = append(m.names, name)
	m.nodes = append(m.nodes, n)
}

func (m *SlotMap) Get(name string) (*Node, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return m.nodes[i], true
}

func (m *SlotMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

func (m *SlotMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}
