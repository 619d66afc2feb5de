package token

import "strings"

// Attr is one raw attribute. A value-less attribute has Quote == NoValue and an empty Value.
type Attr struct {
	Name  string
	Value string
	Quote QuoteType
}

// A builds a double quoted attribute.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value, Quote: Double}
}

// Flag builds a value-less attribute.
func Flag(name string) Attr {
	return Attr{Name: name, Quote: NoValue}
}

// AttrMap is a case-insensitive attribute map that keeps insertion order.
// Read methods are safe on a nil map.
type AttrMap struct {
	attrs []Attr
	index map[string]int
}

func NewAttrMap(attrs ...Attr) *AttrMap {
	m := &AttrMap{index: make(map[string]int, len(attrs))}
	for _, a := range attrs {
		m.Set(a)
	}
	return m
}

func fold(name string) string {
	return strings.ToLower(name)
}

func (m *AttrMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.attrs)
}

func (m *AttrMap) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[fold(name)]
	return ok
}

func (m *AttrMap) Get(name string) (Attr, bool) {
	if m == nil {
		return Attr{}, false
	}
	i, ok := m.index[fold(name)]
	if !ok {
		return Attr{}, false
	}
	return m.attrs[i], true
}

// Set inserts the attribute or replaces the value of an existing one in place.
// The original spelling of the name is kept on replace.
func (m *AttrMap) Set(attr Attr) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	key := fold(attr.Name)
	if i, ok := m.index[key]; ok {
		attr.Name = m.attrs[i].Name
		m.attrs[i] = attr
		return
	}
	m.index[key] = len(m.attrs)
	m.attrs = append(m.attrs, attr)
}

// Delete removes the attribute and reports whether it was present.
func (m *AttrMap) Delete(name string) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[fold(name)]
	if !ok {
		return false
	}
	m.attrs = append(m.attrs[:i], m.attrs[i+1:]...)
	delete(m.index, fold(name))
	for j := i; j < len(m.attrs); j++ {
		m.index[fold(m.attrs[j].Name)] = j
	}
	return true
}

// All returns a copy of the attributes in insertion order.
func (m *AttrMap) All() []Attr {
	if m == nil {
		return nil
	}
	out := make([]Attr, len(m.attrs))
	copy(out, m.attrs)
	return out
}

func (m *AttrMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.attrs))
	for i, a := range m.attrs {
		names[i] = a.Name
	}
	return names
}
