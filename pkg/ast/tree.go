// Package ast builds the annotated element tree of a template.
//
// The Tree is an arena: it owns every node by identity, and a node refers to its
// parent only by identity. Children are owned by their parent's Children slice.
// Identity 0 is the synthetic root, every other identity is handed out by Create
// in increasing order and never reused.
package ast

import (
	"context"
	"fmt"

	"github.com/walteh/vuetmpls/pkg/diagnostic"
	"github.com/walteh/vuetmpls/pkg/token"
)

// RootID is the identity of the synthetic root node.
const RootID = 0

const noParent = -1

// Options carries the compiler switches the directive processors depend on.
type Options struct {
	// Dev enables dev-only diagnostics and key population.
	Dev bool
	// NewSlotSyntax enables v-slot processing.
	NewSlotSyntax bool
	// IsReservedTag reports platform tags that can never be components.
	IsReservedTag func(tag string) bool
	// Reporter receives diagnostics. A Collector is used when nil.
	Reporter diagnostic.Reporter
}

// Node wraps one Element in the tree.
type Node struct {
	ID       int
	El       *Element
	Children []*Node

	parent int
}

// ParentID returns the identity of the parent, false for the root.
func (n *Node) ParentID() (int, bool) {
	if n.parent == noParent {
		return 0, false
	}
	return n.parent, true
}

type Tree struct {
	opts  Options
	nodes []*Node
}

// NewTree creates a tree holding only the synthetic root.
func NewTree(opts Options) *Tree {
	if opts.Reporter == nil {
		opts.Reporter = diagnostic.NewCollector()
	}
	if opts.IsReservedTag == nil {
		opts.IsReservedTag = func(string) bool { return false }
	}

	root := &Node{
		ID:     RootID,
		El:     NewElement(&token.Token{Kind: token.ProcessingInstruction}),
		parent: noParent,
	}

	return &Tree{
		opts:  opts,
		nodes: []*Node{root},
	}
}

func (t *Tree) Options() Options {
	return t.opts
}

func (t *Tree) Root() *Node {
	return t.nodes[RootID]
}

// Len returns the number of registered nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Create registers a new node for el and appends it to the children of parentID.
// An unknown parentID is an internal invariant violation and panics.
func (t *Tree) Create(el *Element, parentID int) *Node {
	parent, ok := t.Get(parentID)
	if !ok {
		panic(fmt.Sprintf("ast: parent node %d is not registered", parentID))
	}

	n := &Node{
		ID:     len(t.nodes),
		El:     el,
		parent: parent.ID,
	}

	t.nodes = append(t.nodes, n)
	parent.Children = append(parent.Children, n)

	return n
}

func (t *Tree) Get(id int) (*Node, bool) {
	if id < 0 || id >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[id], true
}

// Parent resolves the parent of n through the arena.
func (t *Tree) Parent(n *Node) (*Node, bool) {
	id, ok := n.ParentID()
	if !ok {
		return nil, false
	}
	return t.Get(id)
}

// ElementParent is like Parent but treats the synthetic root as no parent.
func (t *Tree) ElementParent(n *Node) (*Node, bool) {
	p, ok := t.Parent(n)
	if !ok || p.ID == RootID {
		return nil, false
	}
	return p, true
}

// Walk visits n and its children depth first. Scoped slot containers are visited
// after the regular children of their host.
func (t *Tree) Walk(n *Node, fn func(n *Node, depth int)) {
	t.walk(n, 0, fn)
}

func (t *Tree) walk(n *Node, depth int, fn func(n *Node, depth int)) {
	fn(n, depth)
	for _, c := range n.Children {
		t.walk(c, depth+1, fn)
	}
	if slots := n.El.ScopedSlots; slots != nil {
		for _, name := range slots.Names() {
			c, _ := slots.Get(name)
			t.walk(c, depth+1, fn)
		}
	}
}

func (t *Tree) report(ctx context.Context, n *Node, severity diagnostic.DiagnosticSeverity, msg string) {
	d := diagnostic.Diagnostic{
		Message:  msg,
		Severity: severity,
	}
	if n != nil {
		d.NodeID = n.ID
		d.Tag = n.El.Tag()
		if n.El.Token != nil {
			d.Location = n.El.Token.Position
		}
	}
	t.opts.Reporter.Report(ctx, d)
}

// Warn reports a dev-only warning about n. It does nothing outside dev mode.
func (t *Tree) Warn(ctx context.Context, n *Node, format string, args ...any) {
	if !t.opts.Dev {
		return
	}
	t.report(ctx, n, diagnostic.SeverityWarning, fmt.Sprintf(format, args...))
}

// Error reports a malformed directive on n regardless of dev mode.
func (t *Tree) Error(ctx context.Context, n *Node, format string, args ...any) {
	t.report(ctx, n, diagnostic.SeverityError, fmt.Sprintf(format, args...))
}
