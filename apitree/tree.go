package apitree

import (
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("apitree")

// ClassTree owns the root elements and an index of every element by binary
// name. A binary name occurs at most once in the whole tree. A ClassTree is
// not safe for concurrent use.
type ClassTree struct {
	roots []*TypeElement
	index map[string]*TypeElement
}

func NewClassTree() *ClassTree {
	return &ClassTree{index: make(map[string]*TypeElement)}
}

// Roots returns the top-level elements in insertion order. The slice must
// not be modified.
func (t *ClassTree) Roots() []*TypeElement { return t.roots }

// Len is the number of elements at any depth.
func (t *ClassTree) Len() int { return len(t.index) }

// Lookup finds an element anywhere in the tree.
func (t *ClassTree) Lookup(binaryName string) *TypeElement {
	return t.index[binaryName]
}

// Find looks binaryName up below scope. A nil scope means the whole tree.
func (t *ClassTree) Find(binaryName string, scope *TypeElement) *TypeElement {
	e := t.index[binaryName]
	if e == nil || scope == nil || e.isDescendantOf(scope) {
		return e
	}
	return nil
}

// Search returns every element below scope (the whole tree for a nil scope)
// that satisfies match, depth first in insertion order.
func (t *ClassTree) Search(match func(*TypeElement) bool, scope *TypeElement) []*TypeElement {
	start := t.roots
	if scope != nil {
		start = scope.children
	}
	var found []*TypeElement
	var visit func([]*TypeElement)
	visit = func(elems []*TypeElement) {
		for _, e := range elems {
			if match(e) {
				found = append(found, e)
			}
			visit(e.children)
		}
	}
	visit(start)
	return found
}

// AddConditionally returns the element for binaryName below parent,
// creating it as a child of parent (or as a root when parent is nil) if it
// is not there yet. An element that already exists elsewhere in the tree is
// returned as is and never duplicated.
func (t *ClassTree) AddConditionally(binaryName, canonicalName string, parent *TypeElement) *TypeElement {
	if e := t.Find(binaryName, parent); e != nil {
		return e
	}
	if e := t.index[binaryName]; e != nil {
		log.Debugf("not adding %s under %v: already present under %v", binaryName, parent, e.parent)
		return e
	}

	e := &TypeElement{binaryName: binaryName, canonicalName: canonicalName, parent: parent}
	if parent == nil {
		t.roots = append(t.roots, e)
	} else {
		parent.children = append(parent.children, e)
	}
	t.index[binaryName] = e
	log.Debugf("adding to tree: %v, under %v", e, parent)
	return e
}

// Walk visits every element depth first in insertion order. Returning false
// from fn skips the element's children.
func (t *ClassTree) Walk(fn func(e *TypeElement, depth int) bool) {
	var visit func([]*TypeElement, int)
	visit = func(elems []*TypeElement, depth int) {
		for _, e := range elems {
			if fn(e, depth) {
				visit(e.children, depth+1)
			}
		}
	}
	visit(t.roots, 0)
}

func (t *ClassTree) String() string {
	var sb strings.Builder
	t.Walk(func(e *TypeElement, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(e.String())
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
