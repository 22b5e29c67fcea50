package scan

import (
	"maps"
	"slices"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/classfile"
)

// pendingSet holds the descriptors of object types that public API members
// refer to and that have not been found yet.
type pendingSet map[string]struct{}

func (p pendingSet) has(desc string) bool {
	_, ok := p[desc]
	return ok
}

func (p pendingSet) add(desc string) { p[desc] = struct{}{} }

func (p pendingSet) remove(desc string) { delete(p, desc) }

func (p pendingSet) clone() pendingSet { return maps.Clone(p) }

func (p pendingSet) equal(other pendingSet) bool {
	if len(p) != len(other) {
		return false
	}
	for desc := range p {
		if !other.has(desc) {
			return false
		}
	}
	return true
}

func (p pendingSet) sorted() []string {
	return slices.Sorted(maps.Keys(p))
}

// track records t as needed by the API. Arrays count as their element
// type and primitives are ignored. A type already in the tree clears its
// pending entry instead.
func (p pendingSet) track(t classfile.Type, tree *apitree.ClassTree) {
	switch t.Sort() {
	case classfile.SortMethod:
		panic("method type must not reach the pending tracker")
	case classfile.SortArray:
		t = t.ElementType()
	}
	if t.Sort() != classfile.SortObject {
		return
	}

	desc := t.Descriptor()
	if tree.Lookup(t.InternalName()) != nil {
		if p.has(desc) {
			log.Debugf("no longer pending, already in tree: %s", desc)
			p.remove(desc)
		}
		return
	}
	if !p.has(desc) {
		log.Debugf("pending: %s", desc)
		p.add(desc)
	}
}
