package scan

import (
	"strings"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/classfile"
)

// classUnit classifies one class file and feeds the pending set and the
// tree. A new classUnit is used for every class file.
type classUnit struct {
	tree    *apitree.ClassTree
	pending pendingSet
	// closure is set when the unit only resolves pending references
	closure bool

	name     string
	api      bool
	resolver *innerNameResolver
}

func newClassUnit(tree *apitree.ClassTree, pending pendingSet, closure bool) *classUnit {
	return &classUnit{tree: tree, pending: pending, closure: closure}
}

func (u *classUnit) VisitClass(h classfile.ClassHeader) {
	u.name = h.Name
	if u.closure {
		u.api = u.pending.has(classfile.ObjectDescriptor(h.Name))
	} else {
		u.api = h.AccessFlags.IsAPI()
	}
	if u.api && strings.Contains(h.Name, "$") {
		u.resolver = newInnerNameResolver(h.Name)
	}
	log.Debugf("visit %s: access=%s api=%t closure=%t", h.Name, h.AccessFlags, u.api, u.closure)
}

func (u *classUnit) VisitField(f classfile.Field) {
	if u.api && f.AccessFlags.IsAPI() {
		u.pending.track(f.Type, u.tree)
	}
}

func (u *classUnit) VisitMethod(m classfile.Method) {
	if !u.api || !m.AccessFlags.IsAPI() {
		return
	}
	u.pending.track(m.Type.ReturnType(), u.tree)
	for _, p := range m.Type.ArgumentTypes() {
		u.pending.track(p, u.tree)
	}
}

func (u *classUnit) VisitInnerClass(ic classfile.InnerClass) {
	if u.resolver != nil {
		u.resolver.add(ic)
	}
}

func (u *classUnit) VisitEnd() {
	if !u.api {
		return
	}

	var levels []nameLevel
	if u.resolver != nil {
		levels = u.resolver.chain()
	}
	if levels == nil {
		u.tree.AddConditionally(u.name, classfile.InternalToSourceName(u.name), nil)
	} else if u.closure {
		u.insertUnderKnownAncestor(levels)
	} else {
		var parent *apitree.TypeElement
		for _, l := range levels {
			parent = u.tree.AddConditionally(l.binaryName, l.canonicalName, parent)
		}
	}

	desc := classfile.ObjectDescriptor(u.name)
	if u.pending.has(desc) {
		log.Debugf("found pending %s", desc)
		u.pending.remove(desc)
	}
}

// insertUnderKnownAncestor adds only the leaf of levels, below the deepest
// enclosing class that is already in the tree.
func (u *classUnit) insertUnderKnownAncestor(levels []nameLevel) {
	var parent *apitree.TypeElement
	for _, l := range levels[:len(levels)-1] {
		if e := u.tree.Find(l.binaryName, parent); e != nil {
			parent = e
		}
	}
	leaf := levels[len(levels)-1]
	u.tree.AddConditionally(leaf.binaryName, leaf.canonicalName, parent)
}
