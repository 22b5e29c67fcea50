// Package apitree holds the tree of types that make up a library's public
// API: top-level classes at the roots, nested classes below their outer
// class.
package apitree

import "github.com/dhamidi/apitree/classfile"

// TypeElement is one class, interface, enum or annotation in the tree.
type TypeElement struct {
	binaryName    string
	canonicalName string
	parent        *TypeElement
	children      []*TypeElement
}

// BinaryName is the slash-separated internal name, e.g. "com/acme/Outer$Inner".
func (e *TypeElement) BinaryName() string { return e.binaryName }

// CanonicalName is the dotted source name, e.g. "com.acme.Outer.Inner".
func (e *TypeElement) CanonicalName() string { return e.canonicalName }

// Descriptor is the object type descriptor of the element.
func (e *TypeElement) Descriptor() string { return classfile.ObjectDescriptor(e.binaryName) }

// Parent returns nil for roots.
func (e *TypeElement) Parent() *TypeElement { return e.parent }

// Children are returned in insertion order. The slice must not be modified.
func (e *TypeElement) Children() []*TypeElement { return e.children }

func (e *TypeElement) String() string {
	return e.canonicalName + " (" + e.binaryName + ")"
}

// isDescendantOf reports whether ancestor is a strict ancestor of e.
func (e *TypeElement) isDescendantOf(ancestor *TypeElement) bool {
	for p := e.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
