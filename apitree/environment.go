package apitree

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Environment owns the class tree of one scanning session. Independent
// environments share nothing and may be used from different goroutines.
type Environment struct {
	ID   string
	tree *ClassTree
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:   uuid.NewString(),
		tree: NewClassTree(),
	}
}

func (env *Environment) Tree() *ClassTree { return env.tree }

func (env *Environment) String() string {
	return fmt.Sprintf("environment %s (%d types)", env.ID, env.tree.Len())
}

// Node is a serializable view of a TypeElement and its descendants.
type Node struct {
	BinaryName    string `json:"binaryName" yaml:"binaryName"`
	CanonicalName string `json:"canonicalName" yaml:"canonicalName"`
	Children      []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Export converts the tree into plain values for JSON or YAML encoding.
func (t *ClassTree) Export() []Node {
	return exportAll(t.roots)
}

func exportAll(elems []*TypeElement) []Node {
	if len(elems) == 0 {
		return nil
	}
	nodes := make([]Node, len(elems))
	for i, e := range elems {
		nodes[i] = Node{
			BinaryName:    e.binaryName,
			CanonicalName: e.canonicalName,
			Children:      exportAll(e.children),
		}
	}
	return nodes
}

// Fingerprint hashes names and nesting in walk order. Two trees built from
// the same archives in the same order have equal fingerprints.
func (t *ClassTree) Fingerprint() uint64 {
	h := xxhash.New()
	var depth [4]byte
	t.Walk(func(e *TypeElement, d int) bool {
		binary.BigEndian.PutUint32(depth[:], uint32(d))
		h.Write(depth[:])
		h.WriteString(e.binaryName)
		h.Write([]byte{0})
		h.WriteString(e.canonicalName)
		h.Write([]byte{0})
		return true
	})
	return h.Sum64()
}
