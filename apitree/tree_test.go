package apitree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddConditionallyIsIdempotent(t *testing.T) {
	tree := NewClassTree()
	outer := tree.AddConditionally("com/acme/Outer", "com.acme.Outer", nil)

	first := tree.AddConditionally("com/acme/Outer$Inner", "com.acme.Outer.Inner", outer)
	second := tree.AddConditionally("com/acme/Outer$Inner", "com.acme.Outer.Inner", outer)

	assert.Same(t, first, second)
	assert.Len(t, outer.Children(), 1)
	assert.Equal(t, 2, tree.Len())
	assert.Same(t, outer, first.Parent())
}

func TestAddConditionallyNeverDuplicates(t *testing.T) {
	tree := NewClassTree()
	a := tree.AddConditionally("p/A", "p.A", nil)
	b := tree.AddConditionally("p/B", "p.B", nil)
	nested := tree.AddConditionally("p/A$N", "p.A.N", a)

	// p/A$N is not below b, but it exists, so it is returned unchanged
	got := tree.AddConditionally("p/A$N", "p.A.N", b)
	assert.Same(t, nested, got)
	assert.Empty(t, b.Children())
	assert.Len(t, tree.Search(func(e *TypeElement) bool { return e.BinaryName() == "p/A$N" }, nil), 1)
}

func TestFindIsScoped(t *testing.T) {
	tree := NewClassTree()
	a := tree.AddConditionally("p/A", "p.A", nil)
	b := tree.AddConditionally("p/B", "p.B", nil)
	inner := tree.AddConditionally("p/A$I", "p.A.I", a)
	deep := tree.AddConditionally("p/A$I$D", "p.A.I.D", inner)

	assert.Same(t, deep, tree.Find("p/A$I$D", nil))
	assert.Same(t, deep, tree.Find("p/A$I$D", a))
	assert.Same(t, deep, tree.Find("p/A$I$D", inner))
	assert.Nil(t, tree.Find("p/A$I$D", b))
	assert.Nil(t, tree.Find("p/A", a), "scope itself is not below scope")
	assert.Nil(t, tree.Find("p/Missing", nil))
}

func TestSearch(t *testing.T) {
	tree := NewClassTree()
	a := tree.AddConditionally("p/A", "p.A", nil)
	tree.AddConditionally("p/A$X", "p.A.X", a)
	tree.AddConditionally("q/X", "q.X", nil)
	tree.AddConditionally("p/A$Y", "p.A.Y", a)

	endsWithX := func(e *TypeElement) bool { return e.CanonicalName()[len(e.CanonicalName())-1] == 'X' }

	all := tree.Search(endsWithX, nil)
	require.Len(t, all, 2)
	assert.Equal(t, "p/A$X", all[0].BinaryName())
	assert.Equal(t, "q/X", all[1].BinaryName())

	scoped := tree.Search(endsWithX, a)
	require.Len(t, scoped, 1)
	assert.Equal(t, "p/A$X", scoped[0].BinaryName())
}

func TestExportAndString(t *testing.T) {
	tree := NewClassTree()
	outer := tree.AddConditionally("com/acme/Outer", "com.acme.Outer", nil)
	tree.AddConditionally("com/acme/Outer$Inner", "com.acme.Outer.Inner", outer)

	nodes := tree.Export()
	require.Len(t, nodes, 1)
	assert.Equal(t, "com.acme.Outer", nodes[0].CanonicalName)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "com/acme/Outer$Inner", nodes[0].Children[0].BinaryName)
	assert.Nil(t, nodes[0].Children[0].Children)

	assert.Equal(t, "com.acme.Outer (com/acme/Outer)\n  com.acme.Outer.Inner (com/acme/Outer$Inner)\n", tree.String())
	assert.Equal(t, "Lcom/acme/Outer$Inner;", outer.Children()[0].Descriptor())
}

func TestFingerprint(t *testing.T) {
	build := func(order ...string) *ClassTree {
		tree := NewClassTree()
		for _, name := range order {
			tree.AddConditionally(name, name, nil)
		}
		return tree
	}

	assert.Equal(t, build("a", "b").Fingerprint(), build("a", "b").Fingerprint())
	assert.NotEqual(t, build("a", "b").Fingerprint(), build("b", "a").Fingerprint())

	flat := build("a", "b")
	nested := NewClassTree()
	nested.AddConditionally("b", "b", nested.AddConditionally("a", "a", nil))
	assert.NotEqual(t, flat.Fingerprint(), nested.Fingerprint())
}

func TestEnvironmentsAreIndependent(t *testing.T) {
	one, two := NewEnvironment(), NewEnvironment()
	assert.NotEqual(t, one.ID, two.ID)

	one.Tree().AddConditionally("p/A", "p.A", nil)
	assert.Equal(t, 1, one.Tree().Len())
	assert.Equal(t, 0, two.Tree().Len())
}
