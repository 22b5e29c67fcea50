package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/classfile"
)

func mustType(t *testing.T, desc string) classfile.Type {
	t.Helper()
	typ, err := classfile.ParseType(desc)
	require.NoError(t, err)
	return typ
}

func TestPendingTrack(t *testing.T) {
	tree := apitree.NewClassTree()
	tree.AddConditionally("p/Known", "p.Known", nil)
	pending := make(pendingSet)

	for _, desc := range []string{"I", "V", "[J", "Lp/A;", "[Lp/B;", "[[[Lp/B;", "Lp/Known;"} {
		pending.track(mustType(t, desc), tree)
	}
	assert.Equal(t, []string{"Lp/A;", "Lp/B;"}, pending.sorted())

	pending.add("Lp/Known;")
	pending.track(mustType(t, "[Lp/Known;"), tree)
	assert.False(t, pending.has("Lp/Known;"), "a type already in the tree is no longer pending")
}

func TestPendingTrackRejectsMethodTypes(t *testing.T) {
	pending := make(pendingSet)
	assert.PanicsWithValue(t, "method type must not reach the pending tracker", func() {
		pending.track(mustType(t, "(I)V"), apitree.NewClassTree())
	})
}

func TestPendingCloneAndEqual(t *testing.T) {
	a := pendingSet{"La;": {}, "Lb;": {}}
	b := a.clone()
	assert.True(t, a.equal(b))

	b.remove("La;")
	assert.False(t, a.equal(b))
	assert.True(t, a.has("La;"))

	b.add("Lc;")
	assert.False(t, a.equal(b))
}
