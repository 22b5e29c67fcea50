package runtimelib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/apitree/classfile/classfiletest"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDetectRtJar(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "jre", "lib", "rt.jar"), classfiletest.Zip(
		classfiletest.Entry{Name: "java/"},
		classfiletest.Entry{Name: "java/lang/String.class", Data: []byte{1}},
		classfiletest.Entry{Name: "java/util/Map$Entry.class", Data: []byte{1}},
		classfiletest.Entry{Name: "META-INF/MANIFEST.MF", Data: []byte("x")},
	))

	ix, err := Detect(home)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())
	assert.True(t, ix.Provides("java/lang/String"))
	assert.True(t, ix.Provides("java/util/Map$Entry"))
	assert.False(t, ix.Provides("java/util/Map"))
	assert.False(t, ix.Provides("com/acme/Thing"))
}

func TestDetectJmods(t *testing.T) {
	home := t.TempDir()
	jmod := func(entries ...classfiletest.Entry) []byte {
		return append([]byte{'J', 'M', 1, 0}, classfiletest.Zip(entries...)...)
	}
	writeFile(t, filepath.Join(home, "jmods", "java.base.jmod"), jmod(
		classfiletest.Entry{Name: "classes/module-info.class", Data: []byte{1}},
		classfiletest.Entry{Name: "classes/java/lang/Object.class", Data: []byte{1}},
		classfiletest.Entry{Name: "bin/java", Data: []byte{1}},
	))
	writeFile(t, filepath.Join(home, "jmods", "java.sql.jmod"), jmod(
		classfiletest.Entry{Name: "classes/java/sql/Connection.class", Data: []byte{1}},
	))

	ix, err := Detect(home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "jmods"), ix.Source())
	assert.Equal(t, 2, ix.Len())
	assert.True(t, ix.Provides("java/lang/Object"))
	assert.True(t, ix.Provides("java/sql/Connection"))
	assert.False(t, ix.Provides("module-info"))
}

func TestLoadJmodsRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.jmod"), []byte("PK not a jmod"))

	_, err := LoadJmods(dir)
	assert.Error(t, err)

	_, err = LoadJmods(t.TempDir())
	assert.ErrorIs(t, err, ErrNoRuntimeIndex)
}

func TestDetectSrcZip(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "lib", "src.zip"), classfiletest.Zip(
		classfiletest.Entry{Name: "java.base/java/util/Map.java", Data: []byte("x")},
		classfiletest.Entry{Name: "java.base/java/util/package-info.java", Data: []byte("x")},
		classfiletest.Entry{Name: "java.base/module-info.java", Data: []byte("x")},
		classfiletest.Entry{Name: "javax/swing/JPanel.java", Data: []byte("x")},
	))

	ix, err := Detect(home)
	require.NoError(t, err)
	assert.True(t, ix.Provides("java/util/Map"))
	assert.True(t, ix.Provides("java/util/Map$Entry"), "nested classes resolve through their top-level source")
	assert.True(t, ix.Provides("javax/swing/JPanel"))
	assert.False(t, ix.Provides("java/util/package-info"))
	assert.Equal(t, 2, ix.Len())
}

func TestDetectNothing(t *testing.T) {
	_, err := Detect(t.TempDir())
	assert.ErrorIs(t, err, ErrNoRuntimeIndex)
}

func TestPackagesAndChain(t *testing.T) {
	lib := Chain{None, Packages{"java/", "javax/"}}
	assert.True(t, lib.Provides("java/lang/String"))
	assert.True(t, lib.Provides("javax/inject/Inject"))
	assert.False(t, lib.Provides("javafx/scene/Node"))
	assert.False(t, None.Provides("java/lang/String"))
}

type countingLibrary struct {
	calls int
}

func (c *countingLibrary) Provides(binaryName string) bool {
	c.calls++
	return binaryName == "java/lang/String"
}

func TestCached(t *testing.T) {
	inner := &countingLibrary{}
	lib, err := Cached(inner, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, lib.Provides("java/lang/String"))
		assert.False(t, lib.Provides("com/acme/Missing"))
	}
	assert.Equal(t, 2, inner.calls)

	_, err = Cached(inner, 0)
	assert.Error(t, err)
}

func TestTopLevel(t *testing.T) {
	assert.Equal(t, "java/util/Map", topLevel("java/util/Map$Entry"))
	assert.Equal(t, "Outer", topLevel("Outer$A$B"))
	assert.Equal(t, "p/$Proxy", topLevel("p/$Proxy"))
	assert.Equal(t, "java/lang/String", topLevel("java/lang/String"))
}
