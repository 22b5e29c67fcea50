package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/classfile"
	"github.com/dhamidi/apitree/classfile/classfiletest"
	"github.com/dhamidi/apitree/config"
	"github.com/dhamidi/apitree/runtimelib"
	"github.com/dhamidi/apitree/scan"
)

func init() {
	color.NoColor = true
}

func sampleEnv() *apitree.Environment {
	env := apitree.NewEnvironment()
	outer := env.Tree().AddConditionally("p/Outer", "p.Outer", nil)
	env.Tree().AddConditionally("p/Outer$Inner", "p.Outer.Inner", outer)
	return env
}

func TestRenderTree(t *testing.T) {
	var buf bytes.Buffer
	renderTree(&buf, sampleEnv().Tree())
	assert.Equal(t, "p.Outer p/Outer\n  p.Outer.Inner p/Outer$Inner\n\n2 types\n", buf.String())
}

func TestRenderJSONAndYAML(t *testing.T) {
	env := sampleEnv()
	cfg := config.DefaultConfig()
	cfg.Archives = []string{"a.jar"}
	r := newReport(env, cfg)

	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, r))
	var fromJSON report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, r, fromJSON)

	buf.Reset()
	require.NoError(t, renderYAML(&buf, r))
	assert.Contains(t, buf.String(), "canonicalName: p.Outer.Inner")
	var fromYAML report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, r, fromYAML)
}

func TestRenderMissing(t *testing.T) {
	var buf bytes.Buffer
	renderMissing(&buf, &scan.ClosureError{Missing: []string{"La/B;", "Lc/D;"}, Archives: []string{"x.jar"}})
	assert.Equal(t, "2 types of the public API of x.jar could not be located:\n  La/B;\n  Lc/D;\n", buf.String())
}

func TestDumpClass(t *testing.T) {
	data := classfiletest.Public("p/Outer$Inner").
		Field(classfile.AccPublic, "names", "[Ljava/lang/String;").
		Method(classfile.AccProtected, "size", "()I").
		Inner("p/Outer$Inner", "p/Outer", "Inner", classfile.AccPublic|classfile.AccStatic)
	data.SourceFile = "Outer.java"
	cf, err := classfile.ParseBytes(data.Bytes())
	require.NoError(t, err)

	var buf bytes.Buffer
	dumpClass(&buf, cf)
	out := buf.String()
	assert.Contains(t, out, "p.Outer$Inner\n")
	assert.Contains(t, out, "source:      Outer.java")
	assert.Contains(t, out, "java.lang.String[]")
	assert.Contains(t, out, "() int")
	assert.Contains(t, out, "p/Outer")
}

func TestBuildRuntime(t *testing.T) {
	lib, err := buildRuntime(config.RuntimeConfig{Disabled: true})
	require.NoError(t, err)
	assert.Equal(t, runtimelib.None, lib)

	home := t.TempDir()
	rtJar := filepath.Join(home, "lib", "rt.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(rtJar), 0o755))
	require.NoError(t, os.WriteFile(rtJar, classfiletest.Zip(
		classfiletest.Entry{Name: "java/lang/String.class", Data: []byte{1}},
	), 0o644))

	lib, err = buildRuntime(config.RuntimeConfig{JavaHome: home, Packages: []string{"org/w3c/"}, CacheSize: 16})
	require.NoError(t, err)
	assert.True(t, lib.Provides("java/lang/String"))
	assert.True(t, lib.Provides("org/w3c/dom/Node"))
	assert.False(t, lib.Provides("java/lang/Object"))

	lib, err = buildRuntime(config.RuntimeConfig{JavaHome: t.TempDir()})
	require.NoError(t, err)
	assert.True(t, lib.Provides("java/lang/Object"), "falls back to package prefixes without a JDK")
}

func TestRunScan(t *testing.T) {
	dir := t.TempDir()
	apiJar := filepath.Join(dir, "api.jar")
	require.NoError(t, os.WriteFile(apiJar, classfiletest.Jar([]*classfiletest.Class{
		classfiletest.Public("p/A").Method(classfile.AccPublic, "dep", "()Lq/Dep;"),
	}), 0o644))
	depJar := filepath.Join(dir, "dep.jar")
	require.NoError(t, os.WriteFile(depJar, classfiletest.Jar([]*classfiletest.Class{
		classfiletest.PackagePrivate("q/Dep"),
	}), 0o644))

	cfg := config.DefaultConfig()
	cfg.Archives = []string{apiJar}
	cfg.Runtime.Disabled = true
	cfg.Output.Format = "json"
	assert.ErrorIs(t, runScan(cfg), errReported)

	cfg.Supplementary = []string{depJar}
	assert.NoError(t, runScan(cfg))
}
