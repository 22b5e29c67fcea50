// Package scan builds the public API tree of a set of Java archives. It
// walks the archives' class files, keeps the public and protected types,
// and follows member signatures until every referenced type is found in
// an archive or in the runtime library.
package scan

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/classfile"
	"github.com/dhamidi/apitree/runtimelib"
)

var log = commonlog.GetLogger("apitree.scan")

// Initializer fills the tree of Env with the API of Archives. Supplementary
// archives only contribute types that the API refers to.
type Initializer struct {
	Archives      []Archive
	Supplementary []Archive
	Env           *apitree.Environment
	// Runtime provides the platform classes. Nil means runtimelib.None.
	Runtime runtimelib.Library
}

func New(archives, supplementary []Archive, env *apitree.Environment, runtime runtimelib.Library) *Initializer {
	return &Initializer{
		Archives:      archives,
		Supplementary: supplementary,
		Env:           env,
		Runtime:       runtime,
	}
}

// InitTree scans until the set of missing types stops changing. Archive
// errors abort at once. Missing types left over at the end are reported as
// a *ClosureError.
func (in *Initializer) InitTree() error {
	if in.Env == nil {
		return fmt.Errorf("scan: no environment")
	}
	lib := in.Runtime
	if lib == nil {
		lib = runtimelib.None
	}
	tree := in.Env.Tree()
	pending := make(pendingSet)

	closure := false
	for pass := 1; ; pass++ {
		before := pending.clone()

		for _, a := range in.Archives {
			log.Debugf("processing archive %s", a.Name())
			if err := processArchive(a, tree, pending, closure); err != nil {
				return err
			}
		}
		closure = true

		log.Debugf("types to be found on the class path: %v", pending.sorted())

		for _, a := range in.Supplementary {
			log.Debugf("processing supplementary archive %s", a.Name())
			if err := processArchive(a, tree, pending, closure); err != nil {
				return err
			}
		}

		in.pruneRuntime(pending, lib)

		log.Infof("%s: pass %d done, %d types in tree, %d pending", in.Env.ID, pass, tree.Len(), len(pending))
		if pending.equal(before) {
			break
		}
	}

	if len(pending) > 0 {
		return &ClosureError{Missing: pending.sorted(), Archives: archiveNames(in.Archives)}
	}

	log.Debugf("public API class tree in %v + %v initialized to:\n%s",
		archiveNames(in.Archives), archiveNames(in.Supplementary), tree)
	return nil
}

func (in *Initializer) pruneRuntime(pending pendingSet, lib runtimelib.Library) {
	if len(pending) == 0 {
		return
	}
	log.Debugf("types not on the class path, checking runtime library: %v", pending.sorted())
	for _, desc := range pending.sorted() {
		t, err := classfile.ParseType(desc)
		if err != nil || t.Sort() != classfile.SortObject {
			continue
		}
		if lib.Provides(t.InternalName()) {
			log.Debugf("provided by runtime library: %s", desc)
			pending.remove(desc)
		}
	}
}

func processArchive(a Archive, tree *apitree.ClassTree, pending pendingSet, closure bool) error {
	return eachClass(a, func(entry string, data []byte) error {
		return classfile.Accept(data, newClassUnit(tree, pending, closure))
	})
}

func archiveNames(archives []Archive) []string {
	names := make([]string, len(archives))
	for i, a := range archives {
		names[i] = a.Name()
	}
	return names
}
