// Package runtimelib knows which classes the Java platform delivers itself,
// so that references to them need not be satisfied by user archives.
package runtimelib

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("apitree.runtimelib")

// Library answers whether a class, given by its binary name such as
// "java/util/Map$Entry", is part of the platform runtime.
type Library interface {
	Provides(binaryName string) bool
}

// Index is a set of runtime class names read from a JDK artifact.
type Index struct {
	source  string
	classes map[string]struct{}
	// sources list top-level classes only; nested names are matched by
	// their outermost class
	topLevelOnly bool
}

func newIndex(source string) *Index {
	return &Index{source: source, classes: make(map[string]struct{})}
}

func (ix *Index) add(binaryName string) {
	ix.classes[binaryName] = struct{}{}
}

func (ix *Index) Provides(binaryName string) bool {
	if ix.topLevelOnly {
		binaryName = topLevel(binaryName)
	}
	_, ok := ix.classes[binaryName]
	return ok
}

// Source is the file or directory the index was read from.
func (ix *Index) Source() string { return ix.source }

func (ix *Index) Len() int { return len(ix.classes) }

func (ix *Index) String() string { return ix.source }

func topLevel(binaryName string) string {
	slash := strings.LastIndexByte(binaryName, '/')
	if dollar := strings.IndexByte(binaryName[slash+1:], '$'); dollar > 0 {
		return binaryName[:slash+1+dollar]
	}
	return binaryName
}

// Packages treats every class below one of the listed package prefixes,
// such as "java/" or "javax/", as provided.
type Packages []string

func (p Packages) Provides(binaryName string) bool {
	for _, prefix := range p {
		if strings.HasPrefix(binaryName, prefix) {
			return true
		}
	}
	return false
}

// Chain provides a class if any of its libraries does.
type Chain []Library

func (c Chain) Provides(binaryName string) bool {
	for _, lib := range c {
		if lib.Provides(binaryName) {
			return true
		}
	}
	return false
}

type none struct{}

func (none) Provides(string) bool { return false }

// None provides nothing. Every pending reference must then be found in the
// scanned archives.
var None Library = none{}

type cached struct {
	lib   Library
	cache *lru.Cache[string, bool]
}

// Cached memoizes the answers of lib for the most recent size names.
func Cached(lib Library, size int) (Library, error) {
	cache, err := lru.New[string, bool](size)
	if err != nil {
		return nil, err
	}
	return &cached{lib: lib, cache: cache}, nil
}

func (c *cached) Provides(binaryName string) bool {
	if ok, hit := c.cache.Get(binaryName); hit {
		return ok
	}
	ok := c.lib.Provides(binaryName)
	c.cache.Add(binaryName, ok)
	return ok
}
