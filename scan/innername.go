package scan

import (
	"strings"

	"github.com/dhamidi/apitree/classfile"
)

// nameLevel is one step of a nested class name: the binary and canonical
// names of an enclosing class, or of the class itself for the last level.
type nameLevel struct {
	binaryName    string
	canonicalName string
}

// innerNameResolver collects the InnerClasses records of one class unit and
// rebuilds the chain of enclosing classes of that unit's own class.
type innerNameResolver struct {
	target  string
	records []classfile.InnerClass
}

func newInnerNameResolver(target string) *innerNameResolver {
	return &innerNameResolver{target: target}
}

// add keeps records that can take part in a chain. Anonymous and local
// classes have no simple name and never do.
func (r *innerNameResolver) add(ic classfile.InnerClass) {
	if ic.InnerName == "" {
		return
	}
	r.records = append(r.records, ic)
}

// chain returns the levels from the outermost class down to the target, or
// nil when the records do not spell out the target's name.
func (r *innerNameResolver) chain() []nameLevel {
	seed := r.seed()
	if seed < 0 {
		return nil
	}

	outer := r.records[seed].OuterName
	levels := []nameLevel{{binaryName: outer, canonicalName: classfile.InternalToSourceName(outer)}}
	binary := outer

	// Each record extends the chain by one level at most, so the walk is
	// bounded by the number of records.
	for range r.records {
		if len(binary) >= len(r.target) {
			break
		}
		next := r.extend(binary)
		if next < 0 {
			break
		}
		inner := r.records[next].InnerName
		binary = binary + "$" + inner
		levels = append(levels, nameLevel{
			binaryName:    binary,
			canonicalName: levels[len(levels)-1].canonicalName + "." + inner,
		})
		log.Debugf("inner class chain of %s: %s", r.target, levels[len(levels)-1].canonicalName)
	}

	if binary != r.target {
		log.Debugf("inner class records of %s do not reconstruct its name", r.target)
		return nil
	}
	return levels
}

// seed picks the record whose outer class is the outermost enclosing class
// of the target. Records of unrelated nested classes, such as
// java/util/Map$Entry, fail the prefix check.
func (r *innerNameResolver) seed() int {
	best := -1
	for i, ic := range r.records {
		outer := ic.OuterName
		if outer == "" || !isEnclosing(r.target, outer) || !containsAt(r.target, ic.InnerName, len(outer)+1) {
			continue
		}
		if best < 0 || len(outer) < len(r.records[best].OuterName) {
			best = i
		}
	}
	return best
}

// extend finds the first record nested directly in the class named binary
// whose simple name continues the target's name.
func (r *innerNameResolver) extend(binary string) int {
	for i, ic := range r.records {
		if ic.OuterName == binary && containsAt(r.target, ic.InnerName, len(binary)+1) {
			return i
		}
	}
	return -1
}

func isEnclosing(name, outer string) bool {
	return len(outer) < len(name) && strings.HasPrefix(name, outer) && name[len(outer)] == '$'
}

// containsAt reports whether sub occurs in s at offset pos and ends either at
// the end of s or right before a '$'.
func containsAt(s, sub string, pos int) bool {
	if pos < 0 || pos > len(s) || sub == "" {
		return false
	}
	end := pos + len(sub)
	if end > len(s) || s[pos:end] != sub {
		return false
	}
	return end == len(s) || s[end] == '$'
}
