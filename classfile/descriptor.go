package classfile

import (
	"fmt"
	"strings"
)

// Sort classifies a Type.
type Sort uint8

const (
	SortPrimitive Sort = iota + 1
	SortObject
	SortArray
	SortMethod
)

func (s Sort) String() string {
	switch s {
	case SortPrimitive:
		return "primitive"
	case SortObject:
		return "object"
	case SortArray:
		return "array"
	case SortMethod:
		return "method"
	}
	return "invalid"
}

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// Type is a parsed JVM type descriptor. The zero value is invalid.
type Type struct {
	sort   Sort
	desc   string
	params []Type
	ret    *Type
}

// ParseType parses a field descriptor (primitive, object or array) or a
// method descriptor. The whole string must be consumed.
func ParseType(desc string) (Type, error) {
	if strings.HasPrefix(desc, "(") {
		return parseMethodType(desc)
	}
	t, next, ok := parseFieldType(desc, 0)
	if !ok || next != len(desc) {
		return Type{}, fmt.Errorf("invalid field descriptor %q", desc)
	}
	return t, nil
}

// ObjectType returns the type named by an internal name, such as
// "java/lang/String". Internal names of array classes start with '['
// and yield an array type.
func ObjectType(internalName string) Type {
	if strings.HasPrefix(internalName, "[") {
		return Type{sort: SortArray, desc: internalName}
	}
	return Type{sort: SortObject, desc: "L" + internalName + ";"}
}

// ObjectDescriptor is shorthand for ObjectType(internalName).Descriptor().
func ObjectDescriptor(internalName string) string {
	return ObjectType(internalName).Descriptor()
}

func parseMethodType(desc string) (Type, error) {
	t := Type{sort: SortMethod, desc: desc}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		p, next, ok := parseFieldType(desc, i)
		if !ok || p.sort == SortPrimitive && desc[i] == 'V' {
			return Type{}, fmt.Errorf("invalid parameter in method descriptor %q at %d", desc, i)
		}
		t.params = append(t.params, p)
		i = next
	}
	if i >= len(desc) {
		return Type{}, fmt.Errorf("unterminated parameter list in method descriptor %q", desc)
	}
	ret, next, ok := parseFieldType(desc, i+1)
	if !ok || next != len(desc) {
		return Type{}, fmt.Errorf("invalid return type in method descriptor %q", desc)
	}
	t.ret = &ret
	return t, nil
}

// parseFieldType parses one descriptor starting at start and returns the
// offset just past it. 'V' is accepted here; callers that must reject void
// check for it.
func parseFieldType(desc string, start int) (Type, int, bool) {
	i := start
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	if i >= len(desc) {
		return Type{}, 0, false
	}
	dims := i - start

	var end int
	switch c := desc[i]; {
	case c == 'L':
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon <= 1 {
			return Type{}, 0, false
		}
		end = i + semicolon + 1
	case primitiveNames[c] != "":
		if c == 'V' && dims > 0 {
			return Type{}, 0, false
		}
		end = i + 1
	default:
		return Type{}, 0, false
	}

	t := Type{desc: desc[start:end]}
	switch {
	case dims > 0:
		t.sort = SortArray
	case desc[i] == 'L':
		t.sort = SortObject
	default:
		t.sort = SortPrimitive
	}
	return t, end, true
}

func (t Type) Sort() Sort { return t.sort }

// Descriptor returns the descriptor string the type was parsed from.
func (t Type) Descriptor() string { return t.desc }

// InternalName returns the slash-separated binary name of an object type,
// or the descriptor of an array type. It is empty for other sorts.
func (t Type) InternalName() string {
	switch t.sort {
	case SortObject:
		return t.desc[1 : len(t.desc)-1]
	case SortArray:
		return t.desc
	}
	return ""
}

// Dimensions is the number of leading '[' of an array type, 0 otherwise.
func (t Type) Dimensions() int {
	if t.sort != SortArray {
		return 0
	}
	return strings.LastIndexByte(t.desc, '[') + 1
}

// ElementType strips all array dimensions. Non-array types are returned as is.
func (t Type) ElementType() Type {
	if t.sort != SortArray {
		return t
	}
	elem, _, _ := parseFieldType(t.desc, t.Dimensions())
	return elem
}

// ArgumentTypes returns the parameter types of a method type.
func (t Type) ArgumentTypes() []Type {
	return t.params
}

// ReturnType returns the return type of a method type and the zero Type for
// other sorts.
func (t Type) ReturnType() Type {
	if t.ret == nil {
		return Type{}
	}
	return *t.ret
}

// ClassName renders the type in source form: "int", "java.lang.String",
// "java.util.Map$Entry[][]". Nested classes keep their '$'.
func (t Type) ClassName() string {
	switch t.sort {
	case SortPrimitive:
		return primitiveNames[t.desc[0]]
	case SortObject:
		return InternalToSourceName(t.InternalName())
	case SortArray:
		return t.ElementType().ClassName() + strings.Repeat("[]", t.Dimensions())
	}
	return ""
}

func (t Type) String() string {
	if t.sort != SortMethod {
		return t.ClassName()
	}
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range t.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.ClassName())
	}
	sb.WriteString(") ")
	sb.WriteString(t.ret.ClassName())
	return sb.String()
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
