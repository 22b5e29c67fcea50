package classfile

import "fmt"

// Visitor receives the structural facts of one class file in physical file
// order: VisitClass first, then fields, then methods, then the InnerClasses
// records, then VisitEnd.
type Visitor interface {
	VisitClass(h ClassHeader)
	VisitField(f Field)
	VisitMethod(m Method)
	VisitInnerClass(ic InnerClass)
	VisitEnd()
}

// NopVisitor ignores every event. Embed it to implement only some methods.
type NopVisitor struct{}

func (NopVisitor) VisitClass(ClassHeader)     {}
func (NopVisitor) VisitField(Field)           {}
func (NopVisitor) VisitMethod(Method)         {}
func (NopVisitor) VisitInnerClass(InnerClass) {}
func (NopVisitor) VisitEnd()                  {}

type ClassHeader struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  AccessFlags
	Name         string
	SuperName    string
	Interfaces   []string
}

type Field struct {
	AccessFlags AccessFlags
	Name        string
	Type        Type
}

func (f Field) Descriptor() string { return f.Type.Descriptor() }

type Method struct {
	AccessFlags AccessFlags
	Name        string
	Type        Type
}

func (m Method) Descriptor() string { return m.Type.Descriptor() }

func (m Method) ReturnDescriptor() string { return m.Type.ReturnType().Descriptor() }

func (m Method) ParameterDescriptors() []string {
	params := m.Type.ArgumentTypes()
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Descriptor()
	}
	return out
}

// Accept decodes data and reports its structure to v without retaining the
// class file. Code, signatures and annotations are skipped. Events already
// delivered before a ParseError are not retracted.
func Accept(data []byte, v Visitor) error {
	r := &reader{data: data}

	minor, major, err := r.readHeader()
	if err != nil {
		return err
	}
	cp, err := readConstantPool(r)
	if err != nil {
		return err
	}

	h := ClassHeader{
		MinorVersion: minor,
		MajorVersion: major,
		AccessFlags:  AccessFlags(r.readU2()),
	}
	thisClass := r.readU2()
	superClass := r.readU2()
	interfacesCount := int(r.readU2())
	if r.err != nil {
		return r.fail("class info", r.err)
	}
	if h.Name = cp.GetClassName(thisClass); h.Name == "" {
		return r.fail("this_class", fmt.Errorf("index %d does not name a class", thisClass))
	}
	h.SuperName = cp.GetClassName(superClass)
	for i := 0; i < interfacesCount; i++ {
		h.Interfaces = append(h.Interfaces, cp.GetClassName(r.readU2()))
	}
	if r.err != nil {
		return r.fail("interfaces", r.err)
	}
	v.VisitClass(h)

	fieldsCount := int(r.readU2())
	for i := 0; i < fieldsCount; i++ {
		flags, name, t, err := acceptMember(r, cp, false)
		if err != nil {
			return r.fail(fmt.Sprintf("field %d", i), err)
		}
		v.VisitField(Field{AccessFlags: flags, Name: name, Type: t})
	}
	if r.err != nil {
		return r.fail("fields count", r.err)
	}

	methodsCount := int(r.readU2())
	for i := 0; i < methodsCount; i++ {
		flags, name, t, err := acceptMember(r, cp, true)
		if err != nil {
			return r.fail(fmt.Sprintf("method %d", i), err)
		}
		v.VisitMethod(Method{AccessFlags: flags, Name: name, Type: t})
	}
	if r.err != nil {
		return r.fail("methods count", r.err)
	}

	attributesCount := int(r.readU2())
	for i := 0; i < attributesCount; i++ {
		nameIndex := r.readU2()
		info := r.readBytes(int(r.readU4()))
		if r.err != nil {
			return r.fail(fmt.Sprintf("class attribute %d", i), r.err)
		}
		if cp.GetUtf8(nameIndex) != AttrInnerClasses {
			continue
		}
		ic, err := parseInnerClassesAttribute(info)
		if err != nil {
			return r.fail(AttrInnerClasses, err)
		}
		for _, e := range ic.Classes {
			v.VisitInnerClass(e.resolve(cp))
		}
	}
	if r.err != nil {
		return r.fail("class attributes count", r.err)
	}

	v.VisitEnd()
	return nil
}

func acceptMember(r *reader, cp ConstantPool, method bool) (AccessFlags, string, Type, error) {
	flags := AccessFlags(r.readU2())
	name := cp.GetUtf8(r.readU2())
	desc := cp.GetUtf8(r.readU2())
	attributesCount := int(r.readU2())
	for i := 0; i < attributesCount; i++ {
		r.skip(2)
		r.skip(int(r.readU4()))
	}
	if r.err != nil {
		return 0, "", Type{}, r.err
	}

	t, err := ParseType(desc)
	if err != nil {
		return 0, "", Type{}, err
	}
	if method != (t.Sort() == SortMethod) {
		return 0, "", Type{}, fmt.Errorf("descriptor %q has sort %s", desc, t.Sort())
	}
	if !method && t.Descriptor() == "V" {
		return 0, "", Type{}, fmt.Errorf("field descriptor cannot be void")
	}
	return flags, name, t, nil
}
