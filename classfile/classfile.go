package classfile

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   []AttributeInfo
}

// MemberInfo is a field_info or method_info structure; both share the
// same layout.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	for i := range cf.Attributes {
		if cf.ConstantPool.GetUtf8(cf.Attributes[i].NameIndex) == name {
			return &cf.Attributes[i]
		}
	}
	return nil
}

// InnerClasses returns the resolved InnerClasses records in file order, or
// nil when the attribute is absent.
func (cf *ClassFile) InnerClasses() []InnerClass {
	attr := cf.GetAttribute(AttrInnerClasses)
	if attr == nil {
		return nil
	}
	ic, ok := attr.Parsed.(*InnerClassesAttribute)
	if !ok {
		return nil
	}
	out := make([]InnerClass, len(ic.Classes))
	for i, e := range ic.Classes {
		out[i] = e.resolve(cf.ConstantPool)
	}
	return out
}

// SourceFile returns the value of the SourceFile attribute, if any.
func (cf *ClassFile) SourceFile() string {
	attr := cf.GetAttribute(AttrSourceFile)
	if attr == nil {
		return ""
	}
	if sf, ok := attr.Parsed.(*SourceFileAttribute); ok {
		return cf.ConstantPool.GetUtf8(sf.SourceFileIndex)
	}
	return ""
}
