package classfile

import (
	"fmt"
	"io"
	"os"
)

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return ParseBytes(data)
}

func Parse(rd io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes decodes a whole class file into its tree form. Code bodies are
// dropped; only the InnerClasses and SourceFile attributes are decoded.
func ParseBytes(data []byte) (*ClassFile, error) {
	r := &reader{data: data}

	minor, major, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	cf := &ClassFile{MinorVersion: minor, MajorVersion: major}

	cf.ConstantPool, err = readConstantPool(r)
	if err != nil {
		return nil, err
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()
	interfacesCount := r.readU2()
	if r.err != nil {
		return nil, r.fail("class info", r.err)
	}
	if cf.ClassName() == "" {
		return nil, r.fail("this_class", fmt.Errorf("index %d does not name a class", cf.ThisClass))
	}

	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, r.fail("interfaces", r.err)
	}

	if cf.Fields, err = readMembers(r, cf.ConstantPool, "field"); err != nil {
		return nil, err
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool, "method"); err != nil {
		return nil, err
	}

	cf.Attributes, err = readAttributes(r, cf.ConstantPool)
	if err != nil {
		return nil, r.fail("class attributes", err)
	}
	return cf, nil
}

func readMembers(r *reader, cp ConstantPool, kind string) ([]MemberInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.fail(kind+"s count", r.err)
	}
	members := make([]MemberInfo, count)
	for i := range members {
		m, err := readMemberInfo(r, cp)
		if err != nil {
			return nil, r.fail(fmt.Sprintf("%s %d", kind, i), err)
		}
		members[i] = m
	}
	return members, nil
}

func readMemberInfo(r *reader, cp ConstantPool) (MemberInfo, error) {
	m := MemberInfo{
		AccessFlags:     AccessFlags(r.readU2()),
		NameIndex:       r.readU2(),
		DescriptorIndex: r.readU2(),
	}
	if r.err != nil {
		return MemberInfo{}, r.err
	}
	attrs, err := readAttributes(r, cp)
	if err != nil {
		return MemberInfo{}, err
	}
	m.Attributes = attrs
	return m, nil
}
