package classfile

import (
	"encoding/binary"
	"fmt"
)

type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    interface{}
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

// InnerClass is one InnerClasses record with its constant pool references
// resolved. OuterName is empty for local and anonymous classes, InnerName
// is empty for anonymous classes.
type InnerClass struct {
	Name        string
	OuterName   string
	InnerName   string
	AccessFlags AccessFlags
}

func (e InnerClassEntry) resolve(cp ConstantPool) InnerClass {
	return InnerClass{
		Name:        cp.GetClassName(e.InnerClassInfoIndex),
		OuterName:   cp.GetClassName(e.OuterClassInfoIndex),
		InnerName:   cp.GetUtf8(e.InnerNameIndex),
		AccessFlags: e.InnerClassAccessFlags,
	}
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, 0, count)
	for i := uint16(0); i < count; i++ {
		attr, err := readAttributeInfo(r, cp)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func readAttributeInfo(r *reader, cp ConstantPool) (AttributeInfo, error) {
	nameIndex := r.readU2()
	length := r.readU4()
	info := r.readBytes(int(length))
	if r.err != nil {
		return AttributeInfo{}, r.err
	}

	attr := AttributeInfo{NameIndex: nameIndex, Info: info}
	var err error
	switch cp.GetUtf8(nameIndex) {
	case AttrInnerClasses:
		attr.Parsed, err = parseInnerClassesAttribute(info)
	case AttrSourceFile:
		attr.Parsed, err = parseSourceFileAttribute(info)
	case AttrCode:
		// code bodies are never decoded
		attr.Info = nil
	}
	return attr, err
}

func parseSourceFileAttribute(info []byte) (*SourceFileAttribute, error) {
	if len(info) < 2 {
		return nil, fmt.Errorf("SourceFile: %d bytes, want 2", len(info))
	}
	return &SourceFileAttribute{SourceFileIndex: binary.BigEndian.Uint16(info)}, nil
}

func parseInnerClassesAttribute(info []byte) (*InnerClassesAttribute, error) {
	if len(info) < 2 {
		return nil, fmt.Errorf("InnerClasses: missing class count")
	}
	count := int(binary.BigEndian.Uint16(info))
	if len(info) < 2+count*8 {
		return nil, fmt.Errorf("InnerClasses: %d records need %d bytes, have %d", count, 2+count*8, len(info))
	}
	attr := &InnerClassesAttribute{Classes: make([]InnerClassEntry, count)}
	for i := 0; i < count; i++ {
		off := 2 + i*8
		attr.Classes[i] = InnerClassEntry{
			InnerClassInfoIndex:   binary.BigEndian.Uint16(info[off:]),
			OuterClassInfoIndex:   binary.BigEndian.Uint16(info[off+2:]),
			InnerNameIndex:        binary.BigEndian.Uint16(info[off+4:]),
			InnerClassAccessFlags: AccessFlags(binary.BigEndian.Uint16(info[off+6:])),
		}
	}
	return attr, nil
}
