package classfile

import "fmt"

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

// opaqueConstant stands in for entries whose payload the structural parser
// never needs (numbers, member references, dynamic call sites...). The
// payload is consumed so the pool stays aligned, then dropped.
type opaqueConstant struct {
	tag ConstantTag
}

func (c *opaqueConstant) Tag() ConstantTag { return c.tag }

// ConstantPool is indexed from 1 as in the class file; slot 0 of the
// underlying slice holds entry 1. The second slot of a long or double is nil.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return entry.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantClassInfo); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

// payloadSize is the number of bytes following the tag for entries with a
// fixed layout. Utf8 is variable and handled separately.
var payloadSize = map[ConstantTag]int{
	ConstantInteger:            4,
	ConstantFloat:              4,
	ConstantLong:               8,
	ConstantDouble:             8,
	ConstantClass:              2,
	ConstantString:             2,
	ConstantFieldref:           4,
	ConstantMethodref:          4,
	ConstantInterfaceMethodref: 4,
	ConstantNameAndType:        4,
	ConstantMethodHandle:       3,
	ConstantMethodType:         2,
	ConstantDynamic:            4,
	ConstantInvokeDynamic:      4,
	ConstantModule:             2,
	ConstantPackage:            2,
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.fail("constant pool count", r.err)
	}
	if count == 0 {
		return nil, r.fail("constant pool count", fmt.Errorf("count must be at least 1"))
	}

	cp := make(ConstantPool, count-1)
	for i := uint16(1); i < count; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, r.fail(fmt.Sprintf("constant pool entry %d", i), err)
		}
		cp[i-1] = entry
		if wide {
			// longs and doubles take two slots; the second is unusable
			i++
		}
	}
	return cp, nil
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, bool, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, false, r.err
	}

	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		bytes := r.readBytes(int(length))
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantUtf8Info{Value: decodeModifiedUtf8(bytes)}, false, nil

	case ConstantClass:
		nameIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, false, nil
	}

	size, ok := payloadSize[tag]
	if !ok {
		return nil, false, fmt.Errorf("unknown constant pool tag: %d", tag)
	}
	r.skip(size)
	if r.err != nil {
		return nil, false, r.err
	}
	return &opaqueConstant{tag: tag}, tag == ConstantLong || tag == ConstantDouble, nil
}

func decodeModifiedUtf8(bytes []byte) string {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		switch {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(bytes):
			runes = append(runes, rune(b&0x1F)<<6|rune(bytes[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(bytes):
			r := decode3(bytes[i:])
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(bytes) && bytes[i+3] == 0xED {
				low := decode3(bytes[i+3:])
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}

func decode3(b []byte) rune {
	return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
}
