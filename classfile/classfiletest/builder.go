// Package classfiletest assembles class files and jar archives in memory
// for tests.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/dhamidi/apitree/classfile"
)

type Member struct {
	Access     classfile.AccessFlags
	Name       string
	Descriptor string
}

type InnerClass struct {
	Name      string
	OuterName string
	InnerName string
	Access    classfile.AccessFlags
}

// Class describes a class file to emit. Zero fields get defaults: super
// java/lang/Object and major version 52.
type Class struct {
	Name         string
	Super        string
	Interfaces   []string
	Access       classfile.AccessFlags
	Major        uint16
	Fields       []Member
	Methods      []Member
	InnerClasses []InnerClass
	SourceFile   string
}

func Public(name string) *Class {
	return &Class{Name: name, Access: classfile.AccPublic | classfile.AccSuper}
}

func PackagePrivate(name string) *Class {
	return &Class{Name: name, Access: classfile.AccSuper}
}

func (c *Class) Field(access classfile.AccessFlags, name, desc string) *Class {
	c.Fields = append(c.Fields, Member{Access: access, Name: name, Descriptor: desc})
	return c
}

func (c *Class) Method(access classfile.AccessFlags, name, desc string) *Class {
	c.Methods = append(c.Methods, Member{Access: access, Name: name, Descriptor: desc})
	return c
}

// Inner appends an InnerClasses record. Empty outer or inner names are
// written as index 0.
func (c *Class) Inner(name, outer, inner string, access classfile.AccessFlags) *Class {
	c.InnerClasses = append(c.InnerClasses, InnerClass{Name: name, OuterName: outer, InnerName: inner, Access: access})
	return c
}

// EntryName is the jar entry path of the class.
func (c *Class) EntryName() string {
	return c.Name + ".class"
}

type pool struct {
	buf     bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	p.buf.WriteByte(byte(classfile.ConstantUtf8))
	writeU2(&p.buf, uint16(len(s)))
	p.buf.WriteString(s)
	idx := p.count
	p.count++
	p.utf8s[s] = idx
	return idx
}

func (p *pool) class(name string) uint16 {
	if name == "" {
		return 0
	}
	if idx, ok := p.classes[name]; ok {
		return idx
	}
	nameIdx := p.utf8(name)
	p.buf.WriteByte(byte(classfile.ConstantClass))
	writeU2(&p.buf, nameIdx)
	idx := p.count
	p.count++
	p.classes[name] = idx
	return idx
}

func (p *pool) long(v int64) {
	p.buf.WriteByte(byte(classfile.ConstantLong))
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	p.buf.Write(b[:])
	p.count += 2
}

// Bytes renders the class file. Every method gets a small Code attribute
// and the pool carries a long constant, so parsers must skip both.
func (c *Class) Bytes() []byte {
	p := newPool()
	p.long(42)

	var body bytes.Buffer
	writeU2(&body, uint16(c.Access))
	writeU2(&body, p.class(c.Name))
	super := c.Super
	if super == "" {
		super = "java/lang/Object"
	}
	writeU2(&body, p.class(super))
	writeU2(&body, uint16(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		writeU2(&body, p.class(iface))
	}

	writeU2(&body, uint16(len(c.Fields)))
	for _, f := range c.Fields {
		writeU2(&body, uint16(f.Access))
		writeU2(&body, p.utf8(f.Name))
		writeU2(&body, p.utf8(f.Descriptor))
		writeU2(&body, 0)
	}

	writeU2(&body, uint16(len(c.Methods)))
	for _, m := range c.Methods {
		writeU2(&body, uint16(m.Access))
		writeU2(&body, p.utf8(m.Name))
		writeU2(&body, p.utf8(m.Descriptor))
		writeU2(&body, 1)
		writeU2(&body, p.utf8(classfile.AttrCode))
		code := []byte{0, 1, 0, 1, 0, 0, 0, 1, 0xB1, 0, 0, 0, 0}
		writeU4(&body, uint32(len(code)))
		body.Write(code)
	}

	var attrs [][]byte
	if c.SourceFile != "" {
		var a bytes.Buffer
		writeU2(&a, p.utf8(classfile.AttrSourceFile))
		writeU4(&a, 2)
		writeU2(&a, p.utf8(c.SourceFile))
		attrs = append(attrs, a.Bytes())
	}
	if len(c.InnerClasses) > 0 {
		var info bytes.Buffer
		writeU2(&info, uint16(len(c.InnerClasses)))
		for _, ic := range c.InnerClasses {
			writeU2(&info, p.class(ic.Name))
			writeU2(&info, p.class(ic.OuterName))
			var innerIdx uint16
			if ic.InnerName != "" {
				innerIdx = p.utf8(ic.InnerName)
			}
			writeU2(&info, innerIdx)
			writeU2(&info, uint16(ic.Access))
		}
		var a bytes.Buffer
		writeU2(&a, p.utf8(classfile.AttrInnerClasses))
		writeU4(&a, uint32(info.Len()))
		a.Write(info.Bytes())
		attrs = append(attrs, a.Bytes())
	}
	writeU2(&body, uint16(len(attrs)))
	for _, a := range attrs {
		body.Write(a)
	}

	major := c.Major
	if major == 0 {
		major = 52
	}
	var out bytes.Buffer
	writeU4(&out, classfile.Magic)
	writeU2(&out, 0)
	writeU2(&out, major)
	writeU2(&out, p.count)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

// Entry is a raw jar entry. Names ending in "/" are directories.
type Entry struct {
	Name string
	Data []byte
}

// Jar zips the classes in order, plus any extra entries after them.
func Jar(classes []*Class, extra ...Entry) []byte {
	entries := make([]Entry, 0, len(classes)+len(extra))
	for _, c := range classes {
		entries = append(entries, Entry{Name: c.EntryName(), Data: c.Bytes()})
	}
	return Zip(append(entries, extra...)...)
}

func Zip(entries ...Entry) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			panic(err)
		}
		if !strings.HasSuffix(e.Name, "/") {
			if _, err := w.Write(e.Data); err != nil {
				panic(err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func writeU2(b *bytes.Buffer, v uint16) {
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

func writeU4(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}
