package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrBadMagic is wrapped by the ParseError returned for input that does not
// start with 0xCAFEBABE.
var ErrBadMagic = errors.New("invalid magic number")

// ParseError reports malformed class file input. Truncated structures wrap
// io.ErrUnexpectedEOF.
type ParseError struct {
	Offset int
	What   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("classfile: %s at offset %d: %v", e.What, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// reader decodes big-endian values from a fully buffered class file. The
// first failure sticks; later reads return zero values.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.pos {
		r.err = io.ErrUnexpectedEOF
		r.pos = len(r.data)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) readU1() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readU2() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) readU4() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// readBytes returns a slice aliasing the input.
func (r *reader) readBytes(n int) []byte {
	return r.take(n)
}

func (r *reader) skip(n int) {
	r.take(n)
}

// fail wraps err into a ParseError at the current offset. An existing
// ParseError is passed through so the innermost context wins.
func (r *reader) fail(what string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Offset: r.pos, What: what, Err: err}
}

func (r *reader) readHeader() (minor, major uint16, err error) {
	magic := r.readU4()
	if r.err != nil {
		return 0, 0, r.fail("magic", r.err)
	}
	if magic != Magic {
		return 0, 0, &ParseError{
			Offset: 0,
			What:   "magic",
			Err:    fmt.Errorf("%w: 0x%X (expected 0xCAFEBABE)", ErrBadMagic, magic),
		}
	}
	minor = r.readU2()
	major = r.readU2()
	if r.err != nil {
		return 0, 0, r.fail("version", r.err)
	}
	return minor, major, nil
}
