package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// errShort is returned by reader methods when fewer bytes remain than requested.
var errShort = errors.New("unexpected end of data")

// reader is a little-endian cursor over an in-memory transducer image.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// Position returns the current byte offset.
func (r *reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, errShort
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytes reads exactly n bytes without copying.
func (r *reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadU8 reads a single byte.
func (r *reader) ReadU8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (r *reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (r *reader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// ReadCString reads a NUL-terminated UTF-8 string and consumes the terminator.
func (r *reader) ReadCString() (string, error) {
	end := bytes.IndexByte(r.buf[r.pos:], 0)
	if end < 0 {
		return "", errShort
	}
	s := r.buf[r.pos : r.pos+end]
	if !utf8.Valid(s) {
		return "", fmt.Errorf("symbol at byte %d is not valid UTF-8", r.pos)
	}
	r.pos += end + 1
	return string(s), nil
}
