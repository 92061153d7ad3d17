package clvm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Wire form:
//   - 0xFF introduces a pair, followed by the serialized first then rest.
//   - 0x80 is the empty atom.
//   - a single byte below 0x80 is a one-byte atom holding that byte.
//   - longer atoms carry a size prefix whose leading ones count encodes the
//     number of size bytes (0x80|len up to 0x3F, 0xC0.. two bytes, and so on
//     up to five size bytes).

var (
	// ErrTruncated is returned when input ends inside a value.
	ErrTruncated = errors.New("clvm: truncated serialization")
	// ErrTrailing is returned by Deserialize when bytes remain after the value.
	ErrTrailing = errors.New("clvm: trailing bytes after serialized value")
)

// Serialize renders n into its deterministic wire form.
func Serialize(n *Node) []byte {
	var buf bytes.Buffer
	writeNode(&buf, n)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node) {
	if n.pair {
		buf.WriteByte(0xFF)
		writeNode(buf, n.first)
		writeNode(buf, n.rest)
		return
	}
	writeAtom(buf, n.atom)
}

func writeAtom(buf *bytes.Buffer, b []byte) {
	size := uint64(len(b))
	switch {
	case size == 0:
		buf.WriteByte(0x80)
		return
	case size == 1 && b[0] < 0x80:
		buf.WriteByte(b[0])
		return
	case size <= 0x3F:
		buf.WriteByte(0x80 | byte(size))
	case size <= 0x1FFF:
		buf.WriteByte(0xC0 | byte(size>>8))
		buf.WriteByte(byte(size))
	case size <= 0xFFFFF:
		buf.WriteByte(0xE0 | byte(size>>16))
		buf.WriteByte(byte(size >> 8))
		buf.WriteByte(byte(size))
	case size <= 0x7FFFFFF:
		buf.WriteByte(0xF0 | byte(size>>24))
		buf.WriteByte(byte(size >> 16))
		buf.WriteByte(byte(size >> 8))
		buf.WriteByte(byte(size))
	default:
		buf.WriteByte(0xF8 | byte(size>>32))
		buf.WriteByte(byte(size >> 24))
		buf.WriteByte(byte(size >> 16))
		buf.WriteByte(byte(size >> 8))
		buf.WriteByte(byte(size))
	}
	buf.Write(b)
}

// Deserialize parses exactly one value and rejects trailing bytes.
func Deserialize(b []byte) (*Node, error) {
	r := bytes.NewReader(b)
	n, err := readNode(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrTrailing
	}
	return n, nil
}

func readNode(r *bytes.Reader) (*Node, error) {
	c, err := r.ReadByte()
	if err != nil {
		return nil, ErrTruncated
	}
	if c == 0xFF {
		first, err := readNode(r)
		if err != nil {
			return nil, err
		}
		rest, err := readNode(r)
		if err != nil {
			return nil, err
		}
		return Pair(first, rest), nil
	}
	if c == 0x80 {
		return Nil(), nil
	}
	if c < 0x80 {
		return &Node{atom: []byte{c}}, nil
	}
	var sizeBytes int
	var size uint64
	switch {
	case c&0xC0 == 0x80:
		size = uint64(c & 0x3F)
	case c&0xE0 == 0xC0:
		sizeBytes, size = 1, uint64(c&0x1F)
	case c&0xF0 == 0xE0:
		sizeBytes, size = 2, uint64(c&0x0F)
	case c&0xF8 == 0xF0:
		sizeBytes, size = 3, uint64(c&0x07)
	case c&0xFC == 0xF8:
		sizeBytes, size = 4, uint64(c&0x03)
	default:
		return nil, fmt.Errorf("clvm: invalid atom size prefix 0x%02x", c)
	}
	for i := 0; i < sizeBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, ErrTruncated
		}
		size = size<<8 | uint64(b)
	}
	if size > uint64(r.Len()) {
		return nil, ErrTruncated
	}
	atom := make([]byte, size)
	if _, err := io.ReadFull(r, atom); err != nil {
		return nil, ErrTruncated
	}
	return &Node{atom: atom}, nil
}
