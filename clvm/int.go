package clvm

import "fmt"

// EncodeUint returns the minimal signed big-endian encoding of v, the form
// CLVM uses for integers. Zero encodes as the empty atom; values whose top
// bit would be set get a leading zero byte so they stay non-negative.
func EncodeUint(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [9]byte
	i := 9
	for v > 0 {
		i--
		buf[i] = byte(v)
		v >>= 8
	}
	if buf[i]&0x80 != 0 {
		i--
		buf[i] = 0
	}
	out := make([]byte, 9-i)
	copy(out, buf[i:])
	return out
}

// DecodeUint parses a minimally encoded non-negative integer.
func DecodeUint(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if b[0]&0x80 != 0 {
		return 0, fmt.Errorf("clvm: negative integer")
	}
	if b[0] == 0 && (len(b) == 1 || b[1]&0x80 == 0) {
		return 0, fmt.Errorf("clvm: non-minimal integer encoding")
	}
	start := 0
	if b[0] == 0 {
		start = 1
	}
	if len(b)-start > 8 {
		return 0, fmt.Errorf("clvm: integer does not fit in 64 bits")
	}
	var v uint64
	for _, c := range b[start:] {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// Uint returns an atom holding the minimal encoding of v.
func Uint(v uint64) *Node {
	return &Node{atom: EncodeUint(v)}
}

// AtomUint decodes an atom node as a non-negative 64-bit integer.
func AtomUint(n *Node) (uint64, error) {
	b, ok := n.AtomBytes()
	if !ok {
		return 0, fmt.Errorf("clvm: expected atom, got pair")
	}
	return DecodeUint(b)
}
