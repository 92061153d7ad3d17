package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// CoinSpend is the atomic broadcastable unit: a coin together with the full
// reveal of its puzzle and the solution it is spent with. Both reveals are
// serialized CLVM. Immutable once constructed.
type CoinSpend struct {
	Coin         Coin
	PuzzleReveal []byte
	Solution     []byte
}

// SpendBundle is a batch of coin spends plus one aggregate signature over
// all of their spend digests.
type SpendBundle struct {
	Spends    []CoinSpend
	Signature []byte
}

// Binary framing for the gRPC boundary and the store: fixed-width coin
// fields, 4-byte big-endian length prefixes for variable parts.

func writeBytes(buf *bytes.Buffer, b []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	buf.Write(n[:])
	buf.Write(b)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	// io.ReadFull throughout: a plain Read at the tail of the buffer can
	// return n < len with a nil error, silently accepting truncation.
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, fmt.Errorf("types: truncated length prefix")
	}
	size := binary.BigEndian.Uint32(n[:])
	if uint64(size) > uint64(r.Len()) {
		return nil, fmt.Errorf("types: length prefix %d exceeds remaining %d", size, r.Len())
	}
	b := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("types: truncated value")
		}
	}
	return b, nil
}

func writeCoin(buf *bytes.Buffer, c Coin) {
	buf.Write(c.ParentCoinID[:])
	buf.Write(c.PuzzleHash[:])
	var a [8]byte
	binary.BigEndian.PutUint64(a[:], c.Amount)
	buf.Write(a[:])
}

func readCoin(r *bytes.Reader) (Coin, error) {
	var c Coin
	if _, err := io.ReadFull(r, c.ParentCoinID[:]); err != nil {
		return c, fmt.Errorf("types: truncated coin parent")
	}
	if _, err := io.ReadFull(r, c.PuzzleHash[:]); err != nil {
		return c, fmt.Errorf("types: truncated coin puzzle hash")
	}
	var a [8]byte
	if _, err := io.ReadFull(r, a[:]); err != nil {
		return c, fmt.Errorf("types: truncated coin amount")
	}
	c.Amount = binary.BigEndian.Uint64(a[:])
	return c, nil
}

// MarshalBinary encodes the coin into its 72-byte fixed form.
func (c Coin) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeCoin(&buf, c)
	return buf.Bytes(), nil
}

// CoinFromBytes decodes a 72-byte coin.
func CoinFromBytes(b []byte) (Coin, error) {
	if len(b) != 72 {
		return Coin{}, fmt.Errorf("types: coin must be 72 bytes, got %d", len(b))
	}
	return readCoin(bytes.NewReader(b))
}

// MarshalBinary encodes the coin state.
func (s CoinState) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeCoin(&buf, s.Coin)
	writeOptHeight(&buf, s.CreatedHeight)
	writeOptHeight(&buf, s.SpentHeight)
	return buf.Bytes(), nil
}

// CoinStateFromBytes decodes a coin state.
func CoinStateFromBytes(b []byte) (CoinState, error) {
	r := bytes.NewReader(b)
	coin, err := readCoin(r)
	if err != nil {
		return CoinState{}, err
	}
	created, err := readOptHeight(r)
	if err != nil {
		return CoinState{}, err
	}
	spent, err := readOptHeight(r)
	if err != nil {
		return CoinState{}, err
	}
	if r.Len() != 0 {
		return CoinState{}, fmt.Errorf("types: trailing bytes after coin state")
	}
	return CoinState{Coin: coin, CreatedHeight: created, SpentHeight: spent}, nil
}

func writeOptHeight(buf *bytes.Buffer, h *uint32) {
	if h == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	var v [4]byte
	binary.BigEndian.PutUint32(v[:], *h)
	buf.Write(v[:])
}

func readOptHeight(r *bytes.Reader) (*uint32, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("types: truncated height tag")
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		var v [4]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return nil, fmt.Errorf("types: truncated height")
		}
		h := binary.BigEndian.Uint32(v[:])
		return &h, nil
	default:
		return nil, fmt.Errorf("types: invalid height tag %d", tag)
	}
}

// MarshalBinary encodes the spend.
func (s CoinSpend) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeCoin(&buf, s.Coin)
	writeBytes(&buf, s.PuzzleReveal)
	writeBytes(&buf, s.Solution)
	return buf.Bytes(), nil
}

// MarshalBinary encodes the bundle.
func (b SpendBundle) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b.Spends)))
	buf.Write(n[:])
	for _, s := range b.Spends {
		writeCoin(&buf, s.Coin)
		writeBytes(&buf, s.PuzzleReveal)
		writeBytes(&buf, s.Solution)
	}
	writeBytes(&buf, b.Signature)
	return buf.Bytes(), nil
}

// SpendBundleFromBytes decodes a bundle and rejects trailing bytes.
func SpendBundleFromBytes(data []byte) (SpendBundle, error) {
	r := bytes.NewReader(data)
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return SpendBundle{}, fmt.Errorf("types: truncated spend count")
	}
	count := binary.BigEndian.Uint32(n[:])
	var bundle SpendBundle
	for i := uint32(0); i < count; i++ {
		coin, err := readCoin(r)
		if err != nil {
			return SpendBundle{}, err
		}
		puzzle, err := readBytes(r)
		if err != nil {
			return SpendBundle{}, err
		}
		solution, err := readBytes(r)
		if err != nil {
			return SpendBundle{}, err
		}
		bundle.Spends = append(bundle.Spends, CoinSpend{Coin: coin, PuzzleReveal: puzzle, Solution: solution})
	}
	sig, err := readBytes(r)
	if err != nil {
		return SpendBundle{}, err
	}
	if len(sig) > 0 {
		bundle.Signature = sig
	}
	if r.Len() != 0 {
		return SpendBundle{}, fmt.Errorf("types: trailing bytes after bundle")
	}
	return bundle, nil
}
