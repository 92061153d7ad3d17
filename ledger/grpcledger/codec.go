package grpcledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"verdin.dev/verdin/types"
)

// Wire payloads ride in BytesValue wrappers and reuse the types package's
// binary codec. Fixed-size records (coins, mint requests) concatenate;
// variable-size records (coin states) carry a 4-byte length prefix each.

const (
	coinRecordSize    = 72
	mintRequestSize   = 40
	coinIDRequestSize = 32
)

func encodeMintRequest(puzzleHash types.Bytes32, amount uint64) []byte {
	out := make([]byte, mintRequestSize)
	copy(out, puzzleHash[:])
	binary.BigEndian.PutUint64(out[32:], amount)
	return out
}

func decodeMintRequest(b []byte) (types.Bytes32, uint64, error) {
	if len(b) != mintRequestSize {
		return types.Bytes32{}, 0, fmt.Errorf("grpcledger: mint request must be %d bytes, got %d", mintRequestSize, len(b))
	}
	ph, err := types.Bytes32FromBytes(b[:32])
	if err != nil {
		return types.Bytes32{}, 0, err
	}
	return ph, binary.BigEndian.Uint64(b[32:]), nil
}

func encodeCoins(coins []types.Coin) ([]byte, error) {
	var buf bytes.Buffer
	for _, c := range coins {
		b, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func decodeCoins(b []byte) ([]types.Coin, error) {
	if len(b)%coinRecordSize != 0 {
		return nil, fmt.Errorf("grpcledger: coin list length %d is not a multiple of %d", len(b), coinRecordSize)
	}
	out := make([]types.Coin, 0, len(b)/coinRecordSize)
	for off := 0; off < len(b); off += coinRecordSize {
		c, err := types.CoinFromBytes(b[off : off+coinRecordSize])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func encodeCoinStates(states []types.CoinState) ([]byte, error) {
	var buf bytes.Buffer
	for _, st := range states {
		b, err := st.MarshalBinary()
		if err != nil {
			return nil, err
		}
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(b)))
		buf.Write(size[:])
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func decodeCoinStates(b []byte) ([]types.CoinState, error) {
	var out []types.CoinState
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, fmt.Errorf("grpcledger: truncated coin state list")
		}
		size := int(binary.BigEndian.Uint32(b))
		b = b[4:]
		if len(b) < size {
			return nil, fmt.Errorf("grpcledger: truncated coin state record")
		}
		st, err := types.CoinStateFromBytes(b[:size])
		if err != nil {
			return nil, err
		}
		out = append(out, st)
		b = b[size:]
	}
	return out, nil
}
