package keys

import (
	"crypto/sha256"
	"fmt"

	"github.com/cloudflare/circl/sign/bls"
	"golang.org/x/crypto/sha3"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/types"
)

const digestLabel = "verdin-spend-digest-v1"

// DigestFor hashes a message with the named algorithm. hashAlg must be one
// of: sha256, sha3-256.
func DigestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// SpendDigest is the message a spend key signs: it commits to the network's
// genesis challenge, the coin being spent, and the solution's structural
// hash, so a signature cannot be replayed for a different coin, solution,
// or network.
func SpendDigest(genesisChallenge types.Bytes32, coinID types.Bytes32, solutionHash clvm.Hash) []byte {
	h := sha256.New()
	_, _ = h.Write([]byte(digestLabel))
	_, _ = h.Write(genesisChallenge[:])
	_, _ = h.Write(coinID[:])
	_, _ = h.Write(solutionHash[:])
	return h.Sum(nil)
}

// SignSpend signs a spend digest.
func SignSpend(key *bls.PrivateKey[bls.G1], digest []byte) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("missing private key")
	}
	return bls.Sign(key, digest), nil
}

// AggregateSignatures combines per-spend signatures into the bundle
// signature.
func AggregateSignatures(sigs [][]byte) ([]byte, error) {
	if len(sigs) == 0 {
		return nil, fmt.Errorf("no signatures to aggregate")
	}
	out, err := bls.Aggregate(bls.G1{}, sigs)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyAggregate checks an aggregate signature over per-spend digests.
func VerifyAggregate(pubKeys []*bls.PublicKey[bls.G1], digests [][]byte, signature []byte) bool {
	if len(pubKeys) == 0 || len(pubKeys) != len(digests) {
		return false
	}
	return bls.VerifyAggregate(pubKeys, digests, signature)
}

// Verify checks a single-spend signature.
func Verify(pubKey *bls.PublicKey[bls.G1], digest, signature []byte) bool {
	if pubKey == nil {
		return false
	}
	return bls.Verify(pubKey, digest, signature)
}
