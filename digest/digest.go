// Package digest hashes encoded preimages. Signing schemes downstream of the
// encoder hash the canonical bytes rather than sign them directly; the
// algorithms here cover the common choices.
package digest

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"github.com/wippyai/rollup-codec/errors"
)

// Algorithm selects a digest function.
type Algorithm uint8

const (
	None Algorithm = iota
	Blake3
	SHA256
	Keccak256
)

var algorithmNames = [...]string{
	None:      "none",
	Blake3:    "blake3",
	SHA256:    "sha256",
	Keccak256: "keccak256",
}

func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("algorithm(%d)", a)
}

// Parse resolves an algorithm name. An empty name is None.
func Parse(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return None, nil
	}
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return None, errors.Unsupported(errors.PhaseEncode, "digest algorithm "+errors.Describe(s))
}

// New returns a fresh hash for a. None has no hash.
func New(a Algorithm) (hash.Hash, error) {
	switch a {
	case Blake3:
		return blake3.New(), nil
	case SHA256:
		return sha256.New(), nil
	case Keccak256:
		return sha3.NewLegacyKeccak256(), nil
	default:
		return nil, errors.Unsupported(errors.PhaseEncode, "digest algorithm "+a.String())
	}
}

// Sum returns the 32-byte digest of data.
func Sum(a Algorithm, data []byte) ([]byte, error) {
	switch a {
	case Blake3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	}
	h, err := New(a)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
