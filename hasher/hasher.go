// Package hasher computes 64-bit perceptual hashes of images.
package hasher

import (
	"errors"
	"fmt"
	"image"
	"math/bits"
	"strconv"
	"strings"

	"github.com/corona10/goimagehash"
)

// Bits is the size of every hash produced by this package.
const Bits = 64

// ErrUnsupportedMethod is returned for a method name that has no Hasher.
var ErrUnsupportedMethod = errors.New("unsupported hash method")

// Method names a hashing algorithm.
type Method string

const (
	PHash Method = "phash"
	DHash Method = "dhash"
	WHash Method = "whash"
	AHash Method = "ahash"
)

// Hash is a 64-bit perceptual fingerprint.
type Hash uint64

// Distance returns the Hamming distance between h and other.
func (h Hash) Distance(other Hash) int {
	return bits.OnesCount64(uint64(h ^ other))
}

// String renders the hash as 16 lowercase hex digits.
func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// ParseHash is the inverse of Hash.String.
func ParseHash(s string) (Hash, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("invalid hash %q: want 16 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return Hash(v), nil
}

// A Hasher fingerprints decoded images.
type Hasher interface {
	Method() Method
	Hash(img image.Image) (Hash, error)
}

// Methods lists the supported methods in the order they are documented.
var Methods = []Method{PHash, DHash, WHash, AHash}

// MethodNames returns the supported method names joined for help text, e.g. "phash|dhash|whash|ahash".
func MethodNames() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

// ByName returns the Hasher for a method name. Names are case-insensitive.
func ByName(name string) (Hasher, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case PHash:
		return libHasher{method: PHash, fn: goimagehash.PerceptionHash}, nil
	case DHash:
		return libHasher{method: DHash, fn: goimagehash.DifferenceHash}, nil
	case AHash:
		return libHasher{method: AHash, fn: goimagehash.AverageHash}, nil
	case WHash:
		return waveletHasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedMethod, name, MethodNames())
	}
}

// libHasher adapts a goimagehash function.
type libHasher struct {
	method Method
	fn     func(image.Image) (*goimagehash.ImageHash, error)
}

func (l libHasher) Method() Method {
	return l.method
}

func (l libHasher) Hash(img image.Image) (Hash, error) {
	h, err := l.fn(img)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l.method, err)
	}
	return Hash(h.GetHash()), nil
}
