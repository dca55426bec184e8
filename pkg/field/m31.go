// Package field implements arithmetic over the Mersenne-31 prime field and
// its cubic and quartic extensions, as used by the circle-FFT and Poseidon2
// primitives in pkg/circle and pkg/poseidon2.
package field

import (
	"encoding/json"
	"fmt"
)

// P is the Mersenne-31 prime, 2^31 - 1.
const P uint32 = (1 << 31) - 1

// Elem is an element of the Mersenne-31 field. The internal representation
// is not required to be canonical; call Canonical or Uint32 to normalize.
type Elem struct {
	v uint32
}

// Zero is the additive identity.
var Zero = Elem{0}

// One is the multiplicative identity.
var One = Elem{1}

// New constructs a field element, reducing v modulo P.
func New(v uint32) Elem {
	return Elem{reduce32(v)}
}

// FromUint64 reduces an arbitrary uint64 modulo P.
func FromUint64(v uint64) Elem {
	return Elem{reduce64(v)}
}

// FromInt64 reduces a signed value modulo P, wrapping negatives.
func FromInt64(v int64) Elem {
	m := int64(P)
	v %= m
	if v < 0 {
		v += m
	}
	return Elem{uint32(v)}
}

func reduce32(v uint32) uint32 {
	v = (v & P) + (v >> 31)
	if v >= P {
		v -= P
	}
	return v
}

func reduce64(v uint64) uint32 {
	// Mersenne reduction: v = hi*2^31 + lo  =>  v mod P = hi + lo (mod P)
	lo := uint32(v & uint64(P))
	hi := uint32(v >> 31)
	return reduce32(lo + hi)
}

// Canonical returns v reduced into [0, P).
func (e Elem) Canonical() Elem {
	v := e.v
	if v >= P {
		v -= P
	}
	return Elem{v}
}

// Uint32 returns the canonical representative in [0, P).
func (e Elem) Uint32() uint32 {
	return e.Canonical().v
}

// IsZero reports whether e is the canonical zero element.
func (e Elem) IsZero() bool {
	return e.Uint32() == 0
}

// MarshalJSON encodes the canonical representative as a JSON number, so
// wire types built on Elem (commitments, digests) serialize and round-trip
// without exposing the unreduced internal representation.
func (e Elem) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Uint32())
}

// UnmarshalJSON reduces the decoded value modulo P via New.
func (e *Elem) UnmarshalJSON(data []byte) error {
	var v uint32
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = New(v)
	return nil
}

// GobEncode implements gob.GobEncoder via the canonical uint32 form, since
// Elem's unexported field would otherwise leave gob nothing to encode.
func (e Elem) GobEncode() ([]byte, error) {
	v := e.Uint32()
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}, nil
}

// GobDecode implements gob.GobDecoder, the inverse of GobEncode.
func (e *Elem) GobDecode(data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("field: gob decode elem: expected 4 bytes, got %d", len(data))
	}
	v := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	*e = New(v)
	return nil
}

// Equal reports canonical equality.
func (e Elem) Equal(o Elem) bool {
	return e.Uint32() == o.Uint32()
}

// Add returns e + o.
func (e Elem) Add(o Elem) Elem {
	return Elem{reduce32(e.v + o.v)}
}

// Sub returns e - o.
func (e Elem) Sub(o Elem) Elem {
	a := e.Canonical().v
	b := o.Canonical().v
	if a >= b {
		return Elem{a - b}
	}
	return Elem{P - (b - a)}
}

// Neg returns -e.
func (e Elem) Neg() Elem {
	return Zero.Sub(e)
}

// Mul returns e * o.
func (e Elem) Mul(o Elem) Elem {
	return Elem{reduce64(uint64(e.Canonical().v) * uint64(o.Canonical().v))}
}

// Square returns e * e.
func (e Elem) Square() Elem {
	return e.Mul(e)
}

// Double returns e + e.
func (e Elem) Double() Elem {
	return e.Add(e)
}

// Exp returns e^n via square-and-multiply.
func (e Elem) Exp(n uint64) Elem {
	result := One
	base := e
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Square()
		n >>= 1
	}
	return result
}

// Inverse returns the multiplicative inverse of e via Fermat's little
// theorem (e^(P-2)). Panics if e is zero.
func (e Elem) Inverse() Elem {
	if e.IsZero() {
		panic("field: inverse of zero")
	}
	return e.Exp(uint64(P - 2))
}

// BatchInverse computes the inverse of every element of xs using a single
// field inversion (the Montgomery trick).
func BatchInverse(xs []Elem) []Elem {
	n := len(xs)
	out := make([]Elem, n)
	if n == 0 {
		return out
	}
	prefix := make([]Elem, n)
	acc := One
	for i, x := range xs {
		prefix[i] = acc
		acc = acc.Mul(x)
	}
	accInv := acc.Inverse()
	for i := n - 1; i >= 0; i-- {
		out[i] = accInv.Mul(prefix[i])
		accInv = accInv.Mul(xs[i])
	}
	return out
}
