// Package cconst evaluates constant expressions (spec §4.3): integer
// literals, arithmetic, `sizeof` of a complete type, enumeration constants,
// and address constants (an identifier of static storage, a compound
// literal, or `&` of same, optionally offset by pointer arithmetic with an
// integer constant). A string literal is not accepted as an address
// constant: Eval reports an error for it. Evaluation either succeeds with a
// Value or fails with an error string describing which leaf disqualified
// the subtree from being a constant expression.
package cconst

import (
	"encoding/binary"
	"math"

	"github.com/ripleymj/ecc/internal/symtab"
)

// Kind discriminates a Value's active field, the "integer / arithmetic /
// address / error sum type" of spec §4.3.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindAddress
)

// IntClass identifies the integer class a KindInteger Value was computed in,
// so conversion between integer classes can reduce modulo the target
// width with the right signedness (spec §4.3: "conversion between integer
// classes preserving value modulo target width with signedness semantics").
type IntClass uint8

const (
	IntBool IntClass = iota
	IntChar
	IntSChar
	IntUChar
	IntShort
	IntUShort
	IntInt
	IntUInt
	IntLong
	IntULong
	IntLongLong
	IntULongLong
)

// widthBits is the bit width of each integer class on the target (LP64
// System V AMD64, per spec §4.6's frame-layout section).
var widthBits = [...]uint{
	IntBool: 8, IntChar: 8, IntSChar: 8, IntUChar: 8,
	IntShort: 16, IntUShort: 16,
	IntInt: 32, IntUInt: 32,
	IntLong: 64, IntULong: 64,
	IntLongLong: 64, IntULongLong: 64,
}

var classSigned = [...]bool{
	IntBool: false, IntChar: true, IntSChar: true, IntUChar: false,
	IntShort: true, IntUShort: false,
	IntInt: true, IntUInt: false,
	IntLong: true, IntULong: false,
	IntLongLong: true, IntULongLong: false,
}

// Value is a fully evaluated constant expression.
type Value struct {
	Kind Kind

	// KindInteger
	IntClass IntClass
	Int      uint64 // raw bit pattern, Class determines interpretation

	// KindFloat
	Float    float64
	IsSingle bool

	// KindAddress: target + signed byte addend, e.g. &arr[3] or a bare
	// string-literal/compound-literal/static-object reference (Addend 0).
	Target symtab.Ref
	Addend int64
}

// Int64 returns v's integer value sign-extended per its class. Only valid
// when v.Kind == KindInteger.
func (v Value) Int64() int64 {
	bits := widthBits[v.IntClass]
	if bits == 64 {
		return int64(v.Int)
	}
	mask := uint64(1)<<bits - 1
	x := v.Int & mask
	if classSigned[v.IntClass] && x&(1<<(bits-1)) != 0 {
		x |= ^mask
	}
	return int64(x)
}

// ConvertInt reduces v (KindInteger) to a new integer class, truncating
// modulo the target width and reinterpreting signedness (spec §4.3).
func ConvertInt(v Value, to IntClass) Value {
	bits := widthBits[to]
	mask := uint64(1)
	if bits < 64 {
		mask = uint64(1)<<bits - 1
	} else {
		mask = ^uint64(0)
	}
	return Value{Kind: KindInteger, IntClass: to, Int: v.Int & mask}
}

// IsZero reports whether v is the integer constant zero, the core of
// null-pointer-constant recognition (spec §4.5: "an integer constant
// expression equal to zero").
func (v Value) IsZero() bool {
	return v.Kind == KindInteger && v.Int == 0
}

// Bytes serializes v in little-endian order (the target is x86-64) into
// exactly n bytes, as required to memcpy a constant into a static
// initializer's data buffer (spec §4.5: "Arithmetic/integer values are
// memcpy'd at the computed offset").
func Bytes(v Value, n int) []byte {
	out := make([]byte, n)
	switch v.Kind {
	case KindInteger:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v.Int)
		copy(out, buf[:])
	case KindFloat:
		if v.IsSingle {
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v.Float)))
			copy(out, buf[:])
		} else {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.Float))
			copy(out, buf[:])
		}
	}
	return out
}
