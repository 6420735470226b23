// Package rodata names and materializes the fixed read-only constants the
// emitter's SSE conversion sequences reference (spec §6's "Synthesized
// symbol names": __sse32_zero_checker, __sse64_zero_checker,
// __sse32_i64_limit, __sse64_i64_limit).
package rodata

import (
	"encoding/binary"
	"math"
)

func ZeroCheckerLabel(single bool) string {
	if single {
		return "__sse32_zero_checker"
	}
	return "__sse64_zero_checker"
}

// ZeroCheckerMask is the 16-byte ptest mask clearing the sign bit of a
// single float/double lane (spec §4.6: "a constant 16-byte mask
// (0x7FFFFFFF or 0x7FFFFFFFFFFFFFFF, rest zero)").
func ZeroCheckerMask(single bool) []byte {
	buf := make([]byte, 16)
	if single {
		binary.LittleEndian.PutUint32(buf[0:4], 0x7FFFFFFF)
	} else {
		binary.LittleEndian.PutUint64(buf[0:8], 0x7FFFFFFFFFFFFFFF)
	}
	return buf
}

func I64LimitLabel(single bool) string {
	if single {
		return "__sse32_i64_limit"
	}
	return "__sse64_i64_limit"
}

// I64LimitBytes is 2^63 represented as the corresponding float/double
// (spec §4.6's SSE↔u64 boundary constant).
func I64LimitBytes(single bool) []byte {
	const limit = 9223372036854775808.0 // 2^63
	if single {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(limit)))
		return buf
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(limit))
	return buf
}
