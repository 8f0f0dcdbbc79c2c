//go:build goexperiment.simd && amd64

package eval

import "simd/archsimd"

// simdInt16Width is the number of int16 lanes archsimd.Int16x16 processes
// per instruction (256-bit AVX2), matching the teacher's sfnnue/simd.go.
const simdInt16Width = 16

// accumulatorAdd and accumulatorSub are the real SIMD hot path spec.md §4.4
// singles out: every incremental Make/Unmake touches the 128-wide
// accumulator, so this is where vectorizing actually matters, unlike the
// layer-2 dot product below. Grounded directly in the teacher's
// sfnnue/simd.go SIMDAddInt16/SIMDSubInt16 (archsimd.LoadInt16x16 /
// .Add()/.Sub() / StoreInt16x16 over 16-wide lanes). Go's experimental simd
// package has no int8->int16 widening load, so the embedding row is widened
// with a short scalar loop first; the actual add/sub against the
// accumulator — the part executed once per incremental update rather than
// once per weight load — runs on the vector unit. 128 is an exact multiple
// of simdInt16Width, so there is no scalar remainder to handle.
func accumulatorAdd(dst *[128]int16, row *[128]int8) {
	var wide [128]int16
	for i, v := range row {
		wide[i] = int16(v)
	}
	for i := 0; i < 128; i += simdInt16Width {
		d := archsimd.LoadInt16x16(dst[i:])
		s := archsimd.LoadInt16x16(wide[i:])
		archsimd.StoreInt16x16(dst[i:], d.Add(s))
	}
}

func accumulatorSub(dst *[128]int16, row *[128]int8) {
	var wide [128]int16
	for i, v := range row {
		wide[i] = int16(v)
	}
	for i := 0; i < 128; i += simdInt16Width {
		d := archsimd.LoadInt16x16(dst[i:])
		s := archsimd.LoadInt16x16(wide[i:])
		archsimd.StoreInt16x16(dst[i:], d.Sub(s))
	}
}

// dotInt16Int8 computes the dot product of a 256-wide clipped-activation
// vector against an int8 weight row. Grounded in the teacher's
// sfnnue/simd.go SIMDDotProductInt8Uint8: Go's experimental simd package
// has no native int16*int8 widening multiply-accumulate op, so the
// teacher's own SIMD build falls back to a scalar accumulation loop here
// too (that fallback is exactly what simd.go does for its int8*uint8 dot
// product). Kept as its own build-tagged file, rather than folded into
// simd_scalar.go, so the two build configurations stay structurally
// separate per spec.md §8's required bit-identical-but-independent
// SIMD/scalar parity property.
func dotInt16Int8(in *[layer2In]int16, w *[layer2In]int8) int32 {
	var sum int32
	for i, v := range in {
		sum += int32(v) * int32(w[i])
	}
	return sum
}
