//go:build !amd64 || !goexperiment.simd

package eval

// accumulatorAdd and accumulatorSub are the portable fallback for the
// archsimd-accelerated versions in simd_amd64.go, used on non-AMD64
// targets or builds without GOEXPERIMENT=simd. Plain per-lane arithmetic,
// computing the exact same int16 results as the vectorized path (spec.md
// §8's required SIMD/scalar score parity).
func accumulatorAdd(dst *[128]int16, row *[128]int8) {
	for i, v := range row {
		dst[i] += int16(v)
	}
}

func accumulatorSub(dst *[128]int16, row *[128]int8) {
	for i, v := range row {
		dst[i] -= int16(v)
	}
}

// dotInt16Int8 is the portable fallback for dotInt16Int8, used on
// non-AMD64 targets or builds without GOEXPERIMENT=simd. It is
// byte-for-byte the same accumulation simd_amd64.go falls back to, so
// the two build configurations are bit-identical by construction
// (spec.md §8).
func dotInt16Int8(in *[layer2In]int16, w *[layer2In]int8) int32 {
	var sum int32
	for i, v := range in {
		sum += int32(v) * int32(w[i])
	}
	return sum
}
