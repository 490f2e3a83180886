// SPDX-License-Identifier: EPL-2.0

package utils

const (
	negativeScale float32 = 32768.0 // 0x8000
	positiveScale float32 = 32767.0 // 0x7FFF
)

// Quantize converts a float sample in [-1, 1] to signed 16-bit PCM.
//
// Values outside the range are clamped first. Negative values scale by 32768 and
// non-negative values by 32767, so -1 maps to math.MinInt16 and 1 maps to
// math.MaxInt16. The result is truncated toward zero. NaN maps to silence.
func Quantize(x float32) int16 {
	if x != x {
		return 0
	}

	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(x * negativeScale)
	}

	return int16(x * positiveScale)
}

// QuantizeSamples quantizes min(len(dst), len(src)) samples from src into dst
// and returns the number converted.
func QuantizeSamples(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Quantize(src[i])
	}

	return n
}
