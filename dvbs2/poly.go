package dvbs2

import (
	"fmt"

	"hackdvbs2/consts"
	"hackdvbs2/utils"
)

// multiply returns the product of a and b over GF(2). Coefficient i is the
// x^i term. Trailing zero terms are trimmed; the zero polynomial is empty.
func multiply(a, b []byte) []byte {
	if len(a) == 0 || len(b) == 0 {
		return []byte{}
	}
	out := make([]byte, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			if y != 0 {
				out[i+j] ^= 1
			}
		}
	}
	last := len(out) - 1
	for last >= 0 && out[last] == 0 {
		last--
	}
	return out[:last+1]
}

// pack folds coefficients into 32-bit words, first coefficient in the MSB of
// the first word. It panics if the result is not exactly words long.
func pack(coeffs []byte, words int) []uint32 {
	out := make([]uint32, 0, utils.CeilDiv(len(coeffs), consts.WordBits))
	for start := 0; start < len(coeffs); start += consts.WordBits {
		end := min(start+consts.WordBits, len(coeffs))
		var w uint32
		bit := uint32(1) << (consts.WordBits - 1)
		for _, c := range coeffs[start:end] {
			if c != 0 {
				w |= bit
			}
			bit >>= 1
		}
		out = append(out, w)
	}
	if len(out) != words {
		panic(fmt.Sprintf("dvbs2: packed polynomial has %d words, want %d", len(out), words))
	}
	return out
}
