// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-two helpers used to size analysis
windows. The radix-2 transform only accepts power-of-two lengths, so these
checks guard both configuration and the transform itself.

Usage:

	// Reject a window size before the stream starts
	if !bitint.IsPowerOfTwo(windowSize) {
		lo, hi := bitint.PrevPowerOfTwo(windowSize), bitint.NextPowerOfTwo(windowSize)
		...
	}

The subtraction in NextPowerOfTwo matters: for an input that is already a
power of two (8 = 1000b), size-1 = 0111b has bit length 3 and 1<<3 = 8.
Without it bits.Len(8) = 4 and the input would be doubled to 16.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size.
//
// Examples:
//
//	Input  Output
//	4096   4096
//	4000   4096
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// PrevPowerOfTwo returns the largest power of 2 <= size, or 0 when size < 1.
//
// Examples:
//
//	Input  Output
//	4096   4096
//	4095   2048
//	1      1
//	0      0
func PrevPowerOfTwo(size int) int {
	if size < 1 {
		return 0
	}
	return 1 << (bits.Len(uint(size)) - 1)
}

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of two
// have exactly one bit set, so n&(n-1) clears it and leaves zero.
//
//	Input  Output  Binary
//	8      true    1000 & 0111 = 0000
//	7      false   0111 & 0110 = 0110
//	0      false   Not positive
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns the exponent of a power of two (Log2(4096) = 12). The result
// is only meaningful when IsPowerOfTwo(n) holds.
func Log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
