package utils

// Parity returns 1 if the number of set bits is odd, else 0
func Parity(n uint16) byte {
	n ^= n >> 8
	n ^= n >> 4
	n ^= n >> 2
	n ^= n >> 1
	return byte(n & 1)
}

// CeilDiv returns a/b rounded up.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
