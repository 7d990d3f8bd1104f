// Package shared holds small helpers for handling secrets in memory.
package shared

// WipeByteArray overwrites the contents of b with zeros. Use it to drop a
// password read from the terminal once it has been copied where needed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
