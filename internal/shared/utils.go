// Package shared provides helpers for handling secrets in memory.
package shared

// WipeByteArray overwrites b with zeros. Use it on passwords read from a
// terminal once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
