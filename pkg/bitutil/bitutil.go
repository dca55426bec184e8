// Package bitutil holds small power-of-two helpers shared by pkg/circle and
// pkg/shard.
package bitutil

import "fmt"

// Log2Strict returns log2(n), and errors if n is not a power of two.
func Log2Strict(n int) (int, error) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, fmt.Errorf("bitutil: %d is not a power of two", n)
	}
	log := 0
	for 1<<log < n {
		log++
	}
	return log, nil
}

// MustLog2Strict panics instead of erroring; used where the caller already
// guarantees n is a power of two (e.g. a domain size it constructed itself).
func MustLog2Strict(n int) int {
	log, err := Log2Strict(n)
	if err != nil {
		panic(err)
	}
	return log
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
