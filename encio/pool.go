package encio

import (
	"math/bits"
	"sync"
)

var buffers [32]sync.Pool

func init() {
	// set pool new functions
	for i := range buffers {
		size := 1 << i
		buffers[i].New = func() interface{} {
			return make([]byte, size)
		}
	}
}

// GetBuffer returns a buffer with a cap of at least n and len of n from the pool.
func GetBuffer(n int) []byte {
	i := bits.Len(uint(n - 1))
	if i >= len(buffers) {
		return make([]byte, n)
	}
	return buffers[i].Get().([]byte)[:n]
}

// PutBuffer places a buffer in the buffer pool.
// Buffers whose capacity is not a power of two did not come from GetBuffer, and are discarded.
func PutBuffer(buff []byte) {
	c := cap(buff)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	i := bits.Len(uint(c)) - 1
	if i >= len(buffers) {
		return
	}
	buffers[i].Put(buff[:c])
}
