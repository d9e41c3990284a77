package evaluator

import (
	"bytes"
	"sync"
)

// bufPool is a process-wide pool of *bytes.Buffer used when building string results
// (concat, fs-path) to reduce GC pressure from short-lived buffer allocations.
//
// THREAD-SAFETY AUDIT: safe.
//   - sync.Pool is designed for concurrent use; Get/Put are internally locked.
//   - Each caller receives exclusive ownership of a buffer for the duration of its
//     use; the buffer is never shared between goroutines.
//   - Buffers are always Reset via acquireBuf() before use.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// acquireBuf returns a reset buffer from the pool.
func acquireBuf() *bytes.Buffer {
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// releaseBuf returns a buffer to the pool. Very large buffers are discarded to
// prevent unbounded memory retention.
func releaseBuf(b *bytes.Buffer) {
	if b.Cap() <= 64*1024 { // 64 KB ceiling
		bufPool.Put(b)
	}
}
