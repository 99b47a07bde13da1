package pool

import (
	"bytes"
	"sync"
)

// BufferPool recycles the buffers that capture backend process output.
// Batch runs spawn one Ghostscript process per attempt, each with its own
// stderr buffer.
type BufferPool struct {
	size int       // Initial capacity of each buffer.
	pool sync.Pool // Thread-safe pool of buffers.
}

// Creates a new buffer pool with a specified buffer size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, size))
			},
		},
	}
}

// Retrieves a buffer from the pool.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Returns a buffer to the pool.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	// A runaway process can produce megabytes of diagnostics; let those go.
	if buf.Cap() > bp.size*4 {
		return
	}

	buf.Reset()
	bp.pool.Put(buf)
}
