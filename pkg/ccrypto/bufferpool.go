package ccrypto

import (
	"sync"

	"github.com/aeriskit/closet/internal/constants"
)

// bufferPool hands out reusable byte slices sized to the padding bucket
// schedule, so resealing every slot on each save doesn't allocate a fresh
// buffer per slot per bucket.
type bufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

func newBufferPool() *bufferPool {
	p := &bufferPool{pools: make(map[int]*sync.Pool, len(constants.BucketSchedule))}
	for _, size := range constants.BucketSchedule {
		size := size
		p.pools[size] = &sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		}
	}
	return p
}

// Get returns a zeroed buffer of exactly size bytes. If size matches a
// bucket in the schedule, the buffer comes from that bucket's pool;
// otherwise it is allocated directly (oversized drawers beyond the table).
func (p *bufferPool) Get(size int) []byte {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if !ok {
		return make([]byte, size)
	}
	bufPtr := pool.Get().(*[]byte)
	buf := *bufPtr
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Put returns buf to its bucket's pool after zeroing it, discarding
// buffers whose capacity doesn't match a known bucket.
func (p *bufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	size := cap(buf)
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if !ok {
		return
	}
	buf = buf[:size]
	for i := range buf {
		buf[i] = 0
	}
	pool.Put(&buf)
}

// GlobalBufferPool is the shared pool used when resealing and padding
// drawers during CloseAndSave.
var GlobalBufferPool = newBufferPool()

// GetBucketBuffer returns a zeroed buffer of size bytes from the global pool.
func GetBucketBuffer(size int) []byte {
	return GlobalBufferPool.Get(size)
}

// PutBucketBuffer returns buf to the global pool.
func PutBucketBuffer(buf []byte) {
	GlobalBufferPool.Put(buf)
}
