package nbt

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses the scratch buffers Encode writes into before copying
// the result out. We pool *bytes.Buffer because they are easily reset and
// resized.
var bytesBufPool = sync.Pool{
	New: func() any {
		// Most player and chunk documents fit in 4KB.
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// maxPooledBuffer keeps one oversized document from pinning its buffer.
const maxPooledBuffer = 1 << 20

func getBuffer() *bytes.Buffer {
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxPooledBuffer {
		bytesBufPool.Put(buf)
	}
}

// CHUNK_SIZE is the largest single allocation the Reader makes on the word
// of a length prefix alone; bigger payloads grow as their bytes arrive.
const CHUNK_SIZE = 32 * 1024
