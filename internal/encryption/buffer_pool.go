package encryption

import (
	"sync"

	"github.com/idelchi/gocrypt/internal/aes"
)

// defaultBufferSize is the read size of the streaming pump, a multiple of the block size.
const defaultBufferSize = 2048 * aes.BlockSize // 32KB

// bufferPool provides a pool of reusable read buffers for the streaming pump.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, defaultBufferSize)

		return &buf
	},
}
