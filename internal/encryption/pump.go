package encryption

import (
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/gocrypt/internal/aes"
)

// blockMode is one direction of a mode of operation.
type blockMode interface {
	// crypt transforms whole blocks; len(src) is a multiple of the block size and dst does not overlap src.
	crypt(dst, src []byte)
	// final transforms the bytes held back at the end of the stream.
	final(tail []byte) ([]byte, error)
}

// pump reads r to EOF, feeding whole blocks to m and writing its output to w.
// Bytes short of a whole block are held back for m.final. With holdLast, the last
// whole block is held back too, so that m.final always sees the padded block.
func pump(reader io.Reader, writer io.Writer, m blockMode, holdLast bool) error {
	bufp, ok := bufferPool.Get().(*[]byte)
	if !ok {
		return errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer bufferPool.Put(bufp)

	buf := *bufp
	pending := make([]byte, 0, len(buf)+2*aes.BlockSize)
	out := make([]byte, len(buf)+2*aes.BlockSize)

	for {
		n, readErr := reader.Read(buf)
		pending = append(pending, buf[:n]...)

		eof := errors.Is(readErr, io.EOF)
		if readErr != nil && !eof {
			return fmt.Errorf("reading input: %w", readErr)
		}

		ready := len(pending) - len(pending)%aes.BlockSize
		if holdLast && ready == len(pending) {
			ready -= aes.BlockSize
		}

		if ready > 0 {
			m.crypt(out[:ready], pending[:ready])

			if _, err := writer.Write(out[:ready]); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			pending = append(pending[:0], pending[ready:]...)
		}

		if eof {
			break
		}
	}

	tail, err := m.final(pending)
	if err != nil {
		return err
	}

	if _, err := writer.Write(tail); err != nil {
		return fmt.Errorf("writing final block: %w", err)
	}

	return nil
}
