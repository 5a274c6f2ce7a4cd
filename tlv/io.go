package tlv

import (
	"errors"
	"io"
)

// byteReaderFunc is a function that can read a single byte from an underlying
// byte stream. It implements [io.ByteReader].
type byteReaderFunc func() (byte, error)

func (f byteReaderFunc) ReadByte() (byte, error) { return f() }

//region bufferedReader

// maxConsecutiveEmptyReads is the maximum number of empty reads before
// [bufferedReader] returns an error from its Read method.
const maxConsecutiveEmptyReads = 100

// errNegativeRead indicates that a reader returned a negative number from its
// Read method.
var errNegativeRead = errors.New("tlv: reader returned negative count from Read")

// bufferedReader works similar to the [bufio.Reader] type but supports an
// additional limit that controls how far buffer fills may read ahead. A
// [Reader] sets the limit to the extent of the current top-level TLV so that it
// does not consume input belonging to whatever follows the encoding.
//
//   - A limit of 0 indicates that no reading ahead is allowed. Reading from the
//     bufferedReader will directly read from the underlying reader.
//   - A limit of -1 indicates that buffer fills may read arbitrarily far ahead.
//   - Any other positive limit indicates the number of bytes that may be read
//     during buffer fills.
//
// Note that even for a limit of 0, read operations may read buffered data, if
// the buffer is already filled.
type bufferedReader struct {
	rd   io.Reader
	buf  []byte
	r, w int // buf read and write positions
	lim  int // number of bytes we are allowed to buffer from rd
	err  error
}

// Reset resets b to read from r. The buffer of b will be reused but its
// contents are discarded.
func (b *bufferedReader) Reset(r io.Reader) {
	b.rd = r
	if b.buf == nil && r != nil {
		b.buf = make([]byte, 1024)
	}
	b.r = 0
	b.w = 0
	b.lim = 0
	b.err = nil
}

// SetLimit configures the buffer limit of b. b will not read more than n bytes
// ahead from the current position to fill its buffer. A limit of -1 removes the
// restriction.
func (b *bufferedReader) SetLimit(n int) {
	if n == LengthIndefinite {
		b.lim = LengthIndefinite
	} else {
		b.lim = max(n-b.Buffered(), 0)
	}
}

// bufferLimit returns how many bytes a fill may request from rd.
func (b *bufferedReader) bufferLimit(from int) int {
	if b.lim == LengthIndefinite {
		return len(b.buf)
	}
	return min(len(b.buf), from+b.lim)
}

// fill reads a new chunk into the buffer.
func (b *bufferedReader) fill() {
	// Slide existing data to beginning.
	if b.r > 0 {
		copy(b.buf, b.buf[b.r:b.w])
		b.w -= b.r
		b.r = 0
	}

	if b.w >= len(b.buf) {
		panic("tlv: tried to fill full buffer")
	}

	// Read new data: try a limited number of times.
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := b.rd.Read(b.buf[b.w:b.bufferLimit(b.w)])
		if n < 0 {
			panic(errNegativeRead)
		}
		b.w += n
		if b.lim != LengthIndefinite {
			b.lim = max(b.lim-n, 0)
		}
		if err != nil {
			b.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	b.err = io.ErrNoProgress
}

// readErr returns any error encountered during the last fill operation.
func (b *bufferedReader) readErr() error {
	err := b.err
	b.err = nil
	return err
}

// Buffered returns the number of bytes that are currently in the buffer.
func (b *bufferedReader) Buffered() int { return b.w - b.r }

// Read implements [io.Reader].
func (b *bufferedReader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		if b.Buffered() > 0 {
			return 0, nil
		}
		return 0, b.readErr()
	}
	if b.r == b.w {
		if b.err != nil {
			return 0, b.readErr()
		}
		// Read directly into p to avoid copy. The caller never asks for more
		// than the current TLV holds.
		n, b.err = b.rd.Read(p)
		if n < 0 {
			panic(errNegativeRead)
		}
		if b.lim != LengthIndefinite {
			b.lim = max(b.lim-n, 0)
		}
		return n, b.readErr()
	}

	n = copy(p, b.buf[b.r:b.w])
	b.r += n
	return n, nil
}

// ReadByte implements [io.ByteReader].
func (b *bufferedReader) ReadByte() (byte, error) {
	for b.r == b.w {
		if b.err != nil {
			return 0, b.readErr()
		}
		if b.lim == 0 {
			if br, ok := b.rd.(io.ByteReader); ok {
				return br.ReadByte()
			}
			var bs [1]byte
			_, err := io.ReadFull(b.rd, bs[:1])
			return bs[0], err
		}
		b.fill()
	}
	c := b.buf[b.r]
	b.r++
	return c, nil
}

//endregion

//region bufferedWriter

// bufferedWriter collects small writes of a [Writer] and passes them on to the
// underlying writer in larger chunks.
type bufferedWriter struct {
	wr  io.Writer
	buf []byte
	n   int
}

// Reset discards any buffered data and makes b write to w.
func (b *bufferedWriter) Reset(w io.Writer) {
	b.wr = w
	if b.buf == nil && w != nil {
		b.buf = make([]byte, 1024)
	}
	b.n = 0
}

// Flush writes any buffered data to the underlying writer.
func (b *bufferedWriter) Flush() error {
	if b.n == 0 {
		return nil
	}
	n, err := b.wr.Write(b.buf[:b.n])
	if n > 0 {
		// move unwritten data to the front of the buffer
		copy(b.buf[0:b.n-n], b.buf[n:b.n])
		b.n -= n
	}
	if b.n > 0 && err == nil {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ioError{"write", err}
	}
	return nil
}

// Available returns how many bytes are unused in the buffer.
func (b *bufferedWriter) Available() int { return len(b.buf) - b.n }

// Write implements [io.Writer].
func (b *bufferedWriter) Write(p []byte) (nn int, err error) {
	for len(p) > b.Available() && err == nil {
		var n int
		if b.n == 0 {
			// Large write, empty buffer.
			// Write directly from p to avoid copy.
			n, err = b.wr.Write(p)
			if err != nil {
				err = &ioError{"write", err}
			}
		} else {
			n = copy(b.buf[b.n:], p)
			b.n += n
			err = b.Flush()
		}
		nn += n
		p = p[n:]
	}
	if err != nil {
		return nn, err
	}
	n := copy(b.buf[b.n:], p)
	b.n += n
	nn += n
	return nn, nil
}

//endregion
