// Package vlq implements [Variable-length quantity] encoding as used in BER
// identifier octets and OBJECT IDENTIFIER arcs. A VLQ is a big-endian base-128
// representation of an unsigned integer where the eighth bit of every byte
// except the last marks continuation.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

var (
	// ErrNotMinimal indicates a VLQ that starts with a 0x80 byte.
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	// ErrOverflow indicates a VLQ that does not fit the target type.
	ErrOverflow = errors.New("vlq too large for target type")
)

// ReadMinimal parses a minimally encoded unsigned VLQ from r. The maximum
// allowed value is limited by the size of T.
//
// ReadMinimal will only read bytes belonging to the encoded VLQ. If r returns
// io.EOF on the first read, the returned error will be io.EOF as well. A VLQ
// that is cut short returns io.ErrUnexpectedEOF. A VLQ starting with a 0x80
// byte returns [ErrNotMinimal].
func ReadMinimal[T constraints.Unsigned](r io.ByteReader) (ret T, err error) {
	b, err := r.ReadByte()
	if err != nil {
		// io.EOF stays io.EOF
		return 0, err
	}
	if b == 0x80 {
		return 0, ErrNotMinimal
	}

	ret = T(b & 0x7f)
	numBits := bits.Len8(b & 0x7f)

	for b&0x80 != 0 {
		if b, err = r.ReadByte(); err != nil {
			break
		}
		ret <<= 7
		ret |= T(b & 0x7f)
		numBits += 7
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, ErrOverflow
		}
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return ret, err
}

// Size returns the number of bytes needed to encode n as a VLQ.
func Size[T constraints.Unsigned](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the minimal VLQ encoding of i to b and returns the extended
// slice.
func Append[T constraints.Unsigned](b []byte, i T) []byte {
	for j := Size(i) - 1; j >= 0; j-- {
		c := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			c |= 0x80
		}
		b = append(b, c)
	}
	return b
}
