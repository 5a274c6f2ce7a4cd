package tlv

import (
	"io"
	"math"
	"math/bits"
)

// ReadLength reads length octets from r. The indefinite form is returned as
// [LengthIndefinite]. If r ends before the length is complete, the error wraps
// [asn1.ErrInvalidEncoding]. Other errors from r are returned unchanged.
//
// The reserved initial octet 0xFF and lengths that do not fit into an int are
// invalid. In [DER] mode the indefinite form and long forms that are not
// minimal return an error wrapping [asn1.ErrDERIncompatible].
func ReadLength(r io.ByteReader, mode Mode) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, truncated(err)
	}
	switch {
	case b&0x80 == 0:
		// The length is encoded in the bottom 7 bits.
		return int(b), nil
	case b == 0x80:
		if mode == DER {
			return 0, errIndefiniteDER
		}
		return LengthIndefinite, nil
	case b == 0xff:
		return 0, errReservedLength
	}

	// Bottom 7 bits give the number of length bytes to follow.
	length := 0
	leadingZero := false
	for i := 0; i < int(b&0x7f); i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, truncated(err)
		}
		if i == 0 && c == 0 {
			leadingZero = true
		}
		if length > math.MaxInt>>8 {
			// We can't shift length up without overflowing.
			return 0, errLengthOverflow
		}
		length = length<<8 | int(c)
	}
	if mode == DER && (leadingZero || length < 0x80) {
		return 0, errNonMinimalLen
	}
	return length, nil
}

// AppendLength appends the length octets for n to b. Lengths below 128 use the
// short form, [LengthIndefinite] the indefinite form, and all other lengths the
// minimal long form.
func AppendLength(b []byte, n int) ([]byte, error) {
	switch {
	case n == LengthIndefinite:
		return append(b, 0x80), nil
	case n < 0:
		return b, errNegativeLength
	case n < 0x80:
		return append(b, byte(n)), nil
	}
	l := (bits.Len(uint(n)) + 7) / 8
	b = append(b, 0x80|byte(l))
	for i := l - 1; i >= 0; i-- {
		b = append(b, byte(n>>(i*8)))
	}
	return b, nil
}
