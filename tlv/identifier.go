package tlv

import (
	"io"

	"asn1util.dev/asn1"
	"asn1util.dev/asn1/internal/vlq"
)

// Identifier holds the identifier octets of a TLV. Identifiers compare equal
// iff their encodings are equal. Note that in BER the same tag can be encoded
// in more than one way, so use [Identifier.Tag] to compare tags.
//
// The empty Identifier is not valid. Its methods return zero values.
type Identifier string

// EndOfContents is the identifier of the end-of-contents marker.
const EndOfContents Identifier = "\x00"

// NewIdentifier returns the identifier octets for the given class, encoding
// and tag number. Numbers below 31 use the short form, all others the long form
// with a minimal base-128 tag number.
func NewIdentifier(class asn1.Class, constructed bool, number uint) Identifier {
	b := byte(class&0b11) << 6
	if constructed {
		b |= 0x20
	}
	if number < 0x1f {
		return Identifier([]byte{b | byte(number)})
	}
	buf := make([]byte, 1, 1+vlq.Size(number))
	buf[0] = b | 0x1f
	return Identifier(vlq.Append(buf, number))
}

// ReadIdentifier reads identifier octets from r. If r returns [io.EOF] before
// the first byte, the error is [io.EOF]. Errors from r other than [io.EOF] are
// returned unchanged.
//
// ReadIdentifier returns an error wrapping [asn1.ErrInvalidEncoding] if the
// input ends within a long-form tag number, if the tag number has leading zero
// bits, or if it does not fit into a uint. In [DER] mode a long-form encoding of
// a number below 31 returns an error wrapping [asn1.ErrDERIncompatible].
func ReadIdentifier(r io.ByteReader, mode Mode) (Identifier, error) {
	b, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	if b&0x1f != 0x1f {
		return Identifier([]byte{b}), nil
	}

	buf := []byte{b}
	n, err := vlq.ReadMinimal[uint](byteReaderFunc(func() (byte, error) {
		c, err := r.ReadByte()
		if err == nil {
			buf = append(buf, c)
		}
		return c, err
	}))
	//goland:noinspection GoDirectComparisonOfErrors
	switch {
	case err == vlq.ErrNotMinimal:
		return "", errNonMinimalTag
	case err == vlq.ErrOverflow:
		return "", errTagOverflow
	case err != nil:
		return "", truncated(err)
	case n < 0x1f && mode == DER:
		return "", errLongFormTag
	}
	return Identifier(buf), nil
}

// Class returns the tag class of id.
func (id Identifier) Class() asn1.Class {
	if id == "" {
		return 0
	}
	return asn1.Class(id[0] >> 6)
}

// Constructed reports whether id indicates the constructed encoding.
func (id Identifier) Constructed() bool {
	return id != "" && id[0]&0x20 != 0
}

// Number returns the tag number of id.
func (id Identifier) Number() uint {
	if id == "" {
		return 0
	}
	if id[0]&0x1f != 0x1f {
		return uint(id[0] & 0x1f)
	}
	var n uint
	for i := 1; i < len(id); i++ {
		n = n<<7 | uint(id[i]&0x7f)
	}
	return n
}

// Tag returns the class and number of id.
func (id Identifier) Tag() asn1.Tag {
	return asn1.Tag{Class: id.Class(), Number: id.Number()}
}

// IsEndOfContents reports whether id uses the reserved universal tag 0. Only
// [EndOfContents] itself is a valid end-of-contents marker.
func (id Identifier) IsEndOfContents() bool {
	return id != "" && id.Tag().IsEndOfContents()
}

// String returns a string representation of id consisting of the tag and a
// suffix "/c" or "/p" indicating the encoding.
func (id Identifier) String() string {
	if id == "" {
		return "<empty>"
	}
	if id.Constructed() {
		return id.Tag().String() + "/c"
	}
	return id.Tag().String() + "/p"
}
