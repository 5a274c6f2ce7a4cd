// Package tlv implements streaming encoding and decoding of the
// tag-length-value (TLV) format used by the Basic Encoding Rules (BER) and the
// Distinguished Encoding Rules (DER) as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// This package deals with the syntactic layer of TLV-encoding while package
// [asn1util.dev/asn1/ber] deals with the semantic layer of BER.
//
// # Identifiers and Lengths
//
// An [Identifier] holds the raw identifier octets of a TLV. It is a string
// type, so identifiers can be compared with == and used as map keys. The
// class, number and encoding (primitive or constructed) are derived from the
// octets. Lengths are plain ints where [LengthIndefinite] marks the
// indefinite-length form.
//
// # Reading
//
// A [Reader] consumes a byte stream and builds a tree of [Token] values. The
// tokens are owned by the reader and reference their parent and children by
// index. Constructed elements that use the definite-length form end when their
// value field is exhausted. Elements that use the indefinite-length form end at
// the matching end-of-contents marker, which is consumed by the reader and does
// not appear as a token. An [Observer] receives an [EventBegin] and an
// [EventEnd] for every token, in document order.
//
// # Writing
//
// A [Writer] produces TLV encodings. Constructed elements are opened and
// closed explicitly or via [Writer.Constructed]. Definite-length elements are
// buffered until they are closed so that their length is known.
//
// # Modes
//
// Readers and writers operate in one of two modes. In [BER] mode every valid
// BER encoding is accepted. In [DER] mode encodings that are valid BER but are
// not allowed in DER are rejected with an error that wraps
// [asn1.ErrDERIncompatible].
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

//go:generate stringer -type=Mode
//go:generate stringer -type=Event -trimprefix=Event

// Mode selects the encoding rules enforced by a [Reader] or [Writer].
type Mode uint8

// Supported modes.
const (
	BER Mode = iota // Basic Encoding Rules
	DER             // Distinguished Encoding Rules
)

// LengthIndefinite when used as a magic number for the length of a TLV
// indicates that the data value is encoded using the constructed
// indefinite-length format.
const LengthIndefinite = -1

// minOffset returns the smaller of two absolute offsets where -1 stands for an
// unknown (unbounded) offset.
func minOffset(a, b int64) int64 {
	// -1 is the largest uint64, so any known offset is smaller.
	return max(int64(min(uint64(a), uint64(b))), -1)
}

// requireKeyedLiterals can be embedded in a struct to require keyed literals.
type requireKeyedLiterals struct{}

// nonComparable can be embedded in a struct to prevent comparability.
type nonComparable [0]func()
