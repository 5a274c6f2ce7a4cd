package tlv

import (
	"io"
	"strconv"

	"asn1util.dev/asn1"
)

var (
	errUnexpectedEOC       = asn1.InvalidEncoding("unexpected end of contents")
	errInvalidEOC          = asn1.InvalidEncoding("invalid end of contents")
	errTruncated           = asn1.InvalidEncoding("truncated data value")
	errUnclosed            = asn1.InvalidEncoding("truncated: unclosed parent element")
	errExceedsParent       = asn1.InvalidEncoding("child exceeds declared parent bound")
	errIndefinitePrimitive = asn1.InvalidEncoding("indefinite-length primitive data value")
	errNonMinimalTag       = asn1.InvalidEncoding("tag number not minimally encoded")
	errTagOverflow         = asn1.InvalidEncoding("tag number too large")
	errReservedLength      = asn1.InvalidEncoding("reserved length octet 0xFF")
	errLengthOverflow      = asn1.InvalidEncoding("length too large")
	errNegativeLength      = asn1.InvalidEncoding("negative length")
	errEmptyIdentifier     = asn1.InvalidEncoding("empty identifier")
	errNotPrimitive        = asn1.InvalidEncoding("primitive value with constructed identifier")
	errNotConstructed      = asn1.InvalidEncoding("constructed value with primitive identifier")
	errNoOpenElement       = asn1.InvalidEncoding("no open constructed element")
	errUnclosedElement     = asn1.InvalidEncoding("unclosed constructed element")
	errWriterClosed        = asn1.InvalidEncoding("write after close")

	errLongFormTag   = asn1.DERIncompatible("long-form tag for a number below 31")
	errIndefiniteDER = asn1.DERIncompatible("indefinite length")
	errNonMinimalLen = asn1.DERIncompatible("length not minimally encoded")
)

// ioError represents an error that occurred when reading from or writing to an
// underlying data stream.
type ioError struct {
	action string // either "read" or "write"
	err    error
}

func (e *ioError) Unwrap() error { return e.err }
func (e *ioError) Error() string { return e.action + " error: " + e.err.Error() }

// SyntaxError represents an error in the TLV encoding. The error value contains
// the location of the error within the input as well as the [Identifier] of the
// innermost open constructed element.
//
// Err wraps one of [asn1.ErrInvalidEncoding] or [asn1.ErrDERIncompatible].
type SyntaxError struct {
	requireKeyedLiterals
	nonComparable

	Err error // underlying error

	// ByteOffset is the location of the error. The location is usually the start of
	// the TLV containing the error.
	ByteOffset int64

	// Identifier is the identifier of the constructed TLV whose value contained
	// the malformed data. It is empty at the top level.
	Identifier Identifier
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if e.Identifier != "" {
		b = append(b, " within "...)
		b = append(b, e.Identifier.String()...)
	}
	b = strconv.AppendInt(append(b, " at offset "...), e.ByteOffset, 10)
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// noEOF returns err, unless err == io.EOF, in which case it returns io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// truncated maps an unexpected end of input to errTruncated and passes any
// other error through.
func truncated(err error) error {
	//goland:noinspection GoDirectComparisonOfErrors
	if noEOF(err) == io.ErrUnexpectedEOF {
		return errTruncated
	}
	return err
}
