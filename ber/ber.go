// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber interprets the contents octets of ASN.1 values encoded with the
// Basic Encoding Rules (BER) and the Distinguished Encoding Rules (DER). The
// encoding rules are defined in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// The structure of an encoding is handled by the tlv package. This package
// provides a [Registry] that maps tags to [Codec] values and turns a tree of
// [tlv.Token] values into Go values and back. The following universal types
// are supported by a new registry:
//
//   - BOOLEAN as bool
//   - INTEGER as [*math/big.Int]
//   - BIT STRING as [asn1.BitString]
//   - OCTET STRING as []byte
//   - NULL as [asn1.Null]
//   - OBJECT IDENTIFIER as [asn1.ObjectIdentifier]
//   - REAL as [Real], see [RealCodec]
//   - ENUMERATED as [asn1.Enumerated]
//   - the restricted character strings as [asn1.String]
//   - UTCTime and GeneralizedTime as [asn1.Timestamp]
//   - SEQUENCE and SET as []any
//
// Values with any other tag are decoded as [RawValue].
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package ber

import (
	"fmt"
	"strconv"
	"strings"

	"asn1util.dev/asn1"
)

// A RawValue represents an ASN.1 value without a registered codec. Primitive
// values keep their contents octets in Bytes. The elements of constructed
// values are decoded and stored in Elements.
type RawValue struct {
	Tag         asn1.Tag
	Constructed bool
	Bytes       []byte
	Elements    []any
}

// String returns a string representation of rv. The byte contents of rv are
// only included if they are short enough.
func (rv RawValue) String() string {
	if rv.Constructed {
		return fmt.Sprintf("RawValue{%s (constructed) {%d elements}}", rv.Tag.String(), len(rv.Elements))
	}
	if len(rv.Bytes) > 24 {
		return fmt.Sprintf("RawValue{%s (primitive) {%d bytes}}", rv.Tag.String(), len(rv.Bytes))
	}
	return fmt.Sprintf("RawValue{%s (primitive) {% X}}", rv.Tag.String(), rv.Bytes)
}

// A SyntaxError indicates that the contents of a value are not valid for its
// type. Err wraps one of the error kinds of the asn1 package.
type SyntaxError struct {
	Tag    asn1.Tag // where the syntax error occurred
	Offset int64    // offset of the identifier octets
	Err    error
}

func (e *SyntaxError) Error() string {
	var s strings.Builder
	s.WriteString("ber: syntax error decoding ")
	s.WriteString(e.Tag.String())
	s.WriteString(" at offset ")
	s.WriteString(strconv.FormatInt(e.Offset, 10))
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// An EncodeError indicates that a Go value cannot be encoded with a tag.
type EncodeError struct {
	Tag asn1.Tag
	Err error
}

func (e *EncodeError) Error() string {
	return "ber: cannot encode " + e.Tag.String() + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
