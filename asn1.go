// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 defines the vocabulary shared by the encoding packages of this
// module: ASN.1 tags and classes as defined in [Rec. ITU-T X.680], the error
// kinds reported by the codecs, and Go types for a handful of ASN.1 universal
// types.
//
// Encoding and decoding is implemented in subpackages:
//
//   - Package [asn1util.dev/asn1/tlv] implements the structural layer of
//     [Rec. ITU-T X.690]: identifier and length octets, a streaming reader that
//     builds a token tree from definite and indefinite-length encodings, and a
//     writer that frames primitive and constructed values.
//   - Package [asn1util.dev/asn1/ber] implements the value layer: the REAL codec
//     and a registry mapping universal tags to content codecs.
//
// # Error Kinds
//
// All codecs report failures that wrap one of [ErrInvalidEncoding],
// [ErrDERIncompatible] or [ErrUnsupportedValue]. Use [errors.Is] to classify
// an error:
//
//	if errors.Is(err, asn1.ErrDERIncompatible) {
//		// valid BER, but not DER
//	}
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package asn1

import (
	"strconv"
	"strings"
)

//go:generate stringer -type=Class -trimprefix=Class
//go:generate stringer -type=StringKind,TimeKind -output=kind_string.go

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
type Tag struct {
	Class  Class
	Number uint
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Universal returns the tag with the given number in the [ClassUniversal]
// namespace.
func Universal(number uint) Tag {
	return Tag{Class: ClassUniversal, Number: number}
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// IsEndOfContents reports whether t is the reserved universal tag 0 used by the
// end-of-contents marker.
func (t Tag) IsEndOfContents() bool {
	return t.Class == ClassUniversal && t.Number == TagReserved
}

// TagReserved is a reserved tag number in the [ClassUniversal] namespace to be
// used by encoding rules. This assignment is defined in Rec. ITU-T X.680,
// Section 8, Table 1.
const TagReserved = 0

// These are some ASN.1 tag numbers are defined in the [ClassUniversal]
// namespace. These assignments are defined in Rec. ITU-T X.680, Section 8, Table
// 1.
const (
	TagBoolean          uint = 1
	TagInteger          uint = 2
	TagBitString        uint = 3
	TagOctetString      uint = 4
	TagNull             uint = 5
	TagOID              uint = 6
	TagObjectDescriptor uint = 7
	TagExternal         uint = 8
	TagReal             uint = 9
	TagEnumerated       uint = 10
	TagEmbeddedPDV      uint = 11
	TagUTF8String       uint = 12
	TagRelativeOID      uint = 13
	TagTime             uint = 14
	TagSequence         uint = 16
	TagSet              uint = 17
	TagNumericString    uint = 18
	TagPrintableString  uint = 19
	TagTeletexString    uint = 20
	TagT61String             = TagTeletexString
	TagVideotexString   uint = 21
	TagIA5String        uint = 22
	TagUTCTime          uint = 23
	TagGeneralizedTime  uint = 24
	TagGraphicString    uint = 25
	TagVisibleString    uint = 26
	TagISO646String          = TagVisibleString
	TagGeneralString    uint = 27
	TagUniversalString  uint = 28
	TagCharacterString  uint = 29
	TagBMPString        uint = 30
	TagDate             uint = 31
	TagTimeOfDay        uint = 32
	TagDateTime         uint = 33
	TagDuration         uint = 34
)
