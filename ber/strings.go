// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"iter"

	"asn1util.dev/asn1"
	"asn1util.dev/asn1/tlv"
)

// segmented reports whether values with the given tag may use the constructed
// encoding in BER. These are the string types whose contents can be split into
// segments.
func segmented(tag asn1.Tag) bool {
	if tag.Class != asn1.ClassUniversal {
		return false
	}
	switch tag.Number {
	case asn1.TagBitString, asn1.TagOctetString, asn1.TagObjectDescriptor,
		asn1.TagUTCTime, asn1.TagGeneralizedTime,
		asn1.TagTeletexString, asn1.TagVideotexString, asn1.TagGraphicString, asn1.TagGeneralString:
		return true
	}
	_, ok := asn1.StringKindOf(tag)
	return ok
}

// segments returns the primitive segments of the string token t in document
// order. If t is primitive, it is the only segment. Constructed segments can be
// nested arbitrarily but every segment must use the tag of t.
func segments(tokens []*tlv.Token, t *tlv.Token) iter.Seq2[*tlv.Token, error] {
	return func(yield func(*tlv.Token, error) bool) {
		walkSegments(tokens, t, t.Identifier.Tag(), yield)
	}
}

func walkSegments(tokens []*tlv.Token, t *tlv.Token, tag asn1.Tag, yield func(*tlv.Token, error) bool) bool {
	if !t.Constructed() {
		return yield(t, nil)
	}
	for _, i := range t.Children {
		child := tokens[i]
		if child.Identifier.Tag() != tag {
			yield(nil, asn1.InvalidEncoding("non-matching encoding "+child.Identifier.Tag().String()+" in constructed string"))
			return false
		}
		if !walkSegments(tokens, child, tag, yield) {
			return false
		}
	}
	return true
}

// concatSegments returns the contents octets of the string token t with all
// segments concatenated.
func concatSegments(tokens []*tlv.Token, t *tlv.Token) ([]byte, error) {
	if !t.Constructed() {
		return t.Value, nil
	}
	var buf bytes.Buffer
	for seg, err := range segments(tokens, t) {
		if err != nil {
			return nil, err
		}
		buf.Write(seg.Value)
	}
	return buf.Bytes(), nil
}

// concatBitStringSegments works like concatSegments for BIT STRING values.
// Every segment starts with its number of unused bits, only the last segment
// may have unused bits.
func concatBitStringSegments(tokens []*tlv.Token, t *tlv.Token) ([]byte, error) {
	if !t.Constructed() {
		return t.Value, nil
	}
	buf := []byte{0}
	var last []byte
	for seg, err := range segments(tokens, t) {
		if err != nil {
			return nil, err
		}
		if len(seg.Value) == 0 {
			return nil, asn1.InvalidEncoding("zero length BIT STRING segment")
		}
		if last != nil && last[0] != 0 {
			return nil, asn1.InvalidEncoding("unused bits in inner BIT STRING segment")
		}
		buf = append(buf, seg.Value[1:]...)
		last = seg.Value
	}
	if last != nil {
		buf[0] = last[0]
	}
	return buf, nil
}
