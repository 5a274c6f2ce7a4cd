// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"encoding"
	"math/big"
	"time"

	"github.com/cockroachdb/apd/v3"

	"asn1util.dev/asn1"
	"asn1util.dev/asn1/tlv"
)

// Registry maps tags to the codecs that interpret their contents octets. A
// Registry is created for one [tlv.Mode] and applies the restrictions of DER
// if that mode is [tlv.DER].
//
// A Registry must not be modified concurrently with its use.
type Registry struct {
	mode   tlv.Mode
	codecs map[asn1.Tag]Codec
}

// NewRegistry returns a registry for mode with codecs for the universal types
// listed in the package documentation. REAL values are encoded in base 2, and
// decimals are converted with 8 byte mantissas.
func NewRegistry(mode tlv.Mode) *Registry {
	der := mode == tlv.DER
	r := &Registry{mode: mode, codecs: make(map[asn1.Tag]Codec)}
	r.Register(asn1.Universal(asn1.TagBoolean), booleanCodec(der))
	r.Register(asn1.Universal(asn1.TagInteger), integerCodec{})
	r.Register(asn1.Universal(asn1.TagBitString), bitStringCodec(der))
	r.Register(asn1.Universal(asn1.TagOctetString), octetStringCodec{})
	r.Register(asn1.Universal(asn1.TagNull), nullCodec)
	r.Register(asn1.Universal(asn1.TagOID), oidCodec)
	r.Register(asn1.Universal(asn1.TagReal), RealCodec{DER: der}.Codec(Base2, NR3))
	r.Register(asn1.Universal(asn1.TagEnumerated), enumeratedCodec)
	for k := asn1.UTF8String; k <= asn1.BMPString; k++ {
		r.Register(k.Tag(), stringCodec{k})
	}
	for _, k := range []asn1.TimeKind{asn1.UTCTime, asn1.GeneralizedTime} {
		r.Register(k.Tag(), timeCodec{k, der})
	}
	return r
}

// Mode returns the mode r was created for.
func (r *Registry) Mode() tlv.Mode {
	return r.mode
}

// Register sets the codec for tag, replacing any previous codec. SEQUENCE and
// SET cannot be registered. Values with those tags are always decoded as
// []any.
func (r *Registry) Register(tag asn1.Tag, c Codec) {
	r.codecs[tag] = c
}

// Lookup returns the codec registered for tag.
func (r *Registry) Lookup(tag asn1.Tag) (Codec, bool) {
	c, ok := r.codecs[tag]
	return c, ok
}

// isCollection reports whether tag is SEQUENCE or SET.
func isCollection(tag asn1.Tag) bool {
	return tag == asn1.Universal(asn1.TagSequence) || tag == asn1.Universal(asn1.TagSet)
}

//region Decoding

// Decode parses data and decodes every top-level value in it.
func (r *Registry) Decode(data []byte) ([]any, error) {
	tokens, err := tlv.Parse(data, r.mode)
	if err != nil {
		return nil, err
	}
	var values []any
	for _, t := range tokens {
		if t.Parent >= 0 {
			continue
		}
		v, err := r.DecodeToken(tokens, t)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// DecodeToken decodes the value of t. tokens is the token arena t belongs to,
// as returned by [tlv.Parse] or [tlv.Reader.Tokens].
//
// Constructed string values are decoded by concatenating their segments. In
// DER the constructed form of strings is rejected.
func (r *Registry) DecodeToken(tokens []*tlv.Token, t *tlv.Token) (any, error) {
	tag := t.Identifier.Tag()
	if isCollection(tag) {
		if !t.Constructed() {
			return nil, r.syntaxError(t, asn1.InvalidEncoding("primitive "+tag.String()))
		}
		return r.decodeElements(tokens, t)
	}
	c, ok := r.codecs[tag]
	if !ok {
		rv := RawValue{Tag: tag, Constructed: t.Constructed()}
		if !t.Constructed() {
			rv.Bytes = t.Value
			return rv, nil
		}
		var err error
		rv.Elements, err = r.decodeElements(tokens, t)
		return rv, err
	}

	contents := t.Value
	if t.Constructed() {
		if !segmented(tag) {
			return nil, r.syntaxError(t, asn1.InvalidEncoding("constructed "+tag.String()))
		}
		if r.mode == tlv.DER {
			return nil, r.syntaxError(t, asn1.DERIncompatible("constructed "+tag.String()))
		}
		var err error
		if tag == asn1.Universal(asn1.TagBitString) {
			contents, err = concatBitStringSegments(tokens, t)
		} else {
			contents, err = concatSegments(tokens, t)
		}
		if err != nil {
			return nil, r.syntaxError(t, err)
		}
	}
	v, err := c.Decode(contents)
	if err != nil {
		return nil, r.syntaxError(t, err)
	}
	return v, nil
}

func (r *Registry) decodeElements(tokens []*tlv.Token, t *tlv.Token) ([]any, error) {
	values := make([]any, 0, len(t.Children))
	for _, i := range t.Children {
		v, err := r.DecodeToken(tokens, tokens[i])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (r *Registry) syntaxError(t *tlv.Token, err error) error {
	return &SyntaxError{Tag: t.Identifier.Tag(), Offset: t.TagOffset, Err: err}
}

//endregion

//region Encoding

// Append encodes v as a primitive value with the given tag into w, using the
// codec registered for tag. A [RawValue] is written as is with the given tag.
func (r *Registry) Append(w *tlv.Writer, tag asn1.Tag, v any) error {
	if rv, ok := v.(RawValue); ok {
		rv.Tag = tag
		return r.appendRaw(w, rv)
	}
	c, ok := r.codecs[tag]
	if !ok {
		return &EncodeError{tag, asn1.UnsupportedValue("no codec registered")}
	}
	b, err := c.Encode(v)
	if err != nil {
		return &EncodeError{tag, err}
	}
	return w.AppendPrimitive(tlv.NewIdentifier(tag.Class, false, tag.Number), b)
}

// AppendValue encodes v into w with the universal tag of its type. See the
// package documentation for the supported types. A []any is encoded as a
// SEQUENCE of its elements.
func (r *Registry) AppendValue(w *tlv.Writer, v any) error {
	switch v := v.(type) {
	case []any:
		return r.Sequence(w, func() error {
			for _, e := range v {
				if err := r.AppendValue(w, e); err != nil {
					return err
				}
			}
			return nil
		})
	case RawValue:
		return r.appendRaw(w, v)
	}
	tag, ok := TagOf(v)
	if !ok {
		return &EncodeError{asn1.Tag{}, unsupportedType(v)}
	}
	return r.Append(w, tag, v)
}

func (r *Registry) appendRaw(w *tlv.Writer, rv RawValue) error {
	id := tlv.NewIdentifier(rv.Tag.Class, rv.Constructed, rv.Tag.Number)
	if !rv.Constructed {
		return w.AppendPrimitive(id, rv.Bytes)
	}
	return w.Constructed(id, false, func() error {
		for _, e := range rv.Elements {
			if err := r.AppendValue(w, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// Sequence writes a definite-length SEQUENCE into w whose elements are written
// by fn.
func (r *Registry) Sequence(w *tlv.Writer, fn func() error) error {
	return w.Constructed(tlv.NewIdentifier(asn1.ClassUniversal, true, asn1.TagSequence), false, fn)
}

// Set writes a definite-length SET into w whose elements are written by fn. The
// elements are written in the order of fn.
func (r *Registry) Set(w *tlv.Writer, fn func() error) error {
	return w.Constructed(tlv.NewIdentifier(asn1.ClassUniversal, true, asn1.TagSet), false, fn)
}

// Marshal encodes values with [Registry.AppendValue] and returns the encoding.
func (r *Registry) Marshal(values ...any) ([]byte, error) {
	return tlv.Marshal(r.mode, func(w *tlv.Writer) error {
		for _, v := range values {
			if err := r.AppendValue(w, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// TagOf returns the universal tag that v is encoded with by default.
func TagOf(v any) (asn1.Tag, bool) {
	var n uint
	switch v := v.(type) {
	case bool:
		n = asn1.TagBoolean
	case *big.Int, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n = asn1.TagInteger
	case asn1.BitString:
		n = asn1.TagBitString
	case []byte:
		n = asn1.TagOctetString
	case asn1.Null:
		n = asn1.TagNull
	case asn1.ObjectIdentifier:
		n = asn1.TagOID
	case Real, float64, *apd.Decimal:
		n = asn1.TagReal
	case asn1.Enumerated:
		n = asn1.TagEnumerated
	case string:
		n = asn1.TagUTF8String
	case asn1.String:
		if !v.Kind.IsValid() {
			return asn1.Tag{}, false
		}
		return v.Kind.Tag(), true
	case asn1.Timestamp:
		if v.Kind != asn1.UTCTime && v.Kind != asn1.GeneralizedTime {
			return asn1.Tag{}, false
		}
		return v.Kind.Tag(), true
	case time.Time:
		n = asn1.TagGeneralizedTime
	case []any:
		n = asn1.TagSequence
	case encoding.BinaryMarshaler:
		n = asn1.TagOctetString
	default:
		return asn1.Tag{}, false
	}
	return asn1.Universal(n), true
}

//endregion
