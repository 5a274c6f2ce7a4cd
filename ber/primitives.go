// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/exp/constraints"

	"asn1util.dev/asn1"
	"asn1util.dev/asn1/internal/vlq"
)

// A Codec converts between the contents octets of a primitive ASN.1 value and
// a Go value.
type Codec interface {
	// Decode interprets the contents octets b. The returned value must not
	// retain b.
	Decode(b []byte) (any, error)
	// Encode returns the contents octets for v. If v has a type that the codec
	// does not support, an error wrapping [asn1.ErrUnsupportedValue] is
	// returned.
	Encode(v any) ([]byte, error)
}

// NewCodec returns a [Codec] that decodes with decode and encodes values of
// type T with encode.
func NewCodec[T any](decode func(b []byte) (T, error), encode func(v T) ([]byte, error)) Codec {
	return codecFuncs[T]{decode, encode}
}

type codecFuncs[T any] struct {
	decode func(b []byte) (T, error)
	encode func(v T) ([]byte, error)
}

func (c codecFuncs[T]) Decode(b []byte) (any, error) {
	v, err := c.decode(b)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c codecFuncs[T]) Encode(v any) ([]byte, error) {
	if x, ok := v.(T); ok {
		return c.encode(x)
	}
	return nil, unsupportedType(v)
}

func unsupportedType(v any) error {
	return asn1.UnsupportedValue(fmt.Sprintf("unsupported type %T", v))
}

//region [UNIVERSAL 1] BOOLEAN

// The value false is encoded as 0x00. Any other single byte value corresponds
// to true, DER requires 0xFF.
func booleanCodec(der bool) Codec {
	return NewCodec(func(b []byte) (bool, error) {
		if len(b) != 1 {
			return false, asn1.InvalidEncoding("invalid boolean length")
		}
		if der && b[0] != 0x00 && b[0] != 0xFF {
			return false, asn1.DERIncompatible("boolean true must be 0xFF")
		}
		return b[0] != 0, nil
	}, func(v bool) ([]byte, error) {
		if v {
			return []byte{0xFF}, nil
		}
		return []byte{0x00}, nil
	})
}

//endregion

//region [UNIVERSAL 2] INTEGER and [UNIVERSAL 10] ENUMERATED

var bigOne = big.NewInt(1)

// decodeInteger decodes a two's complement integer of arbitrary size.
func decodeInteger(b []byte) (*big.Int, error) {
	if len(b) == 0 {
		return nil, asn1.InvalidEncoding("empty integer")
	}
	if len(b) > 1 && (b[0] == 0x00 && b[1]&0x80 == 0 || b[0] == 0xFF && b[1]&0x80 != 0) {
		return nil, asn1.InvalidEncoding("integer not minimally-encoded")
	}
	i := new(big.Int)
	if b[0]&0x80 == 0 {
		return i.SetBytes(b), nil
	}
	// negative integer, calculate 2s complement
	bs := make([]byte, len(b))
	for j := range b {
		bs[j] = ^b[j]
	}
	i.SetBytes(bs)
	i.Add(i, bigOne)
	return i.Neg(i), nil
}

// appendInteger appends the minimal two's complement encoding of i to b.
func appendInteger(b []byte, i *big.Int) []byte {
	switch i.Sign() {
	case 0:
		return append(b, 0x00)
	case 1:
		bs := i.Bytes()
		if bs[0]&0x80 != 0 {
			// We'll have to pad this with 0x00 in order to stop it
			// looking like a negative number.
			b = append(b, 0x00)
		}
		return append(b, bs...)
	}
	// A negative number has to be converted to two's-complement form. So we'll
	// invert and subtract 1. If the most-significant-bit isn't set then we'll
	// need to pad the beginning with 0xff in order to keep the number negative.
	nMinus1 := new(big.Int).Neg(i)
	nMinus1.Sub(nMinus1, bigOne)
	bs := nMinus1.Bytes()
	for j := range bs {
		bs[j] ^= 0xff
	}
	if len(bs) == 0 || bs[0]&0x80 == 0 {
		b = append(b, 0xff)
	}
	return append(b, bs...)
}

// bigInt converts i to a [*math/big.Int].
func bigInt[T constraints.Integer](i T) *big.Int {
	if i < 0 {
		return big.NewInt(int64(i))
	}
	return new(big.Int).SetUint64(uint64(i))
}

// integerCodec decodes INTEGER values as [*math/big.Int] and encodes any Go
// integer type.
type integerCodec struct{}

func (integerCodec) Decode(b []byte) (any, error) {
	i, err := decodeInteger(b)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (integerCodec) Encode(v any) ([]byte, error) {
	var i *big.Int
	switch v := v.(type) {
	case *big.Int:
		i = v
	case int:
		i = bigInt(v)
	case int8:
		i = bigInt(v)
	case int16:
		i = bigInt(v)
	case int32:
		i = bigInt(v)
	case int64:
		i = bigInt(v)
	case uint:
		i = bigInt(v)
	case uint8:
		i = bigInt(v)
	case uint16:
		i = bigInt(v)
	case uint32:
		i = bigInt(v)
	case uint64:
		i = bigInt(v)
	default:
		return nil, unsupportedType(v)
	}
	if i == nil {
		return nil, asn1.UnsupportedValue("nil integer")
	}
	return appendInteger(nil, i), nil
}

var enumeratedCodec = NewCodec(func(b []byte) (asn1.Enumerated, error) {
	i, err := decodeInteger(b)
	if err != nil {
		return 0, err
	}
	if !i.IsInt64() {
		return 0, asn1.UnsupportedValue("enumerated value out of range")
	}
	return asn1.Enumerated(i.Int64()), nil
}, func(v asn1.Enumerated) ([]byte, error) {
	return appendInteger(nil, big.NewInt(int64(v))), nil
})

//endregion

//region [UNIVERSAL 3] BIT STRING

// Padding bits are decoded as zero bits. In DER they must be zero.
func bitStringCodec(der bool) Codec {
	return NewCodec(func(b []byte) (asn1.BitString, error) {
		if len(b) == 0 {
			return asn1.BitString{}, asn1.InvalidEncoding("zero length BIT STRING")
		}
		padding := b[0]
		if padding > 7 {
			return asn1.BitString{}, asn1.UnsupportedValue("invalid padding bits in BIT STRING")
		}
		if len(b) == 1 && padding > 0 {
			return asn1.BitString{}, asn1.InvalidEncoding("padding bits in empty BIT STRING")
		}
		bs := asn1.BitString{
			Bytes:     bytes.Clone(b[1:]),
			BitLength: (len(b)-1)*8 - int(padding),
		}
		if len(bs.Bytes) > 0 {
			mask := byte(1<<padding - 1)
			if der && bs.Bytes[len(bs.Bytes)-1]&mask != 0 {
				return asn1.BitString{}, asn1.DERIncompatible("non-zero padding bits in BIT STRING")
			}
			bs.Bytes[len(bs.Bytes)-1] &^= mask
		}
		return bs, nil
	}, func(v asn1.BitString) ([]byte, error) {
		if !v.IsValid() {
			return nil, asn1.UnsupportedValue("BitString is not valid")
		}
		padding := byte((8 - v.BitLength%8) % 8)
		b := append([]byte{padding}, v.Bytes...)
		if len(v.Bytes) > 0 {
			// zero out any padding bits
			b[len(b)-1] &^= 1<<padding - 1
		}
		return b, nil
	})
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// octetStringCodec decodes OCTET STRING values as byte slices. Values can be
// encoded from byte slices or [encoding.BinaryMarshaler] implementations.
type octetStringCodec struct{}

func (octetStringCodec) Decode(b []byte) (any, error) {
	return bytes.Clone(b), nil
}

func (octetStringCodec) Encode(v any) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return v, nil
	case encoding.BinaryMarshaler:
		buf, err := v.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal binary: %w", err)
		}
		return buf, nil
	}
	return nil, unsupportedType(v)
}

//endregion

//region [UNIVERSAL 5] NULL

var nullCodec = NewCodec(func(b []byte) (asn1.Null, error) {
	if len(b) > 0 {
		return asn1.Null{}, asn1.InvalidEncoding("invalid NULL value")
	}
	return asn1.Null{}, nil
}, func(asn1.Null) ([]byte, error) {
	return nil, nil
})

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// The first two components of the OID are encoded into a single VLQ.
// Subsequent components are encoded as VLQs on their own.
var oidCodec = NewCodec(decodeOID, func(oid asn1.ObjectIdentifier) ([]byte, error) {
	if len(oid) < 2 || oid[0] > 2 || (oid[0] < 2 && oid[1] > 39) {
		return nil, asn1.UnsupportedValue("invalid object identifier " + oid.String())
	}
	b := vlq.Append(nil, oid[0]*40+oid[1])
	for _, arc := range oid[2:] {
		b = vlq.Append(b, arc)
	}
	return b, nil
})

func decodeOID(b []byte) (asn1.ObjectIdentifier, error) {
	if len(b) == 0 {
		return nil, asn1.InvalidEncoding("zero length OBJECT IDENTIFIER")
	}
	r := bytes.NewReader(b)
	// In the worst case, we get two elements from the first byte (which is
	// encoded differently) and then every VLQ is a single byte long.
	oid := make(asn1.ObjectIdentifier, 0, len(b)+1)
	for r.Len() > 0 {
		arc, err := vlq.ReadMinimal[uint](r)
		switch {
		case errors.Is(err, vlq.ErrOverflow):
			return nil, asn1.UnsupportedValue("OBJECT IDENTIFIER component too large")
		case errors.Is(err, vlq.ErrNotMinimal):
			return nil, asn1.InvalidEncoding("non-minimal OBJECT IDENTIFIER component")
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, asn1.InvalidEncoding("truncated OBJECT IDENTIFIER component")
		case err != nil:
			return nil, err
		}
		if len(oid) > 0 {
			oid = append(oid, arc)
			continue
		}
		// The first VLQ is 40*value1 + value2: value1 can take the values 0,
		// 1 and 2 only. When value1 = 0 or value1 = 1, then value2 is <= 39.
		// When value1 = 2, then there are no restrictions on value2.
		if arc < 80 {
			oid = append(oid, arc/40, arc%40)
		} else {
			oid = append(oid, 2, arc-80)
		}
	}
	return oid, nil
}

//endregion

//region [UNIVERSAL 9] REAL

// Codec returns a [Codec] for REAL values that encodes in the given base and
// numeral form. Values are decoded as [Real]. Values of type [Real], float64 and
// [*apd.Decimal] can be encoded.
func (c RealCodec) Codec(base Base, form NumeralForm) Codec {
	return realCodec{c, base, form}
}

type realCodec struct {
	RealCodec
	base Base
	form NumeralForm
}

func (c realCodec) Decode(b []byte) (any, error) {
	x, err := c.RealCodec.Decode(b)
	if err != nil {
		return nil, err
	}
	return x, nil
}

func (c realCodec) Encode(v any) ([]byte, error) {
	switch v := v.(type) {
	case Real:
		return c.RealCodec.Encode(v, c.base, c.form)
	case float64:
		return c.RealCodec.Encode(RealFromFloat64(v), c.base, c.form)
	case *apd.Decimal:
		return c.RealCodec.Encode(RealFromDecimal(v), c.base, c.form)
	}
	return nil, unsupportedType(v)
}

//endregion

//region Restricted Character Strings

// stringCodec implements the restricted character string types. Values are
// decoded as [asn1.String]. Values of type [asn1.String] with the same kind and
// plain strings can be encoded.
//
// UniversalString uses UTF-32, BMPString UTF-16. Validation is only applied to
// the entire string and not to segments of a constructed encoding.
type stringCodec struct {
	kind asn1.StringKind
}

func (c stringCodec) Decode(b []byte) (any, error) {
	var s string
	switch c.kind {
	case asn1.UniversalString:
		if len(b)%4 != 0 {
			return nil, asn1.InvalidEncoding("length of UniversalString is no multiple of 4")
		}
		var sb strings.Builder
		sb.Grow(len(b) / 4)
		for i := 0; i < len(b); i += 4 {
			x := rune(b[i])<<24 | rune(b[i+1])<<16 | rune(b[i+2])<<8 | rune(b[i+3])
			if !utf8.ValidRune(x) {
				return nil, asn1.UnsupportedValue("UniversalString contains invalid characters")
			}
			sb.WriteRune(x)
		}
		s = sb.String()
	case asn1.BMPString:
		if len(b)%2 != 0 {
			return nil, asn1.InvalidEncoding("odd-length BMPString")
		}
		var sb strings.Builder
		sb.Grow(len(b) / 2)
		for i := 0; i < len(b); i += 2 {
			x := rune(b[i])<<8 | rune(b[i+1])
			if x >= 0xD800 && x < 0xE000 {
				return nil, asn1.UnsupportedValue("BMPString contains surrogate code units")
			}
			sb.WriteRune(x)
		}
		s = sb.String()
	default:
		s = string(b)
	}
	if !c.kind.Permits(s) {
		return nil, asn1.UnsupportedValue(c.kind.String() + " contains invalid characters")
	}
	return asn1.String{Kind: c.kind, Value: s}, nil
}

func (c stringCodec) Encode(v any) ([]byte, error) {
	var s string
	switch v := v.(type) {
	case asn1.String:
		if v.Kind != c.kind {
			return nil, asn1.UnsupportedValue("cannot encode " + v.Kind.String() + " as " + c.kind.String())
		}
		s = v.Value
	case string:
		s = v
	default:
		return nil, unsupportedType(v)
	}
	if !c.kind.Permits(s) {
		return nil, asn1.UnsupportedValue(c.kind.String() + " contains invalid characters")
	}
	switch c.kind {
	case asn1.UniversalString:
		b := make([]byte, 0, 4*utf8.RuneCountInString(s))
		for _, r := range s {
			b = append(b, byte(r>>24), byte(r>>16), byte(r>>8), byte(r))
		}
		return b, nil
	case asn1.BMPString:
		b := make([]byte, 0, 2*utf8.RuneCountInString(s))
		for _, r := range s {
			b = append(b, byte(r>>8), byte(r))
		}
		return b, nil
	}
	return []byte(s), nil
}

//endregion

//region [UNIVERSAL 23] UTCTime and [UNIVERSAL 24] GeneralizedTime

// timeCodec implements the time types. Values are decoded as
// [asn1.Timestamp]. Values of type [asn1.Timestamp] with the same kind and
// [time.Time] can be encoded. In DER, times are encoded in UTC and decoding
// requires the canonical UTC form.
type timeCodec struct {
	kind asn1.TimeKind
	der  bool
}

func (c timeCodec) Decode(b []byte) (any, error) {
	s := string(b)
	t, err := c.kind.Parse(s)
	if err != nil {
		return nil, asn1.InvalidEncoding(fmt.Sprintf("invalid %s %q", c.kind, s))
	}
	if c.der && (!strings.HasSuffix(s, "Z") || c.kind.Format(t) != s) {
		return nil, asn1.DERIncompatible(c.kind.String() + " is not in canonical UTC form")
	}
	return asn1.Timestamp{Kind: c.kind, Time: t}, nil
}

func (c timeCodec) Encode(v any) ([]byte, error) {
	var t time.Time
	switch v := v.(type) {
	case asn1.Timestamp:
		if v.Kind != c.kind {
			return nil, asn1.UnsupportedValue("cannot encode " + v.Kind.String() + " as " + c.kind.String())
		}
		t = v.Time
	case time.Time:
		t = v
	default:
		return nil, unsupportedType(v)
	}
	if c.der {
		t = t.UTC()
	}
	if !c.kind.Permits(t) {
		return nil, asn1.UnsupportedValue("time out of range for " + c.kind.String())
	}
	return []byte(c.kind.Format(t)), nil
}

//endregion
