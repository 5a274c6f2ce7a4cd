// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"

	"asn1util.dev/asn1"
)

// realEqual reports whether a and b have the same value and representation.
func realEqual(a, b Real) bool {
	if a.Special != b.Special || a.Negative != b.Negative || a.Exponent != b.Exponent {
		return false
	}
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return a.Mantissa.Cmp(b.Mantissa) == 0 && a.Base == b.Base && a.Form == b.Form
}

func binaryReal(neg bool, n int64, e int64) Real {
	return Real{Negative: neg, Mantissa: big.NewInt(n), Exponent: e, Base: Base2}
}

func decimalReal(neg bool, n int64, e int64, form NumeralForm) Real {
	return Real{Negative: neg, Mantissa: big.NewInt(n), Exponent: e, Base: Base10, Form: form}
}

func TestRealCodec_Encode(t *testing.T) {
	tests := map[string]struct {
		codec   RealCodec
		val     Real
		base    Base
		form    NumeralForm
		want    []byte
		wantErr error
	}{
		"PosZero":  {val: RealFromFloat64(0), base: Base2, want: nil},
		"NegZero":  {val: RealFromFloat64(math.Copysign(0, -1)), base: Base2, want: []byte{0x43}},
		"PlusInf":  {val: RealFromFloat64(math.Inf(1)), base: Base2, want: []byte{0x40}},
		"MinusInf": {val: RealFromFloat64(math.Inf(-1)), base: Base10, form: NR3, want: []byte{0x41}},
		"NaN":      {val: RealFromFloat64(math.NaN()), base: Base2, want: []byte{0x42}},
		"One":      {val: RealFromFloat64(1), base: Base2, want: []byte{0x80, 0x00, 0x01}},
		"Ten":      {val: RealFromFloat64(10), base: Base2, want: []byte{0x80, 0x01, 0x05}},
		"Negative": {val: RealFromFloat64(-10), base: Base2, want: []byte{0xC0, 0x01, 0x05}},
		"Fraction": {val: RealFromFloat64(0.15625), base: Base2, want: []byte{0x80, 0xFB, 0x05}},
		"Subnormal": {val: RealFromFloat64(math.SmallestNonzeroFloat64), base: Base2,
			want: []byte{0x81, 0xFB, 0xCE, 0x01}},
		"LongExponent": {val: binaryReal(false, 1, 1<<24), base: Base2,
			want: []byte{0x83, 0x04, 0x01, 0x00, 0x00, 0x00, 0x01}},
		"EvenMantissa": {val: binaryReal(false, 20, 0), base: Base2, want: []byte{0x80, 0x02, 0x05}},
		"Base8":        {val: RealFromFloat64(10), base: Base8, want: []byte{0x94, 0x00, 0x05}},
		"Base16":       {val: RealFromFloat64(0.15625), base: Base16, want: []byte{0xAC, 0xFE, 0x05}},
		"DecimalToBinary": {val: RealFromDecimal(apd.New(5, -1)), base: Base2,
			want: []byte{0x80, 0xFF, 0x01}},
		"NR3":             {val: RealFromDecimal(apd.New(12345, -2)), base: Base10, form: NR3, want: []byte("\x0312345.E-2")},
		"NR3ZeroExponent": {val: RealFromDecimal(apd.New(5, 0)), base: Base10, form: NR3, want: []byte("\x035.E+0")},
		"NR3TrailingZero": {val: RealFromDecimal(apd.New(1200, 0)), base: Base10, form: NR3, want: []byte("\x0312.E2")},
		"NR3Negative":     {val: RealFromDecimal(apd.New(-25, 3)), base: Base10, form: NR3, want: []byte("\x03-25.E3")},
		"NR3FromBinary":   {val: RealFromFloat64(0.15625), base: Base10, form: NR3, want: []byte("\x0315625.E-5")},
		"NR2":             {val: RealFromDecimal(apd.New(12345, -2)), base: Base10, form: NR2, want: []byte("\x02123.45")},
		"NR2Small":        {val: RealFromDecimal(apd.New(5, -2)), base: Base10, form: NR2, want: []byte("\x020.05")},
		"NR2Integral":     {val: RealFromDecimal(apd.New(12, 2)), base: Base10, form: NR2, want: []byte("\x021200.")},
		"NR1":             {val: RealFromDecimal(apd.New(12, 2)), base: Base10, form: NR1, want: []byte("\x011200")},
		"NR1Negative":     {val: RealFromInt(-7), base: Base10, form: NR1, want: []byte("\x01-7")},
		"NR1Fraction": {val: RealFromDecimal(apd.New(15, -1)), base: Base10, form: NR1,
			wantErr: asn1.ErrUnsupportedValue},
		"InvalidBase": {val: RealFromFloat64(1), base: Base(3), wantErr: asn1.ErrUnsupportedValue},
		"InvalidForm": {val: RealFromFloat64(1), base: Base10, form: NumeralForm(4), wantErr: asn1.ErrUnsupportedValue},
		"DERBase8": {codec: RealCodec{DER: true}, val: RealFromFloat64(10), base: Base8,
			wantErr: asn1.ErrDERIncompatible},
		"DERNR2": {codec: RealCodec{DER: true}, val: RealFromFloat64(10), base: Base10, form: NR2,
			wantErr: asn1.ErrDERIncompatible},
		"DERNR3": {codec: RealCodec{DER: true}, val: RealFromFloat64(10), base: Base10, form: NR3,
			want: []byte("\x031.E1")},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.codec.Encode(tc.val, tc.base, tc.form)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Encode() error = %v, want %v", err, tc.wantErr)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Encode() = % X, want % X", got, tc.want)
			}
		})
	}
}

func TestRealCodec_Decode(t *testing.T) {
	tests := map[string]struct {
		der     bool
		data    []byte
		want    Real
		wantErr error
	}{
		"Empty":    {data: nil, want: Real{}},
		"PlusInf":  {data: []byte{0x40}, want: Real{Special: PlusInfinity}},
		"MinusInf": {data: []byte{0x41}, want: Real{Special: MinusInfinity}},
		"NaN":      {data: []byte{0x42}, want: Real{Special: NotANumber}},
		"NegZero":  {data: []byte{0x43}, want: Real{Special: MinusZero}},
		"Ten":      {data: []byte{0x80, 0x01, 0x05}, want: binaryReal(false, 5, 1)},
		"Negative": {data: []byte{0xC0, 0xFB, 0x05}, want: binaryReal(true, 5, -5)},
		"EvenMantissa": {data: []byte{0x80, 0x00, 0x0A},
			want: binaryReal(false, 10, 0)},
		"Base8": {data: []byte{0x94, 0x00, 0x05},
			want: Real{Mantissa: big.NewInt(5), Exponent: 1, Base: Base8}},
		"Base16": {data: []byte{0xAC, 0xFE, 0x05},
			want: Real{Mantissa: big.NewInt(5), Exponent: -5, Base: Base16}},
		"LongExponent": {data: []byte{0x83, 0x04, 0x01, 0x00, 0x00, 0x00, 0x01},
			want: binaryReal(false, 1, 1<<24)},
		"NR1":      {data: []byte("\x01   -57"), want: decimalReal(true, 57, 0, NR1)},
		"NR2":      {data: []byte("\x02+57.5"), want: decimalReal(false, 575, -1, NR2)},
		"NR2Comma": {data: []byte("\x0257,5"), want: decimalReal(false, 575, -1, NR2)},
		"NR3":      {data: []byte("\x032.5e2"), want: decimalReal(false, 25, 1, NR3)},
		"NR3Dot":   {data: []byte("\x0315.E-1"), want: decimalReal(false, 15, -1, NR3)},
		"NR3Zero":  {data: []byte("\x030e+0"), want: decimalReal(false, 0, 0, NR3)},
		"DERNR3":   {der: true, data: []byte("\x0315.E-1"), want: decimalReal(false, 15, -1, NR3)},
		"DEROdd":   {der: true, data: []byte{0x80, 0xFB, 0x05}, want: binaryReal(false, 5, -5)},

		"TrailingAfterSpecial": {data: []byte{0x40, 0x00}, wantErr: asn1.ErrInvalidEncoding},
		"UnknownSpecial":       {data: []byte{0x44}, wantErr: asn1.ErrUnsupportedValue},
		"ReservedBase":         {data: []byte{0xB0, 0x00, 0x01}, wantErr: asn1.ErrUnsupportedValue},
		"ZeroMantissa":         {data: []byte{0x80, 0x00, 0x00}, wantErr: asn1.ErrInvalidEncoding},
		"MissingMantissa":      {data: []byte{0x80, 0x01}, wantErr: asn1.ErrInvalidEncoding},
		"TruncatedExponent":    {data: []byte{0x81, 0x01}, wantErr: asn1.ErrInvalidEncoding},
		"NonMinimalExponent":   {data: []byte{0x81, 0x00, 0x01, 0x05}, wantErr: asn1.ErrInvalidEncoding},
		"NonMinimalNegative":   {data: []byte{0x81, 0xFF, 0x80, 0x05}, wantErr: asn1.ErrInvalidEncoding},
		"ZeroExponentLength":   {data: []byte{0x83, 0x00, 0x01}, wantErr: asn1.ErrInvalidEncoding},
		"HugeExponent": {data: []byte{0x83, 0x09, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0x01},
			wantErr: asn1.ErrUnsupportedValue},
		"UnknownForm":   {data: []byte("\x041"), wantErr: asn1.ErrUnsupportedValue},
		"NR1Fraction":   {data: []byte("\x01-57.5"), wantErr: asn1.ErrInvalidEncoding},
		"NR2Exponent":   {data: []byte("\x02+57.5e2"), wantErr: asn1.ErrInvalidEncoding},
		"NR3ZeroExp":    {data: []byte("\x032.5e0"), wantErr: asn1.ErrInvalidEncoding},
		"NegativeZero":  {data: []byte("\x01-0"), wantErr: asn1.ErrInvalidEncoding},
		"EmptyNumeral":  {data: []byte("\x03"), wantErr: asn1.ErrInvalidEncoding},
		"NotANumeral":   {data: []byte("\x03abc"), wantErr: asn1.ErrInvalidEncoding},
		"DERBase8":      {der: true, data: []byte{0x94, 0x00, 0x05}, wantErr: asn1.ErrDERIncompatible},
		"DERScale":      {der: true, data: []byte{0x84, 0x00, 0x05}, wantErr: asn1.ErrDERIncompatible},
		"DEREven":       {der: true, data: []byte{0x80, 0x00, 0x0A}, wantErr: asn1.ErrDERIncompatible},
		"DERNR1":        {der: true, data: []byte("\x011"), wantErr: asn1.ErrDERIncompatible},
		"DERNR2":        {der: true, data: []byte("\x021.5"), wantErr: asn1.ErrDERIncompatible},
		"DERNonCanonic": {der: true, data: []byte("\x031.5E1"), wantErr: asn1.ErrDERIncompatible},
		"DERPlusExp":    {der: true, data: []byte("\x0315.E+1"), wantErr: asn1.ErrDERIncompatible},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := RealCodec{DER: tc.der}.Decode(tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Decode(% X) error = %v, want %v", tc.data, err, tc.wantErr)
			}
			if err == nil && !realEqual(got, tc.want) {
				t.Errorf("Decode(% X) = %#v, want %#v", tc.data, got, tc.want)
			}
		})
	}
}

// testFloats returns a set of interesting float64 values and random finite
// values.
func testFloats() []float64 {
	fs := []float64{
		1, -1, 0.5, 0.1, 10, 1e300, -1e-300, math.Pi,
		math.MaxFloat64, -math.MaxFloat64,
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64,
		0x1p-1022, 0x1p-1023, 0x1.fffffffffffffp-1023,
		math.Nextafter(1, 2), math.Nextafter(1, 0),
		float64(1<<53 - 1),
	}
	rnd := rand.New(rand.NewPCG(1, 2))
	for len(fs) < 2000 {
		f := math.Float64frombits(rnd.Uint64())
		if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
			continue
		}
		fs = append(fs, f)
	}
	return fs
}

func TestRealCodec_Float64RoundTrip(t *testing.T) {
	for _, base := range []Base{Base2, Base8, Base16} {
		t.Run(base.String(), func(t *testing.T) {
			c := RealCodec{}
			for _, f := range testFloats() {
				b, err := c.Encode(RealFromFloat64(f), base, NR3)
				if err != nil {
					t.Fatalf("Encode(%g) returned an unexpected error: %s", f, err)
				}
				if b[len(b)-1]&1 == 0 {
					t.Errorf("Encode(%g) = % X has an even mantissa", f, b)
				}
				x, err := c.Decode(b)
				if err != nil {
					t.Fatalf("Decode(% X) returned an unexpected error: %s", b, err)
				}
				got, acc := x.Float64()
				if math.Float64bits(got) != math.Float64bits(f) || acc != big.Exact {
					t.Errorf("Decode(Encode(%g)) = %g (%s), want %g (Exact)", f, got, acc, f)
				}
			}
		})
	}
}

func TestRealCodec_DecimalRoundTrip(t *testing.T) {
	c := RealCodec{}
	for _, f := range testFloats()[:200] {
		b, err := c.Encode(RealFromFloat64(f), Base10, NR3)
		if err != nil {
			t.Fatalf("Encode(%g) returned an unexpected error: %s", f, err)
		}
		got, err := c.DecodeFloat64(b)
		if err != nil {
			t.Fatalf("DecodeFloat64(%q) returned an unexpected error: %s", b, err)
		}
		if math.Float64bits(got) != math.Float64bits(f) {
			t.Errorf("DecodeFloat64(Encode(%g)) = %g", f, got)
		}
	}
}

func TestRealCodec_Specials(t *testing.T) {
	c := RealCodec{DER: true}
	for _, f := range []float64{0, math.Copysign(0, -1), math.Inf(1), math.Inf(-1), math.NaN()} {
		b, err := c.EncodeFloat64(f)
		if err != nil {
			t.Fatalf("EncodeFloat64(%g) returned an unexpected error: %s", f, err)
		}
		got, err := c.DecodeFloat64(b)
		if err != nil {
			t.Fatalf("DecodeFloat64(% X) returned an unexpected error: %s", b, err)
		}
		switch {
		case math.IsNaN(f):
			if !math.IsNaN(got) {
				t.Errorf("DecodeFloat64(EncodeFloat64(NaN)) = %g", got)
			}
		case got != f || math.Signbit(got) != math.Signbit(f):
			t.Errorf("DecodeFloat64(EncodeFloat64(%g)) = %g", f, got)
		}
	}
}

func TestDecomposeFloat64(t *testing.T) {
	tests := map[string]struct {
		f       float64
		want    SNE
		special Special
	}{
		"One":       {1, SNE{N: big.NewInt(1), E: 0}, Finite},
		"Fraction":  {0.15625, SNE{N: big.NewInt(5), E: -5}, Finite},
		"Negative":  {-2, SNE{Negative: true, N: big.NewInt(1), E: 1}, Finite},
		"Subnormal": {math.SmallestNonzeroFloat64, SNE{N: big.NewInt(1), E: -1074}, Finite},
		"Max":       {math.MaxFloat64, SNE{N: big.NewInt(1<<53 - 1), E: 971}, Finite},
		"Zero":      {0, SNE{N: big.NewInt(0)}, Finite},
		"NegZero":   {math.Copysign(0, -1), SNE{}, MinusZero},
		"PlusInf":   {math.Inf(1), SNE{}, PlusInfinity},
		"MinusInf":  {math.Inf(-1), SNE{}, MinusInfinity},
		"NaN":       {math.NaN(), SNE{}, NotANumber},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, special := DecomposeFloat64(tc.f)
			if special != tc.special {
				t.Fatalf("DecomposeFloat64(%g) special = %s, want %s", tc.f, special, tc.special)
			}
			if special != Finite {
				return
			}
			if got.Negative != tc.want.Negative || got.N.Cmp(tc.want.N) != 0 || got.E != tc.want.E {
				t.Errorf("DecomposeFloat64(%g) = %v, want %v", tc.f, got, tc.want)
			}
		})
	}
}

func TestSNE_Float64(t *testing.T) {
	tests := map[string]struct {
		x       SNE
		want    float64
		wantAcc big.Accuracy
	}{
		"Exact":            {SNE{N: big.NewInt(5), E: -5}, 0.15625, big.Exact},
		"EvenMantissa":     {SNE{N: big.NewInt(20), E: -2}, 5, big.Exact},
		"Overflow":         {SNE{N: big.NewInt(1), E: 1024}, math.Inf(1), big.Above},
		"NegativeOverflow": {SNE{Negative: true, N: big.NewInt(1), E: 1 << 50}, math.Inf(-1), big.Below},
		"Underflow":        {SNE{N: big.NewInt(1), E: -1075}, 0, big.Below},
		"NegUnderflow":     {SNE{Negative: true, N: big.NewInt(1), E: -1 << 50}, math.Copysign(0, -1), big.Above},
		"Truncated":        {SNE{N: big.NewInt(1<<53 + 1), E: 0}, 1 << 53, big.Below},
		"NegTruncated":     {SNE{Negative: true, N: big.NewInt(1<<53 + 1), E: 0}, -(1 << 53), big.Above},
		"SubnormalTrunc":   {SNE{N: big.NewInt(3), E: -1075}, math.SmallestNonzeroFloat64, big.Below},
		"Zero":             {SNE{}, 0, big.Exact},
		"NegZero":          {SNE{Negative: true}, math.Copysign(0, -1), big.Exact},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, acc := tc.x.Float64()
			if math.Float64bits(got) != math.Float64bits(tc.want) || acc != tc.wantAcc {
				t.Errorf("Float64() = %g (%s), want %g (%s)", got, acc, tc.want, tc.wantAcc)
			}
		})
	}
}

func TestDecomposeDecimal(t *testing.T) {
	tests := map[string]struct {
		d        *apd.Decimal
		maxBytes int
		want     SNE
		wantAcc  big.Accuracy
		wantErr  error
	}{
		"Half":        {apd.New(5, -1), 0, SNE{N: big.NewInt(1), E: -1}, big.Exact, nil},
		"Tenth":       {apd.New(1, -1), 1, SNE{N: big.NewInt(51), E: -9}, big.Below, nil},
		"NegTenth":    {apd.New(-1, -1), 1, SNE{Negative: true, N: big.NewInt(51), E: -9}, big.Above, nil},
		"Integral":    {apd.New(1000, 0), 1, SNE{N: big.NewInt(125), E: 3}, big.Exact, nil},
		"IntegralCut": {apd.New(1001, 0), 1, SNE{N: big.NewInt(125), E: 3}, big.Below, nil},
		"Infinite":    {&apd.Decimal{Form: apd.Infinite}, 0, SNE{}, big.Exact, asn1.ErrUnsupportedValue},
		"HugeExp":     {apd.New(1, 1<<30), 0, SNE{}, big.Exact, asn1.ErrUnsupportedValue},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, acc, err := DecomposeDecimal(tc.d, tc.maxBytes)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("DecomposeDecimal(%s) error = %v, want %v", tc.d, err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if got.Negative != tc.want.Negative || got.N.Cmp(tc.want.N) != 0 || got.E != tc.want.E || acc != tc.wantAcc {
				t.Errorf("DecomposeDecimal(%s) = %v (%s), want %v (%s)", tc.d, got, acc, tc.want, tc.wantAcc)
			}
		})
	}
}

func TestRealCodec_LogsPrecisionLoss(t *testing.T) {
	var buf bytes.Buffer
	c := RealCodec{MaxMantissaBytes: 1, Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	b, err := c.Encode(RealFromDecimal(apd.New(1001, 0)), Base2, NR3)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %s", err)
	}
	if want := []byte{0x80, 0x03, 0x7D}; !bytes.Equal(b, want) {
		t.Errorf("Encode() = % X, want % X", b, want)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "exceeds mantissa width") {
		t.Errorf("Encode() logged %q, want a warning about the mantissa width", buf.String())
	}

	buf.Reset()
	f, err := c.DecodeFloat64([]byte("\x020.1"))
	if err != nil {
		t.Fatalf("DecodeFloat64() returned an unexpected error: %s", err)
	}
	if f != 0.1 {
		t.Errorf("DecodeFloat64() = %g, want 0.1", f)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("DecodeFloat64() logged %q, want a warning", buf.String())
	}
}

func TestReal_Float64(t *testing.T) {
	tests := map[string]struct {
		x       Real
		want    float64
		wantAcc big.Accuracy
	}{
		"Decimal":       {decimalReal(false, 25, 1, NR3), 250, big.Exact},
		"DecimalTenth":  {decimalReal(false, 1, -1, NR3), 0.1, big.Above},
		"NegativeTenth": {decimalReal(true, 1, -1, NR3), -0.1, big.Below},
		"DecimalHuge":   {decimalReal(false, 1, 400, NR3), math.Inf(1), big.Above},
		"DecimalTiny":   {decimalReal(true, 1, -400, NR3), math.Copysign(0, -1), big.Above},
		"Binary":        {binaryReal(true, 3, -1), -1.5, big.Exact},
		"Zero":          {Real{}, 0, big.Exact},
		"MinusZero":     {Real{Special: MinusZero}, math.Copysign(0, -1), big.Exact},
		"PlusInf":       {Real{Special: PlusInfinity}, math.Inf(1), big.Exact},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, acc := tc.x.Float64()
			if math.Float64bits(got) != math.Float64bits(tc.want) || acc != tc.wantAcc {
				t.Errorf("Float64() = %g (%s), want %g (%s)", got, acc, tc.want, tc.wantAcc)
			}
		})
	}
}

func TestReal_Decimal(t *testing.T) {
	tests := map[string]struct {
		x    Real
		want *apd.Decimal
	}{
		"Binary":   {RealFromFloat64(0.15625), apd.New(15625, -5)},
		"Integral": {RealFromInt(1 << 20), apd.New(1<<20, 0)},
		"Decimal":  {decimalReal(true, 25, 3, NR3), apd.New(-25, 3)},
		"Zero":     {Real{}, apd.New(0, 0)},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.x.Decimal()
			if err != nil {
				t.Fatalf("Decimal() returned an unexpected error: %s", err)
			}
			if got.Cmp(tc.want) != 0 {
				t.Errorf("Decimal() = %s, want %s", got, tc.want)
			}
		})
	}

	d, err := Real{Special: MinusInfinity}.Decimal()
	if err != nil || d.Form != apd.Infinite || !d.Negative {
		t.Errorf("Decimal() = %s, %v, want -Infinity", d, err)
	}
	if _, err = binaryReal(false, 1, 1<<40).Decimal(); !errors.Is(err, asn1.ErrUnsupportedValue) {
		t.Errorf("Decimal() error = %v, want %v", err, asn1.ErrUnsupportedValue)
	}
}

func TestRealFromDecimal(t *testing.T) {
	nan, _, _ := apd.NewFromString("NaN")
	negZero, _, _ := apd.NewFromString("-0")
	tests := map[string]struct {
		d    *apd.Decimal
		want Real
	}{
		"NaN":     {nan, Real{Special: NotANumber}},
		"NegZero": {negZero, Real{Special: MinusZero}},
		"Finite":  {apd.New(-15, -1), decimalReal(true, 15, -1, NR3)},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := RealFromDecimal(tc.d); !realEqual(got, tc.want) {
				t.Errorf("RealFromDecimal(%s) = %v, want %v", tc.d, got, tc.want)
			}
		})
	}
}

func TestRealFromInt(t *testing.T) {
	tests := map[string]struct {
		got  Real
		want Real
	}{
		"Twelve":   {RealFromInt(12), binaryReal(false, 3, 2)},
		"MinusOne": {RealFromInt(int8(-1)), binaryReal(true, 1, 0)},
		"Zero":     {RealFromInt(0), Real{}},
		"MinInt64": {RealFromInt(int64(math.MinInt64)), binaryReal(true, 1, 63)},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if !realEqual(tc.got, tc.want) {
				t.Errorf("RealFromInt() = %v, want %v", tc.got, tc.want)
			}
		})
	}
	if got := RealFromInt(uint64(math.MaxUint64)); got.Mantissa.Cmp(new(big.Int).SetUint64(math.MaxUint64)) != 0 {
		t.Errorf("RealFromInt(MaxUint64) = %v", got)
	}
}

func ExampleRealCodec() {
	var c RealCodec
	b, _ := c.EncodeFloat64(0.15625)
	fmt.Printf("% x\n", b)

	x, _ := c.Decode([]byte("\x0315625.E-5"))
	f, acc := x.Float64()
	fmt.Println(x, f, acc)

	// Output:
	// 80 fb 05
	// 15625e-5 0.15625 Exact
}

func BenchmarkRealCodec_Float64(b *testing.B) {
	var c RealCodec
	for b.Loop() {
		data, err := c.EncodeFloat64(math.Pi)
		if err != nil {
			b.Fatal(err)
		}
		if _, err = c.DecodeFloat64(data); err != nil {
			b.Fatal(err)
		}
	}
}
