// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"log/slog"
	"math"
	"math/big"
	"math/bits"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/exp/constraints"

	"asn1util.dev/asn1"
)

//go:generate stringer -type=Special,NumeralForm -output=real_string.go

// Special identifies the special REAL values of Rec. ITU-T X.690, Section
// 8.5.9. The zero value marks a finite number.
type Special uint8

const (
	Finite Special = iota
	PlusInfinity
	MinusInfinity
	NotANumber
	MinusZero
)

// specialOctets maps special values to their single contents octet.
var specialOctets = [...]byte{
	PlusInfinity:  0x40,
	MinusInfinity: 0x41,
	NotANumber:    0x42,
	MinusZero:     0x43,
}

// Base is the base of a REAL encoding. Base2, Base8 and Base16 select the
// binary encoding, Base10 the decimal encoding.
type Base uint8

const (
	Base2  Base = 2
	Base8  Base = 8
	Base16 Base = 16
	Base10 Base = 10
)

// String returns the decimal value of b prefixed with "base".
func (b Base) String() string {
	return "base " + strconv.Itoa(int(b))
}

// binary reports whether b selects the binary encoding.
func (b Base) binary() bool {
	return b == Base2 || b == Base8 || b == Base16
}

// bits returns the number of bits per digit of a binary base.
func (b Base) bits() int64 {
	switch b {
	case Base8:
		return 3
	case Base16:
		return 4
	}
	return 1
}

// NumeralForm is one of the ISO 6093 numeral forms used by the decimal REAL
// encoding.
type NumeralForm uint8

const (
	NR1 NumeralForm = iota + 1 // integers
	NR2                        // fixed point
	NR3                        // floating point
)

// SNE is the binary decomposition (-1)^S × N × 2^E of a finite number. N is
// never negative.
type SNE struct {
	Negative bool
	N        *big.Int
	E        int64
}

// IsZero reports whether x has a zero mantissa.
func (x SNE) IsZero() bool {
	return x.N == nil || x.N.Sign() == 0
}

// Float64 returns the float64 value nearest to x that does not exceed its
// magnitude. Values too large for a float64 become infinities, values too
// small become a signed zero. The accuracy reports the direction of any
// deviation from the exact value.
func (x SNE) Float64() (float64, big.Accuracy) {
	// below and above are the accuracies for a truncated or an enlarged
	// magnitude respectively.
	below, above := big.Below, big.Above
	sign := 1
	if x.Negative {
		below, above = above, below
		sign = -1
	}
	if x.IsZero() {
		return math.Copysign(0, float64(sign)), big.Exact
	}
	n := new(big.Int).Abs(x.N)
	bl := int64(n.BitLen())
	switch {
	case x.E > 1100:
		return math.Inf(sign), above
	case x.E < -(1<<40) || x.E+bl < -1075:
		return math.Copysign(0, float64(sign)), below
	}

	acc := big.Exact
	e := x.E
	if bl > 53 {
		shift := uint(bl - 53)
		if n.TrailingZeroBits() < shift {
			acc = below
		}
		n.Rsh(n, shift)
		e += int64(shift)
	} else {
		n.Lsh(n, uint(53-bl))
		e -= 53 - bl
	}
	// n × 2^e with 2^52 <= n < 2^53
	m := n.Uint64()
	var u uint64
	switch field := e + 52 + 1023; {
	case field >= 0x7FF:
		return math.Inf(sign), above
	case field <= 0:
		shift := uint64(1 - field)
		if shift >= 64 {
			return math.Copysign(0, float64(sign)), below
		}
		if m&(1<<shift-1) != 0 {
			acc = below
		}
		u = m >> shift
	default:
		u = uint64(field)<<52 | m&(1<<52-1)
	}
	if x.Negative {
		u |= 1 << 63
	}
	return math.Float64frombits(u), acc
}

// canonical returns x with all trailing zero bits of the mantissa moved into
// the exponent.
func (x SNE) canonical() SNE {
	if x.IsZero() {
		return SNE{Negative: x.Negative, N: new(big.Int)}
	}
	n := new(big.Int).Abs(x.N)
	tz := n.TrailingZeroBits()
	n.Rsh(n, tz)
	return SNE{Negative: x.Negative, N: n, E: x.E + int64(tz)}
}

// DecomposeFloat64 splits f into its binary decomposition by extracting the
// IEEE 754 fields. The mantissa of the result is odd. If f is an infinity, NaN
// or negative zero, the returned Special identifies it and the SNE is zero.
func DecomposeFloat64(f float64) (SNE, Special) {
	u := math.Float64bits(f)
	neg := u>>63 != 0
	exp := int64(u>>52) & 0x7FF
	frac := u & (1<<52 - 1)

	var n uint64
	var e int64
	switch {
	case exp == 0x7FF && frac != 0:
		return SNE{}, NotANumber
	case exp == 0x7FF && neg:
		return SNE{}, MinusInfinity
	case exp == 0x7FF:
		return SNE{}, PlusInfinity
	case exp == 0 && frac == 0 && neg:
		return SNE{}, MinusZero
	case exp == 0 && frac == 0:
		return SNE{N: new(big.Int)}, Finite
	case exp == 0:
		// subnormal
		n, e = frac, -1074
	default:
		n, e = frac|1<<52, exp-1075
	}
	tz := bits.TrailingZeros64(n)
	return SNE{Negative: neg, N: new(big.Int).SetUint64(n >> tz), E: e + int64(tz)}, Finite
}

// DecomposeDecimal converts d into a binary decomposition whose mantissa has
// at most maxBytes bytes. A maxBytes of 0 or less means 8 bytes. The conversion
// truncates and reports the direction of any precision loss in the returned
// accuracy. If the integral part of d alone exceeds maxBytes, the low bits of
// the integral part are dropped as well.
func DecomposeDecimal(d *apd.Decimal, maxBytes int) (SNE, big.Accuracy, error) {
	x, acc, _, err := decomposeDecimal(d, maxBytes)
	return x, acc, err
}

// maxDecimalExponent bounds the decimal exponents converted to binary. Larger
// exponents are far outside any useful binary precision.
const maxDecimalExponent = 100_000

// decomposeDecimal implements DecomposeDecimal and additionally reports whether
// the integral part overflowed the mantissa width.
func decomposeDecimal(d *apd.Decimal, maxBytes int) (x SNE, acc big.Accuracy, overflow bool, err error) {
	if d.Form != apd.Finite {
		return SNE{}, big.Exact, false, asn1.UnsupportedValue("cannot decompose " + d.String())
	}
	if maxBytes <= 0 {
		maxBytes = 8
	}
	if d.IsZero() {
		return SNE{Negative: d.Negative, N: new(big.Int)}, big.Exact, false, nil
	}
	if d.Exponent > maxDecimalExponent || d.Exponent < -maxDecimalExponent {
		return SNE{}, big.Exact, false, asn1.UnsupportedValue("decimal exponent out of range: " + strconv.Itoa(int(d.Exponent)))
	}

	// |d| = num / den
	num := new(big.Int).Set(d.Coeff.MathBigInt())
	den := big.NewInt(1)
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(d.Exponent))), nil)
	if d.Exponent >= 0 {
		num.Mul(num, pow)
	} else {
		den = pow
	}

	// Choose k such that floor(|d| × 2^k) has exactly width bits.
	width := int64(maxBytes) * 8
	k := width - int64(num.BitLen()-den.BitLen())
	n, rem := scaledQuo(num, den, k)
	if int64(n.BitLen()) > width {
		k--
		n, rem = scaledQuo(num, den, k)
	}
	overflow = k < 0
	acc = big.Exact
	if rem {
		acc = big.Below
		if d.Negative {
			acc = big.Above
		}
	}
	return SNE{Negative: d.Negative, N: n, E: -k}.canonical(), acc, overflow, nil
}

// scaledQuo returns floor(num × 2^k / den) and whether the division had a
// remainder.
func scaledQuo(num, den *big.Int, k int64) (*big.Int, bool) {
	a, b := new(big.Int).Set(num), new(big.Int).Set(den)
	if k >= 0 {
		a.Lsh(a, uint(k))
	} else {
		b.Lsh(b, uint(-k))
	}
	q, r := a.QuoRem(a, b, new(big.Int))
	return q, r.Sign() != 0
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// A Real is a decoded ASN.1 REAL value. A finite Real has the magnitude
// Mantissa × 2^Exponent if Base is binary and Mantissa × 10^Exponent if Base is
// Base10. Base and Form record the encoding a value was decoded from. The zero
// value is positive zero.
type Real struct {
	Special  Special
	Negative bool
	Mantissa *big.Int // never negative
	Exponent int64
	Base     Base
	Form     NumeralForm // only for Base10
}

// RealFromFloat64 returns the exact REAL value of f.
func RealFromFloat64(f float64) Real {
	x, special := DecomposeFloat64(f)
	if special != Finite {
		return Real{Special: special}
	}
	return Real{Negative: x.Negative, Mantissa: x.N, Exponent: x.E, Base: Base2}
}

// RealFromDecimal returns the exact REAL value of d. Both NaN forms of d map to
// [NotANumber].
func RealFromDecimal(d *apd.Decimal) Real {
	switch {
	case d.Form == apd.NaN || d.Form == apd.NaNSignaling:
		return Real{Special: NotANumber}
	case d.Form == apd.Infinite && d.Negative:
		return Real{Special: MinusInfinity}
	case d.Form == apd.Infinite:
		return Real{Special: PlusInfinity}
	case d.IsZero() && d.Negative:
		return Real{Special: MinusZero}
	}
	return Real{
		Negative: d.Negative,
		Mantissa: new(big.Int).Set(d.Coeff.MathBigInt()),
		Exponent: int64(d.Exponent),
		Base:     Base10,
		Form:     NR3,
	}
}

// RealFromInt returns the exact REAL value of i in its canonical binary form.
func RealFromInt[T constraints.Integer](i T) Real {
	n := new(big.Int)
	if i < 0 {
		n.SetInt64(int64(i))
	} else {
		n.SetUint64(uint64(i))
	}
	x := SNE{Negative: i < 0, N: n}.canonical()
	return Real{Negative: x.Negative, Mantissa: x.N, Exponent: x.E, Base: Base2}
}

// IsZero reports whether x is a finite zero.
func (x Real) IsZero() bool {
	return x.Special == Finite && (x.Mantissa == nil || x.Mantissa.Sign() == 0)
}

// SNE returns the binary decomposition of a finite binary Real. The second
// return value is false for specials and decimal values.
func (x Real) SNE() (SNE, bool) {
	if x.Special != Finite || x.Base == Base10 {
		return SNE{}, false
	}
	n := x.Mantissa
	if n == nil {
		n = new(big.Int)
	}
	return SNE{Negative: x.Negative, N: n, E: x.Exponent}, true
}

// Float64 returns the float64 value of x. Binary values are truncated towards
// zero, decimal values are rounded to the nearest float64. The accuracy reports
// the direction of any deviation.
func (x Real) Float64() (float64, big.Accuracy) {
	switch x.Special {
	case PlusInfinity:
		return math.Inf(1), big.Exact
	case MinusInfinity:
		return math.Inf(-1), big.Exact
	case NotANumber:
		return math.NaN(), big.Exact
	case MinusZero:
		return math.Copysign(0, -1), big.Exact
	}
	if x.IsZero() {
		return 0, big.Exact
	}
	if x.Base != Base10 {
		sne, _ := x.SNE()
		return sne.Float64()
	}
	return decimalFloat64(x.Negative, x.Mantissa, x.Exponent)
}

// decimalFloat64 converts ±m × 10^exp to the nearest float64.
func decimalFloat64(neg bool, m *big.Int, exp int64) (float64, big.Accuracy) {
	sign := 1
	if neg {
		sign = -1
	}
	// 30103/100000 approximates log10(2)
	digits := int64(m.BitLen())*30103/100000 + 1
	var f float64
	var acc big.Accuracy
	switch adj := exp + digits; {
	case exp > 400 || adj > 310:
		f, acc = math.Inf(1), big.Above
	case exp < -(1<<20) || adj < -330:
		f, acc = 0, big.Below
	default:
		r := new(big.Rat).SetInt(m)
		pow := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(abs(exp)), nil))
		if exp >= 0 {
			r.Mul(r, pow)
		} else {
			r.Quo(r, pow)
		}
		var exact bool
		f, exact = r.Float64()
		switch {
		case exact:
			acc = big.Exact
		case math.IsInf(f, 0) || new(big.Rat).SetFloat64(f).Cmp(r) > 0:
			acc = big.Above
		default:
			acc = big.Below
		}
	}
	if neg {
		acc = -acc
	}
	return math.Copysign(f, float64(sign)), acc
}

// maxBinaryExponent bounds the binary exponents converted to decimal.
const maxBinaryExponent = 1 << 20

// Decimal returns the exact decimal value of x.
func (x Real) Decimal() (*apd.Decimal, error) {
	d := new(apd.Decimal)
	switch x.Special {
	case PlusInfinity:
		d.Form = apd.Infinite
		return d, nil
	case MinusInfinity:
		d.Form = apd.Infinite
		d.Negative = true
		return d, nil
	case NotANumber:
		d.Form = apd.NaN
		return d, nil
	case MinusZero:
		d.Negative = true
		return d, nil
	}
	if x.IsZero() {
		return d, nil
	}
	coeff, exp := x.Mantissa, x.Exponent
	if x.Base != Base10 {
		if exp > maxBinaryExponent || exp < -maxBinaryExponent {
			return nil, asn1.UnsupportedValue("binary exponent out of range: " + strconv.FormatInt(exp, 10))
		}
		coeff, exp = binaryToDecimal(coeff, exp)
	}
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return nil, asn1.UnsupportedValue("decimal exponent out of range: " + strconv.FormatInt(exp, 10))
	}
	d.Coeff.SetMathBigInt(coeff)
	d.Exponent = int32(exp)
	d.Negative = x.Negative
	return d, nil
}

// binaryToDecimal returns c and e such that n × 2^exp = c × 10^e.
func binaryToDecimal(n *big.Int, exp int64) (*big.Int, int64) {
	c := new(big.Int).Set(n)
	if exp >= 0 {
		return c.Lsh(c, uint(exp)), 0
	}
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(-exp), nil)
	return c.Mul(c, five), exp
}

// String returns a textual representation of x. Finite values use scientific
// notation with the base of x.
func (x Real) String() string {
	if x.Special != Finite {
		return x.Special.String()
	}
	if x.IsZero() {
		return "0"
	}
	var sb strings.Builder
	if x.Negative {
		sb.WriteByte('-')
	}
	sb.WriteString(x.Mantissa.String())
	if x.Base == Base10 {
		sb.WriteString("e")
	} else {
		sb.WriteString("p")
	}
	sb.WriteString(strconv.FormatInt(x.Exponent, 10))
	return sb.String()
}

// RealCodec encodes and decodes the contents octets of the ASN.1 REAL type as
// specified in Rec. ITU-T X.690, Section 8.5. The zero value is a BER codec
// that converts decimals with 8 byte mantissas and logs to [slog.Default].
type RealCodec struct {
	// DER restricts encoding and decoding to the Distinguished Encoding Rules:
	// base 2 with odd mantissas and no scale factor, or base 10 in NR3 form.
	DER bool
	// MaxMantissaBytes limits the mantissa width when decimals are converted
	// to binary. A value of 0 or less means 8 bytes.
	MaxMantissaBytes int
	Logger           *slog.Logger
}

func (c RealCodec) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Encode returns the contents octets of v in the requested base. form is only
// used for Base10. Binary values converted to Base10 are exact, decimal values
// converted to a binary base may lose precision, which is logged.
func (c RealCodec) Encode(v Real, base Base, form NumeralForm) ([]byte, error) {
	if !base.binary() && base != Base10 {
		return nil, asn1.UnsupportedValue("invalid REAL base " + strconv.Itoa(int(base)))
	}
	if base == Base10 && (form < NR1 || form > NR3) {
		return nil, asn1.UnsupportedValue("invalid numeral form " + strconv.Itoa(int(form)))
	}
	if c.DER {
		if base != Base2 && base != Base10 {
			return nil, asn1.DERIncompatible("REAL base must be 2 or 10")
		}
		if base == Base10 && form != NR3 {
			return nil, asn1.DERIncompatible("decimal REAL must use NR3")
		}
	}
	switch v.Special {
	case Finite:
	case PlusInfinity, MinusInfinity, NotANumber, MinusZero:
		return []byte{specialOctets[v.Special]}, nil
	default:
		return nil, asn1.UnsupportedValue("invalid special REAL value")
	}
	if v.IsZero() {
		if v.Negative {
			return []byte{specialOctets[MinusZero]}, nil
		}
		return nil, nil
	}
	if base == Base10 {
		return c.encodeDecimal(v, form)
	}
	x, ok := v.SNE()
	if !ok {
		d, err := v.Decimal()
		if err != nil {
			return nil, err
		}
		var acc big.Accuracy
		var overflow bool
		x, acc, overflow, err = decomposeDecimal(d, c.MaxMantissaBytes)
		if err != nil {
			return nil, err
		}
		if overflow {
			c.logger().Warn("integral part of decimal REAL exceeds mantissa width", "value", d.String(), "bytes", c.maxBytes())
		} else if acc != big.Exact {
			c.logger().Debug("discarded mantissa bits of decimal REAL", "value", d.String(), "accuracy", acc)
		}
	}
	return appendBinary(nil, x.canonical(), base), nil
}

func (c RealCodec) maxBytes() int {
	if c.MaxMantissaBytes <= 0 {
		return 8
	}
	return c.MaxMantissaBytes
}

// appendBinary appends the binary encoding of x in the given base. x must be
// canonical and non-zero.
//
// See Rec. ITU-T X.690, Section 8.5.7.
func appendBinary(b []byte, x SNE, base Base) []byte {
	e, f := floorDivMod(x.E, base.bits())
	first := byte(0x80)
	if x.Negative {
		first |= 0x40
	}
	switch base {
	case Base8:
		first |= 0x10
	case Base16:
		first |= 0x20
	}
	first |= byte(f) << 2

	el := 1
	for el < 8 && (e >= int64(1)<<(8*el-1) || e < -(int64(1)<<(8*el-1))) {
		el++
	}
	if el <= 3 {
		b = append(b, first|byte(el-1))
	} else {
		b = append(b, first|0x03, byte(el))
	}
	for i := el - 1; i >= 0; i-- {
		b = append(b, byte(e>>(8*i)))
	}
	return append(b, x.N.Bytes()...)
}

// floorDivMod returns q and r with a = q×d + r and 0 <= r < d.
func floorDivMod(a, d int64) (q, r int64) {
	q, r = a/d, a%d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}

// encodeDecimal returns the decimal encoding of the finite, non-zero v.
//
// See Rec. ITU-T X.690, Section 8.5.8 and Section 11.3.1 for the canonical NR3
// form.
func (c RealCodec) encodeDecimal(v Real, form NumeralForm) ([]byte, error) {
	m, exp := v.Mantissa, v.Exponent
	if v.Base != Base10 {
		if exp > maxBinaryExponent || exp < -maxBinaryExponent {
			return nil, asn1.UnsupportedValue("binary exponent out of range: " + strconv.FormatInt(exp, 10))
		}
		m, exp = binaryToDecimal(m, exp)
	}
	digits := m.String()
	trimmed := strings.TrimRight(digits, "0")
	exp += int64(len(digits) - len(trimmed))
	digits = trimmed

	b := []byte{byte(form)}
	if v.Negative {
		b = append(b, '-')
	}
	switch form {
	case NR1:
		if exp < 0 {
			return nil, asn1.UnsupportedValue("NR1 cannot represent fractional values")
		}
		if exp > maxBinaryExponent {
			return nil, asn1.UnsupportedValue("NR1 exponent out of range")
		}
		b = append(b, digits...)
		b = append(b, strings.Repeat("0", int(exp))...)
	case NR2:
		switch {
		case exp >= 0:
			if exp > maxBinaryExponent {
				return nil, asn1.UnsupportedValue("NR2 exponent out of range")
			}
			b = append(b, digits...)
			b = append(b, strings.Repeat("0", int(exp))...)
			b = append(b, '.')
		case -exp >= int64(len(digits)):
			b = append(b, "0."...)
			b = append(b, strings.Repeat("0", int(-exp)-len(digits))...)
			b = append(b, digits...)
		default:
			i := len(digits) + int(exp)
			b = append(b, digits[:i]...)
			b = append(b, '.')
			b = append(b, digits[i:]...)
		}
	case NR3:
		b = append(b, digits...)
		b = append(b, ".E"...)
		if exp == 0 {
			b = append(b, '+', '0')
		} else {
			b = strconv.AppendInt(b, exp, 10)
		}
	}
	return b, nil
}

// Decode decodes the contents octets b of a REAL value.
func (c RealCodec) Decode(b []byte) (Real, error) {
	if len(b) == 0 {
		return Real{Base: Base2}, nil
	}
	switch first := b[0]; {
	case first&0x80 != 0:
		return c.decodeBinary(b)
	case first&0x40 != 0:
		return decodeSpecial(b)
	default:
		return c.decodeDecimal(b)
	}
}

func decodeSpecial(b []byte) (Real, error) {
	for s := PlusInfinity; s <= MinusZero; s++ {
		if specialOctets[s] != b[0] {
			continue
		}
		if len(b) != 1 {
			return Real{}, asn1.InvalidEncoding("trailing octets after special REAL value")
		}
		return Real{Special: s}, nil
	}
	return Real{}, asn1.UnsupportedValue("unknown special REAL value 0x" + strconv.FormatUint(uint64(b[0]), 16))
}

// decodeBinary decodes the binary encoding in b. The exponent of the result is
// always a power of two.
//
// See Rec. ITU-T X.690, Section 8.5.7.
func (c RealCodec) decodeBinary(b []byte) (Real, error) {
	first := b[0]
	var base Base
	switch (first & 0x30) >> 4 {
	case 0:
		base = Base2
	case 1:
		base = Base8
	case 2:
		base = Base16
	default:
		return Real{}, asn1.UnsupportedValue("reserved REAL base")
	}
	f := int64(first&0x0C) >> 2
	if c.DER && base != Base2 {
		return Real{}, asn1.DERIncompatible("REAL base must be 2")
	}
	if c.DER && f != 0 {
		return Real{}, asn1.DERIncompatible("REAL scale factor must be 0")
	}

	b = b[1:]
	el := int(first&0x03) + 1
	if el == 4 {
		if len(b) == 0 {
			return Real{}, asn1.InvalidEncoding("truncated REAL exponent")
		}
		el, b = int(b[0]), b[1:]
		if el == 0 {
			return Real{}, asn1.InvalidEncoding("zero length REAL exponent")
		}
	}
	if len(b) < el {
		return Real{}, asn1.InvalidEncoding("truncated REAL exponent")
	}
	if el > 1 && (b[0] == 0x00 && b[1]&0x80 == 0 || b[0] == 0xFF && b[1]&0x80 != 0) {
		return Real{}, asn1.InvalidEncoding("non-minimal REAL exponent")
	}
	if el > 8 {
		return Real{}, asn1.UnsupportedValue("REAL exponent too large")
	}
	e := int64(int8(b[0]))
	for _, x := range b[1:el] {
		e = e<<8 | int64(x)
	}
	b = b[el:]
	if len(b) == 0 {
		return Real{}, asn1.InvalidEncoding("missing REAL mantissa")
	}
	n := new(big.Int).SetBytes(b)
	if n.Sign() == 0 {
		return Real{}, asn1.InvalidEncoding("zero REAL mantissa")
	}
	if c.DER && n.Bit(0) == 0 {
		return Real{}, asn1.DERIncompatible("even REAL mantissa")
	}
	k := base.bits()
	if e > math.MaxInt64/k-1 || e < math.MinInt64/k+1 {
		return Real{}, asn1.UnsupportedValue("REAL exponent too large")
	}
	return Real{
		Negative: first&0x40 != 0,
		Mantissa: n,
		Exponent: e*k + f,
		Base:     base,
	}, nil
}

// canonicalNR3 matches the NR3 form required by DER.
var canonicalNR3 = regexp.MustCompile(`^-?(?:[1-9]|[1-9][0-9]*[1-9])\.E(?:\+0|-?[1-9][0-9]*)$`)

// decodeDecimal decodes the decimal encoding in b.
//
// See Rec. ITU-T X.690, Section 8.5.8.
func (c RealCodec) decodeDecimal(b []byte) (Real, error) {
	form := NumeralForm(b[0] & 0x3F)
	if form < NR1 || form > NR3 {
		return Real{}, asn1.UnsupportedValue("unknown numeral form " + strconv.Itoa(int(form)))
	}
	s := string(b[1:])
	if c.DER {
		if form != NR3 {
			return Real{}, asn1.DERIncompatible("decimal REAL must use NR3")
		}
		if !canonicalNR3.MatchString(s) {
			return Real{}, asn1.DERIncompatible("non-canonical NR3 value")
		}
	}
	s = strings.TrimLeft(s, " ")
	s = strings.Replace(s, ",", ".", 1)
	if !validateDecimalReal(s, form) {
		return Real{}, asn1.InvalidEncoding("malformed " + form.String() + " value")
	}
	x, err := parseDecimal(s)
	x.Form = form
	return x, err
}

// validateDecimalReal validates the syntax of s according to the numeral form.
// Negative zero and a zero exponent without a plus sign are rejected.
//
// See [ISO 6093].
//
// [ISO 6093]: https://www.iso.org/standard/12285.html
func validateDecimalReal(s string, form NumeralForm) bool {
	if s == "" {
		return false
	}
	check := uint(^s[0]&0x04) >> 2 // 1 if s[0] == '+' or '0', 0 if s[0] == '-'
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	i := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			break
		}
		check += uint(s[i] & 0x0F)
	}
	if i == 0 {
		return false
	}
	s = s[i:]
	if form == NR1 || s == "" {
		return s == "" && check != 0
	}
	if s[0] == '.' {
		for i = 1; i < len(s); i++ {
			if s[i] < '0' || '9' < s[i] {
				break
			}
			check += uint(s[i] & 0x0F)
		}
		s = s[i:]
	}
	// NR2 does not have an exponent
	if form == NR2 || len(s) < 2 {
		return s == "" && check != 0
	}
	if s[0] != 'e' && s[0] != 'E' {
		return false
	}
	s = s[1:]
	expCheck := uint(s[0]&0x02) >> 1 // 1 if s[0] == '+', 0 if s[0] == '-' or '0'
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	for i = 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
		expCheck += uint(s[i] & 0x0F)
	}
	if i == 0 {
		return false
	}
	// zero exponent must have plus sign
	return check != 0 && expCheck != 0
}

// parseDecimal parses a numeral that passed validateDecimalReal.
func parseDecimal(s string) (Real, error) {
	x := Real{Base: Base10}
	if s[0] == '+' || s[0] == '-' {
		x.Negative = s[0] == '-'
		s = s[1:]
	}
	mant, exp, _ := strings.Cut(strings.ToUpper(s), "E")
	intPart, frac, _ := strings.Cut(mant, ".")
	if exp != "" {
		e, err := strconv.ParseInt(exp, 10, 64)
		if err != nil || e < math.MinInt64/2 || e > math.MaxInt64/2 {
			return Real{}, asn1.UnsupportedValue("decimal exponent out of range")
		}
		x.Exponent = e
	}
	x.Exponent -= int64(len(frac))
	x.Mantissa, _ = new(big.Int).SetString(intPart+frac, 10)
	if x.Mantissa.Sign() == 0 {
		x.Negative = false
	}
	return x, nil
}

// EncodeFloat64 returns the canonical base 2 encoding of f.
func (c RealCodec) EncodeFloat64(f float64) ([]byte, error) {
	return c.Encode(RealFromFloat64(f), Base2, NR3)
}

// DecodeFloat64 decodes b and converts the result to a float64. A conversion
// that is not exact is logged but not reported as an error.
func (c RealCodec) DecodeFloat64(b []byte) (float64, error) {
	x, err := c.Decode(b)
	if err != nil {
		return 0, err
	}
	f, acc := x.Float64()
	if acc != big.Exact {
		c.logger().Warn("REAL value is not exactly representable as float64", "value", x.String(), "accuracy", acc)
	}
	return f, nil
}
