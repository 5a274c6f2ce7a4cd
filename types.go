// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
	"unsafe"
)

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits will be encoded and decoded as zero bits.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) == (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String formats s into a readable binary representation. Bits will be grouped
// into bytes. The last group may have fewer than 8 characters.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.BitLength + s.BitLength/8)
	for i := 0; i < s.BitLength; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

//endregion

//region [UNIVERSAL 5] NULL

// Null represents the ASN.1 NULL type.
//
// See also section 24 of Rec. ITU-T X.680.
type Null struct{}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of an object identifier are specified in [Rec. ITU-T X.660].
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 19)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
	}

	return s.String()
}

//endregion

//region [UNIVERSAL 10] ENUMERATED

// Enumerated represents a decoded ASN.1 ENUMERATED value.
//
// See also section 20 of Rec. ITU-T X.680.
type Enumerated int64

//endregion

//region Restricted Character Strings

// StringKind identifies one of the restricted character string types. Each kind
// carries its universal tag and the character set it permits as data, so a
// single [String] type covers all of them.
type StringKind uint8

// Supported restricted character string kinds.
const (
	UTF8String StringKind = iota + 1
	NumericString
	PrintableString
	IA5String
	VisibleString
	UniversalString
	BMPString
)

// stringKinds holds the tag number and validation predicate for every
// [StringKind], indexed by kind.
var stringKinds = [...]struct {
	tag   uint
	valid func(s string) bool
}{
	UTF8String:      {TagUTF8String, utf8.ValidString},
	NumericString:   {TagNumericString, allBytes(isNumeric)},
	PrintableString: {TagPrintableString, allBytes(func(b byte) bool { return isPrintable(b, false, false) })},
	IA5String:       {TagIA5String, allBytes(func(b byte) bool { return b < utf8.RuneSelf })},
	VisibleString:   {TagVisibleString, allBytes(func(b byte) bool { return b >= ' ' && b < 0x7F })},
	UniversalString: {TagUniversalString, utf8.ValidString},
	BMPString:       {TagBMPString, isBMP},
}

// StringKindOf returns the restricted character string kind identified by tag.
func StringKindOf(tag Tag) (StringKind, bool) {
	if tag.Class != ClassUniversal {
		return 0, false
	}
	for k := UTF8String; k <= BMPString; k++ {
		if stringKinds[k].tag == tag.Number {
			return k, true
		}
	}
	return 0, false
}

// IsValid reports whether k is a known kind.
func (k StringKind) IsValid() bool {
	return k >= UTF8String && k <= BMPString
}

// Tag returns the universal tag of k.
func (k StringKind) Tag() Tag {
	return Universal(stringKinds[k].tag)
}

// Permits reports whether every character of s is allowed in strings of kind
// k. The Go representation of s is always UTF-8.
func (k StringKind) Permits(s string) bool {
	return k.IsValid() && stringKinds[k].valid(s)
}

// String is a restricted character string value together with its kind.
type String struct {
	Kind  StringKind
	Value string
}

// IsValid reports whether s.Value is permitted by s.Kind.
func (s String) IsValid() bool {
	return s.Kind.Permits(s.Value)
}

// allBytes returns a predicate that reports whether f holds for every byte.
func allBytes(f func(b byte) bool) func(string) bool {
	return func(s string) bool {
		for i := 0; i < len(s); i++ {
			if !f(s[i]) {
				return false
			}
		}
		return true
	}
}

// isNumeric reports whether b can appear in an ASN.1 NumericString.
func isNumeric(b byte) bool {
	return '0' <= b && b <= '9' || b == ' '
}

// isPrintable reports whether the given b is in the ASN.1 PrintableString set.
// If asterisk is allowAsterisk then '*' is also allowed, reflecting existing
// practice. If ampersand is allowAmpersand then '&' is allowed as well.
func isPrintable(b byte, asterisk, ampersand bool) bool {
	return 'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9' ||
		'\'' <= b && b <= ')' ||
		'+' <= b && b <= '/' ||
		b == ' ' ||
		b == ':' ||
		b == '=' ||
		b == '?' ||
		(asterisk && b == '*') ||
		(ampersand && b == '&')
}

// isBMP reports whether s only contains characters of the Unicode Basic
// Multilingual Plane.
func isBMP(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r > 0xFFFF || (r >= 0xD800 && r < 0xE000) {
			return false
		}
	}
	return true
}

//endregion

//region [UNIVERSAL 23] UTCTime and [UNIVERSAL 24] GeneralizedTime

// TimeKind identifies one of the ASN.1 useful time types. Like [StringKind] the
// kind carries its tag and syntax as data.
type TimeKind uint8

// Supported time kinds.
const (
	UTCTime TimeKind = iota + 1
	GeneralizedTime
)

var timeKinds = [...]struct {
	tag     uint
	pattern *regexp.Regexp
}{
	UTCTime:         {TagUTCTime, regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})?()(Z|[+-]\d{4})$`)},
	GeneralizedTime: {TagGeneralizedTime, regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})?(\d{2})?(?:[.,](\d+))?(Z|[+-]\d{4})?$`)},
}

var errInvalidTime = errors.New("invalid time syntax")

// TimeKindOf returns the time kind identified by tag.
func TimeKindOf(tag Tag) (TimeKind, bool) {
	if tag.Class != ClassUniversal {
		return 0, false
	}
	switch tag.Number {
	case TagUTCTime:
		return UTCTime, true
	case TagGeneralizedTime:
		return GeneralizedTime, true
	}
	return 0, false
}

// Tag returns the universal tag of k.
func (k TimeKind) Tag() Tag {
	return Universal(timeKinds[k].tag)
}

// Permits reports whether t can be represented by k. UTCTime covers the years
// 1950 to 2049, GeneralizedTime the years 1 to 9999.
func (k TimeKind) Permits(t time.Time) bool {
	year := t.Year()
	switch k {
	case UTCTime:
		return year >= 1950 && year < 2050
	case GeneralizedTime:
		return year >= 1 && year <= 9999
	}
	return false
}

// Parse parses the character representation of a time of kind k. A
// GeneralizedTime without a zone designator is returned in [time.Local].
func (k TimeKind) Parse(s string) (time.Time, error) {
	if k != UTCTime && k != GeneralizedTime {
		return time.Time{}, errInvalidTime
	}
	m := timeKinds[k].pattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, errInvalidTime
	}
	year := atoi(m[1])
	if k == UTCTime {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	month, day, hour := atoi(m[2]), atoi(m[3]), atoi(m[4])
	minute, sec, nsec := atoi(m[5]), atoi(m[6]), 0
	if m[7] != "" {
		frac := m[7]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nsec = atoi(frac + strings.Repeat("0", 9-len(frac)))
	}
	loc := time.Local
	switch zone := m[8]; {
	case zone == "Z":
		loc = time.UTC
	case zone != "":
		offset := (atoi(zone[1:3])*60 + atoi(zone[3:5])) * 60
		if zone[0] == '-' {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	if t.Month() != time.Month(month) || t.Day() != day || t.Hour() != hour || t.Minute() != minute || t.Second() != sec {
		return time.Time{}, errInvalidTime
	}
	return t, nil
}

// Format returns the character representation of t for kind k. UTCTime uses the
// format YYMMDDhhmmssZ or YYMMDDhhmmss+hhmm. GeneralizedTime uses
// YYYYMMDDhhmmss[.f], followed by Z or an offset unless t is in [time.Local].
func (k TimeKind) Format(t time.Time) string {
	b := strings.Builder{}
	b.Grow(29) // allocate enough space for nanosecond precision
	if k == UTCTime {
		b.WriteString(itoaN(t.Year()%100, 2))
	} else {
		b.WriteString(itoaN(t.Year()%10000, 4))
	}
	b.WriteString(itoaN(t.Month(), 2))
	b.WriteString(itoaN(t.Day(), 2))
	b.WriteString(itoaN(t.Hour(), 2))
	b.WriteString(itoaN(t.Minute(), 2))
	b.WriteString(itoaN(t.Second(), 2))
	if k == GeneralizedTime {
		if t.Nanosecond() > 0 {
			s := strconv.FormatFloat(float64(t.Nanosecond())/float64(time.Second), 'f', -1, 64)
			b.WriteString(s[1:])
		}
		if t.Location() == time.Local {
			return b.String()
		}
	}
	_, offset := t.Zone()
	offset /= 60
	if offset == 0 {
		b.WriteByte('Z')
		return b.String()
	}
	if offset < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(itoaN(offset/60, 2))
	b.WriteString(itoaN(offset%60, 2))
	return b.String()
}

// Timestamp is a time value together with the ASN.1 time type it is encoded as.
type Timestamp struct {
	Kind TimeKind
	Time time.Time
}

// String returns the character representation of t.
func (t Timestamp) String() string {
	return t.Kind.Format(t.Time)
}

// atoi parses a string of ASCII digits. The caller guarantees the syntax.
func atoi(s string) (i int) {
	for j := 0; j < len(s); j++ {
		i = i*10 + int(s[j]-'0')
	}
	return i
}

// itoaN returns the base 10 string representation of the absolute value of i,
// truncated or zero padded to exactly n digits.
func itoaN[T ~int](i T, n int) string {
	if i < 0 {
		i = -i
	}
	bs := make([]byte, n)
	for ; n > 0; n-- {
		bs[n-1] = '0' + byte(i%10)
		i /= 10
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}

//endregion
