package tlv

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"asn1util.dev/asn1"
)

func TestNewIdentifier(t *testing.T) {
	tests := map[string]struct {
		class       asn1.Class
		constructed bool
		number      uint
		want        []byte
	}{
		"Integer":       {asn1.ClassUniversal, false, asn1.TagInteger, []byte{0x02}},
		"Sequence":      {asn1.ClassUniversal, true, asn1.TagSequence, []byte{0x30}},
		"Context":       {asn1.ClassContextSpecific, true, 0, []byte{0xa0}},
		"Application30": {asn1.ClassApplication, false, 30, []byte{0x5e}},
		"LongForm31":    {asn1.ClassUniversal, false, 31, []byte{0x1f, 0x1f}},
		"LongForm128":   {asn1.ClassPrivate, true, 128, []byte{0xff, 0x81, 0x00}},
		"LongForm201":   {asn1.ClassUniversal, false, 201, []byte{0x1f, 0x81, 0x49}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			id := NewIdentifier(tc.class, tc.constructed, tc.number)
			if !bytes.Equal([]byte(id), tc.want) {
				t.Fatalf("NewIdentifier(%v, %t, %d) = % x, want % x", tc.class, tc.constructed, tc.number, []byte(id), tc.want)
			}
			if id.Class() != tc.class || id.Constructed() != tc.constructed || id.Number() != tc.number {
				t.Errorf("decomposed %s, want class %v, constructed %t, number %d", id, tc.class, tc.constructed, tc.number)
			}
			got, err := ReadIdentifier(bytes.NewReader(tc.want), DER)
			if err != nil {
				t.Fatalf("ReadIdentifier(% x) returned an unexpected error: %s", tc.want, err)
			}
			if got != id {
				t.Errorf("ReadIdentifier(% x) = %s, want %s", tc.want, got, id)
			}
		})
	}
}

func TestReadIdentifier(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		mode    Mode
		want    asn1.Tag
		wantErr error
	}{
		"Short":          {[]byte{0x02}, BER, asn1.Universal(asn1.TagInteger), nil},
		"Long":           {[]byte{0x9f, 0x84, 0x01}, BER, asn1.Tag{Class: asn1.ClassContextSpecific, Number: 513}, nil},
		"Long128":        {[]byte{0x1f, 0x81, 0x00}, BER, asn1.Universal(128), nil},
		"LongFormSmall":  {[]byte{0x1f, 0x05}, BER, asn1.Universal(5), nil},
		"DERLongSmall":   {[]byte{0x1f, 0x05}, DER, asn1.Tag{}, asn1.ErrDERIncompatible},
		"NonMinimal":     {[]byte{0x1f, 0x80, 0x01}, BER, asn1.Tag{}, asn1.ErrInvalidEncoding},
		"Unterminated":   {[]byte{0x1f, 0x81}, BER, asn1.Tag{}, asn1.ErrInvalidEncoding},
		"MissingNumber":  {[]byte{0x1f}, BER, asn1.Tag{}, asn1.ErrInvalidEncoding},
		"Overflow":       {[]byte{0x1f, 0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, BER, asn1.Tag{}, asn1.ErrInvalidEncoding},
		"EOF":            {nil, BER, asn1.Tag{}, io.EOF},
		"Trailing":       {[]byte{0x04, 0x01}, BER, asn1.Universal(asn1.TagOctetString), nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := ReadIdentifier(bytes.NewReader(tc.data), tc.mode)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReadIdentifier(% x) error = %v, want %v", tc.data, err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if id.Tag() != tc.want {
				t.Errorf("ReadIdentifier(% x) = %s, want %s", tc.data, id.Tag(), tc.want)
			}
		})
	}
}

func TestIdentifier_String(t *testing.T) {
	tests := map[Identifier]string{
		"\x30":         "[UNIVERSAL 16]/c",
		"\x80":         "[0]/p",
		"\x5f\x81\x00": "[APPLICATION 128]/p",
		"":             "<empty>",
	}
	for id, want := range tests {
		if got := id.String(); got != want {
			t.Errorf("Identifier(% x).String() = %q, want %q", []byte(id), got, want)
		}
	}
}

func TestIdentifier_IsEndOfContents(t *testing.T) {
	tests := map[Identifier]bool{
		EndOfContents: true,
		"\x20":        true,
		"\x80":        false,
		"\x02":        false,
		"":            false,
	}
	for id, want := range tests {
		if got := id.IsEndOfContents(); got != want {
			t.Errorf("Identifier(% x).IsEndOfContents() = %t, want %t", []byte(id), got, want)
		}
	}
}
