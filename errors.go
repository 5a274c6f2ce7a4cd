// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "errors"

// Error kinds. Every error produced by the codecs in this module wraps exactly
// one of these values.
var (
	// ErrInvalidEncoding indicates malformed identifier, length or contents
	// octets: truncation, non-minimal encodings, boundary violations or a bad
	// end-of-contents marker.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrDERIncompatible indicates an encoding that is valid BER but forbidden by
	// the Distinguished Encoding Rules. It is only reported in DER mode.
	ErrDERIncompatible = errors.New("not allowed in DER")

	// ErrUnsupportedValue indicates a value outside the legal domain of a type,
	// such as a reserved REAL base or a BIT STRING with more than 7 unused bits.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// kindError attaches a message to an error kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// InvalidEncoding returns an error with the given message that wraps
// [ErrInvalidEncoding].
func InvalidEncoding(msg string) error {
	return &kindError{ErrInvalidEncoding, msg}
}

// DERIncompatible returns an error with the given message that wraps
// [ErrDERIncompatible].
func DERIncompatible(msg string) error {
	return &kindError{ErrDERIncompatible, msg}
}

// UnsupportedValue returns an error with the given message that wraps
// [ErrUnsupportedValue].
func UnsupportedValue(msg string) error {
	return &kindError{ErrUnsupportedValue, msg}
}
