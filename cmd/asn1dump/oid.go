// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"asn1util.dev/asn1"
)

// OIDNamer resolves object identifiers to human readable names.
type OIDNamer interface {
	Name(oid asn1.ObjectIdentifier) (string, bool)
}

// oidTable is an [OIDNamer] keyed by the dotted notation of identifiers.
type oidTable map[string]string

func (t oidTable) Name(oid asn1.ObjectIdentifier) (string, bool) {
	name, ok := t[oid.String()]
	return name, ok
}

// wellKnownOIDs names identifiers commonly found in certificates and keys.
var wellKnownOIDs = oidTable{
	"1.2.840.113549.1.1.1":  "rsaEncryption",
	"1.2.840.113549.1.1.5":  "sha1WithRSAEncryption",
	"1.2.840.113549.1.1.10": "rsassa-pss",
	"1.2.840.113549.1.1.11": "sha256WithRSAEncryption",
	"1.2.840.113549.1.1.12": "sha384WithRSAEncryption",
	"1.2.840.113549.1.1.13": "sha512WithRSAEncryption",
	"1.2.840.113549.1.7.1":  "data",
	"1.2.840.113549.1.7.2":  "signedData",
	"1.2.840.113549.1.9.1":  "emailAddress",

	"1.2.840.10045.2.1":   "ecPublicKey",
	"1.2.840.10045.3.1.7": "prime256v1",
	"1.2.840.10045.4.3.2": "ecdsa-with-SHA256",
	"1.2.840.10045.4.3.3": "ecdsa-with-SHA384",
	"1.3.132.0.34":        "secp384r1",
	"1.3.101.112":         "Ed25519",

	"2.16.840.1.101.3.4.2.1": "sha256",
	"2.16.840.1.101.3.4.2.2": "sha384",
	"2.16.840.1.101.3.4.2.3": "sha512",

	"2.5.4.3":  "commonName",
	"2.5.4.5":  "serialNumber",
	"2.5.4.6":  "countryName",
	"2.5.4.7":  "localityName",
	"2.5.4.8":  "stateOrProvinceName",
	"2.5.4.10": "organizationName",
	"2.5.4.11": "organizationalUnitName",

	"2.5.29.14": "subjectKeyIdentifier",
	"2.5.29.15": "keyUsage",
	"2.5.29.17": "subjectAltName",
	"2.5.29.19": "basicConstraints",
	"2.5.29.31": "cRLDistributionPoints",
	"2.5.29.35": "authorityKeyIdentifier",
	"2.5.29.37": "extKeyUsage",

	"1.3.6.1.5.5.7.1.1": "authorityInfoAccess",
	"1.3.6.1.5.5.7.3.1": "serverAuth",
	"1.3.6.1.5.5.7.3.2": "clientAuth",
}

func loadOIDFile(path string, into oidTable) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err = loadOIDTable(f, into); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// loadOIDTable reads lines of the form "1.2.3 name" from r into the table. The
// identifier ends at the first space or tab, the rest of the line is the name.
// Empty lines and lines starting with # are ignored.
func loadOIDTable(r io.Reader, into oidTable) error {
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			return fmt.Errorf("line %d: missing name", n)
		}
		oid, err := parseOID(line[:i])
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		into[oid.String()] = strings.TrimSpace(line[i+1:])
	}
	return s.Err()
}

// parseOID parses the dotted notation of an object identifier.
func parseOID(s string) (asn1.ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid object identifier %q", s)
	}
	oid := make(asn1.ObjectIdentifier, len(parts))
	for i, p := range parts {
		arc, err := strconv.ParseUint(p, 10, strconv.IntSize)
		if err != nil {
			return nil, fmt.Errorf("invalid object identifier %q: %w", s, err)
		}
		oid[i] = uint(arc)
	}
	if oid[0] > 2 || oid[0] < 2 && oid[1] > 39 {
		return nil, fmt.Errorf("invalid object identifier %q", s)
	}
	return oid, nil
}
