// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command asn1dump prints the structure of BER or DER encoded ASN.1 data.
//
// Every TLV is printed on its own line with the offsets of its identifier,
// length and contents octets, its tag indented by nesting depth, its length and
// the decoded value of primitive values. With -json a tree of the values is
// printed instead. Several files are decoded concurrently and printed in the
// order they were given. A file name of "-" or no file at all reads from
// standard input.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"

	"asn1util.dev/asn1/tlv"
)

var flags = flag.NewFlagSet("asn1dump", flag.ContinueOnError)

var (
	debug    bool
	derMode  bool
	hexInput bool
	jsonOut  bool
	oidFile  string
)

func init() {
	flags.BoolVar(&debug, "debug", false, "Log every token read")
	flags.BoolVar(&derMode, "der", false, "Reject encodings that are not valid DER")
	flags.BoolVar(&hexInput, "hex", false, "Read input as hexadecimal text")
	flags.BoolVar(&jsonOut, "json", false, "Print a JSON tree instead of a table")
	flags.StringVar(&oidFile, "oids", "", "Read additional OID names from `file`")
	flags.Usage = usage
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `
Usage:
  asn1dump [options] [file ...]

Options:
%s
OID files contain one identifier per line in dotted notation, followed by
whitespace and a name. Lines starting with # are ignored.
`, options(flags))
}

func options(flags *flag.FlagSet) string {
	oldOutput := flags.Output()
	defer flags.SetOutput(oldOutput)

	var buf bytes.Buffer
	flags.SetOutput(&buf)
	flags.PrintDefaults()

	return buf.String()
}

func main() {
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if debug {
		level.Set(slog.LevelDebug)
	}

	cfg := config{
		mode:  tlv.BER,
		hex:   hexInput,
		json:  jsonOut,
		names: wellKnownOIDs,
	}
	if derMode {
		cfg.mode = tlv.DER
	}
	if debug {
		cfg.logger = slog.Default()
	}
	if oidFile != "" {
		names := maps.Clone(wellKnownOIDs)
		if err := loadOIDFile(oidFile, names); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "asn1dump: %v\n", err)
			os.Exit(1)
		}
		cfg.names = names
	}

	if err := run(context.Background(), cfg, flags.Args(), os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "asn1dump: %v\n", err)
		os.Exit(2)
	}
}
