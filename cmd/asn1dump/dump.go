// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/neilotoole/jsoncolor"
	"golang.org/x/sync/errgroup"

	"asn1util.dev/asn1"
	"asn1util.dev/asn1/ber"
	"asn1util.dev/asn1/tlv"
)

// config holds the settings of a dump.
type config struct {
	mode   tlv.Mode
	hex    bool
	json   bool
	names  OIDNamer     // may be nil
	logger *slog.Logger // receives the token trace, may be nil
}

// run dumps every file in paths to stdout. The files are decoded concurrently
// and their output is written in order. If more than one file is given, every
// output is preceded by a header with the file name. The output of files that
// were decoded before an error is written anyway.
func run(ctx context.Context, cfg config, paths []string, stdin io.Reader, stdout io.Writer) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	outputs := make([]bytes.Buffer, len(paths))
	readStdin := sync.OnceValues(func() ([]byte, error) { return io.ReadAll(stdin) })
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readInput(path, readStdin, cfg.hex)
			if err != nil {
				return err
			}
			slog.Debug("decoding input", "path", path, "bytes", len(data), "mode", cfg.mode)
			if err = cfg.dump(&outputs[i], data); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	err := g.Wait()
	for i, path := range paths {
		if len(paths) > 1 {
			if _, wErr := fmt.Fprintf(stdout, "==> %s <==\n", path); wErr != nil {
				return wErr
			}
		}
		if _, wErr := stdout.Write(outputs[i].Bytes()); wErr != nil {
			return wErr
		}
	}
	return err
}

// readInput reads the file at path, or the result of readStdin if path is "-".
// If isHex is set the input is hexadecimal text. Whitespace in hex input is
// ignored.
func readInput(path string, readStdin func() ([]byte, error), isHex bool) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = readStdin()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !isHex {
		return data, nil
	}
	data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex input: %w", path, err)
	}
	return data, nil
}

// dump decodes data and writes the result to w.
func (cfg config) dump(w io.Writer, data []byte) error {
	r := tlv.NewReader(bytes.NewReader(data), cfg.mode)
	if cfg.logger != nil {
		r.SetLogger(cfg.logger)
	}
	f := &formatter{reg: ber.NewRegistry(cfg.mode), names: cfg.names}
	if cfg.json {
		roots, err := r.ReadAll()
		if err != nil {
			return err
		}
		if err = writeJSON(w, f.tree(r, roots)); err != nil {
			return err
		}
		return f.err
	}

	p := &printer{w: w, f: f}
	p.header()
	r.Observe(p)
	if _, err := r.ReadAll(); err != nil {
		return err
	}
	if p.err != nil {
		return p.err
	}
	return f.err
}

//region Values

// maxHexBytes limits the number of bytes printed for values shown in hex.
const maxHexBytes = 32

// formatter turns primitive tokens into printable values. It remembers the
// first error from a codec.
type formatter struct {
	reg   *ber.Registry
	names OIDNamer
	err   error
}

// value returns a textual representation of the value of the primitive token t.
// Tags without a codec are printed in hex. If the codec fails, the error
// message is returned and ok is false.
func (f *formatter) value(t *tlv.Token) (s string, ok bool) {
	tag := t.Identifier.Tag()
	c, found := f.reg.Lookup(tag)
	if !found {
		return hexString(t.Value), true
	}
	v, err := c.Decode(t.Value)
	if err != nil {
		if f.err == nil {
			f.err = &ber.SyntaxError{Tag: tag, Offset: t.TagOffset, Err: err}
		}
		return err.Error(), false
	}
	return f.format(v), true
}

func (f *formatter) format(v any) string {
	switch v := v.(type) {
	case asn1.ObjectIdentifier:
		if f.names != nil {
			if name, ok := f.names.Name(v); ok {
				return v.String() + " (" + name + ")"
			}
		}
		return v.String()
	case []byte:
		return hexString(v)
	case asn1.String:
		return strconv.Quote(v.Value)
	case asn1.Null:
		return "NULL"
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func hexString(b []byte) string {
	if len(b) > maxHexBytes {
		return fmt.Sprintf("% x ... (%d bytes)", b[:maxHexBytes], len(b))
	}
	return fmt.Sprintf("% x", b)
}

// universalNames holds the ASN.1 names of universal tags.
var universalNames = map[uint]string{
	asn1.TagBoolean:          "BOOLEAN",
	asn1.TagInteger:          "INTEGER",
	asn1.TagBitString:        "BIT STRING",
	asn1.TagOctetString:      "OCTET STRING",
	asn1.TagNull:             "NULL",
	asn1.TagOID:              "OBJECT IDENTIFIER",
	asn1.TagObjectDescriptor: "ObjectDescriptor",
	asn1.TagExternal:         "EXTERNAL",
	asn1.TagReal:             "REAL",
	asn1.TagEnumerated:       "ENUMERATED",
	asn1.TagEmbeddedPDV:      "EMBEDDED PDV",
	asn1.TagUTF8String:       "UTF8String",
	asn1.TagRelativeOID:      "RELATIVE-OID",
	asn1.TagTime:             "TIME",
	asn1.TagSequence:         "SEQUENCE",
	asn1.TagSet:              "SET",
	asn1.TagNumericString:    "NumericString",
	asn1.TagPrintableString:  "PrintableString",
	asn1.TagTeletexString:    "TeletexString",
	asn1.TagVideotexString:   "VideotexString",
	asn1.TagIA5String:        "IA5String",
	asn1.TagUTCTime:          "UTCTime",
	asn1.TagGeneralizedTime:  "GeneralizedTime",
	asn1.TagGraphicString:    "GraphicString",
	asn1.TagVisibleString:    "VisibleString",
	asn1.TagGeneralString:    "GeneralString",
	asn1.TagUniversalString:  "UniversalString",
	asn1.TagCharacterString:  "CHARACTER STRING",
	asn1.TagBMPString:        "BMPString",
	asn1.TagDate:             "DATE",
	asn1.TagTimeOfDay:        "TIME-OF-DAY",
	asn1.TagDateTime:         "DATE-TIME",
	asn1.TagDuration:         "DURATION",
}

// tagName returns the name of a universal tag or the bracket notation of any
// other tag.
func tagName(tag asn1.Tag) string {
	if tag.Class == asn1.ClassUniversal {
		if name, ok := universalNames[tag.Number]; ok {
			return name
		}
	}
	return tag.String()
}

//endregion

//region Table Output

// printer is a [tlv.Observer] that writes one line per token. Constructed
// tokens are printed when they begin, primitive tokens when their value is
// complete.
type printer struct {
	w   io.Writer
	f   *formatter
	err error // first write error
}

const lineFormat = "%-8v%-8v%-8v%-40s%-8v%s"

func (p *printer) header() {
	p.line(fmt.Sprintf(lineFormat, "T", "L", "V", "Tag", "Length", "Value"))
}

func (p *printer) Observe(ev tlv.Event, t *tlv.Token, stack []*tlv.Token) {
	var value string
	switch {
	case ev == tlv.EventBegin && t.Constructed():
	case ev == tlv.EventEnd && !t.Constructed():
		var ok bool
		if value, ok = p.f.value(t); !ok {
			value = "!" + value
		}
	default:
		return
	}
	length := strconv.Itoa(t.Length)
	if t.Length == tlv.LengthIndefinite {
		length = "inf"
	}
	tag := strings.Repeat("  ", len(stack)) + tagName(t.Identifier.Tag())
	p.line(fmt.Sprintf(lineFormat, t.TagOffset, t.LengthOffset, t.ValueOffset, tag, length, value))
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, strings.TrimRight(s, " ")+"\n")
}

//endregion

//region JSON Output

// node is the JSON representation of a token.
type node struct {
	Tag         string  `json:"tag"`
	Constructed bool    `json:"constructed,omitempty"`
	Offset      int64   `json:"offset"`
	Length      int     `json:"length"` // -1 for the indefinite form
	Value       string  `json:"value,omitempty"`
	Error       string  `json:"error,omitempty"`
	Children    []*node `json:"children,omitempty"`
}

// tree builds the nodes for the given root tokens of r.
func (f *formatter) tree(r *tlv.Reader, roots []*tlv.Token) []*node {
	nodes := make([]*node, 0, len(roots))
	for _, t := range roots {
		nodes = append(nodes, f.node(r, t))
	}
	return nodes
}

func (f *formatter) node(r *tlv.Reader, t *tlv.Token) *node {
	n := &node{
		Tag:         tagName(t.Identifier.Tag()),
		Constructed: t.Constructed(),
		Offset:      t.TagOffset,
		Length:      t.Length,
	}
	if !t.Constructed() {
		if v, ok := f.value(t); ok {
			n.Value = v
		} else {
			n.Error = v
		}
		return n
	}
	for _, i := range t.Children {
		n.Children = append(n.Children, f.node(r, r.Token(i)))
	}
	return n
}

// writeJSON writes v as indented JSON. Colors are used if w is a terminal.
func writeJSON(w io.Writer, v any) error {
	enc := jsoncolor.NewEncoder(w)
	if jsoncolor.IsColorTerminal(w) {
		enc.SetColors(jsoncolor.DefaultColors())
	}
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

//endregion
