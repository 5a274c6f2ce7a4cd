package tlv

import (
	"bytes"
	"io"
)

// frame is an open constructed element of a [Writer].
type frame struct {
	id         Identifier
	indefinite bool
	buf        bytes.Buffer // contents of definite-length elements
}

// Writer is a streaming encoder for TLV-encoded data. Primitive values are
// written with [Writer.AppendPrimitive]. Constructed values are opened with
// [Writer.BeginConstructed] and closed with [Writer.EndConstructed], or written
// in one go using [Writer.Constructed].
//
// Indefinite-length elements are streamed to the underlying writer. The
// contents of definite-length elements are buffered until the element is
// closed. Top-level values are flushed as soon as they are complete.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	mode   Mode
	out    bufferedWriter
	frames []*frame
	hdr    []byte // scratch space for headers
	closed bool
}

// NewWriter creates a new Writer writing to w in the given mode.
func NewWriter(w io.Writer, mode Mode) *Writer {
	wr := &Writer{mode: mode}
	wr.out.Reset(w)
	return wr
}

// Marshal runs fn with a new [Writer] and returns the encoded bytes. All
// constructed elements opened by fn must be closed when fn returns.
func Marshal(mode Mode, fn func(w *Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, mode)
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Mode returns the mode of w.
func (w *Writer) Mode() Mode { return w.mode }

// StackDepth returns the number of open constructed elements.
func (w *Writer) StackDepth() int { return len(w.frames) }

// sink returns the destination of the next TLV at the current level. The
// contents of an indefinite-length element go directly to the sink of its
// parent.
func (w *Writer) sink() io.Writer {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if !w.frames[i].indefinite {
			return &w.frames[i].buf
		}
	}
	return &w.out
}

// header encodes the identifier and length octets into w.hdr.
func (w *Writer) header(id Identifier, length int) ([]byte, error) {
	w.hdr = append(w.hdr[:0], id...)
	return AppendLength(w.hdr, length)
}

// write writes the parts of a TLV to the current sink and flushes top-level
// values.
func (w *Writer) write(parts ...[]byte) error {
	s := w.sink()
	for _, p := range parts {
		if _, err := s.Write(p); err != nil {
			return err
		}
	}
	if len(w.frames) == 0 {
		return w.out.Flush()
	}
	return nil
}

// AppendPrimitive writes a primitive TLV with the given identifier and
// contents octets. id must indicate the primitive encoding.
func (w *Writer) AppendPrimitive(id Identifier, value []byte) error {
	if w.closed {
		return errWriterClosed
	}
	switch {
	case id == "":
		return errEmptyIdentifier
	case id.Constructed():
		return errNotPrimitive
	case id.IsEndOfContents():
		return errInvalidEOC
	}
	hdr, err := w.header(id, len(value))
	if err != nil {
		return err
	}
	return w.write(hdr, value)
}

// BeginConstructed opens a constructed TLV with the given identifier. id must
// indicate the constructed encoding. The indefinite-length form is not allowed
// in [DER] mode.
//
// Every call must be matched by a call to [Writer.EndConstructed].
func (w *Writer) BeginConstructed(id Identifier, indefinite bool) error {
	if w.closed {
		return errWriterClosed
	}
	switch {
	case id == "":
		return errEmptyIdentifier
	case !id.Constructed():
		return errNotConstructed
	case id.IsEndOfContents():
		return errInvalidEOC
	case indefinite && w.mode == DER:
		return errIndefiniteDER
	}
	if indefinite {
		hdr, _ := w.header(id, LengthIndefinite)
		if _, err := w.sink().Write(hdr); err != nil {
			return err
		}
	}
	w.frames = append(w.frames, &frame{id: id, indefinite: indefinite})
	return nil
}

// EndConstructed closes the innermost open constructed TLV. For the
// indefinite-length form an end-of-contents marker is written. For the
// definite-length form the header and the buffered contents are written.
func (w *Writer) EndConstructed() error {
	if len(w.frames) == 0 {
		return errNoOpenElement
	}
	f := w.frames[len(w.frames)-1]
	w.frames = w.frames[:len(w.frames)-1]
	if f.indefinite {
		return w.write([]byte{0x00, 0x00})
	}
	hdr, err := w.header(f.id, f.buf.Len())
	if err != nil {
		return err
	}
	return w.write(hdr, f.buf.Bytes())
}

// Constructed writes a constructed TLV whose contents are produced by fn. The
// element is closed when fn returns, even if fn returns an error or panics.
// Elements that fn opened but did not close are closed as well.
func (w *Writer) Constructed(id Identifier, indefinite bool, fn func() error) (err error) {
	if err = w.BeginConstructed(id, indefinite); err != nil {
		return err
	}
	depth := len(w.frames)
	defer func() {
		for len(w.frames) >= depth {
			if endErr := w.EndConstructed(); err == nil {
				err = endErr
			}
		}
	}()
	return fn()
}

// Close finishes writing. It fails if any constructed element is still open.
// Close does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if len(w.frames) > 0 {
		return errUnclosedElement
	}
	w.closed = true
	return w.out.Flush()
}
