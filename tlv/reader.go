package tlv

import (
	"bytes"
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"
)

//region Token

// Token is a single decoded TLV. Tokens are created and owned by a [Reader].
// They refer to their parent and children by their index in the reader's
// token arena (see [Reader.Token]).
//
// All offsets are absolute input offsets. EndOffset is -1 until the token has
// been closed.
type Token struct {
	Identifier Identifier
	Length     int // may be LengthIndefinite

	TagOffset    int64 // offset of the identifier octets
	LengthOffset int64 // offset of the length octets
	ValueOffset  int64 // offset of the first value byte
	EndOffset    int64 // offset after the last byte of the TLV, including an end-of-contents marker

	// Value holds the contents octets of a primitive TLV. It is nil for
	// constructed TLVs.
	Value []byte

	Index    int   // position in the arena
	Parent   int   // index of the parent token, or -1 for top-level tokens
	Children []int // indexes of the child tokens in document order
}

// Constructed reports whether t uses the constructed encoding.
func (t *Token) Constructed() bool { return t.Identifier.Constructed() }

// Closed reports whether the end of t has been reached.
func (t *Token) Closed() bool { return t.EndOffset >= 0 }

//endregion

//region Observer

// Event identifies the kind of notification an [Observer] receives.
type Event uint8

// Observer events.
const (
	EventBegin Event = iota // the header of a TLV has been read
	EventEnd                // a TLV is complete
)

// Observer receives notifications about the progress of a [Reader]. stack
// contains the open constructed ancestors of t, outermost first. Neither t nor
// stack may be modified and stack is only valid during the call.
//
// A [Reader] delivers an [EventBegin] and an [EventEnd] for every token in
// document order. For primitive tokens the value is available at the end
// event.
type Observer interface {
	Observe(ev Event, t *Token, stack []*Token)
}

// ObserverFunc is an adapter to allow the use of ordinary functions as
// observers.
type ObserverFunc func(ev Event, t *Token, stack []*Token)

// Observe calls f(ev, t, stack).
func (f ObserverFunc) Observe(ev Event, t *Token, stack []*Token) { f(ev, t, stack) }

//endregion

//region Reader

// maxValuePrealloc limits how much memory is reserved for a primitive value
// based on its declared length alone.
const maxValuePrealloc = 64 << 10

// Reader is a streaming decoder for TLV-encoded data. It builds a tree of
// [Token] values while it reads the input and notifies registered observers.
//
// A Reader is not safe for concurrent use. Once an error has been returned, all
// further calls return the same error.
type Reader struct {
	mode Mode
	br   interface {
		io.Reader
		io.ByteReader
	}
	buf    bufferedReader // internal buffering
	offset int64          // number of bytes consumed

	state
	tokens []*Token
	roots  []int

	observers []Observer
	logger    *slog.Logger
	scratch   []*Token // stack passed to observers

	err error
}

// NewReader creates a new Reader reading from r in the given mode. If r does
// not implement [io.ByteReader], the Reader does its own buffering. The
// buffering mechanism attempts to buffer at most the bytes that belong to the
// current top-level TLV. However, if a top-level TLV uses the
// indefinite-length form, the Reader may buffer past its end.
func NewReader(r io.Reader, mode Mode) *Reader {
	rd := &Reader{mode: mode}
	rd.state.reset()
	if br, ok := r.(interface {
		io.Reader
		io.ByteReader
	}); ok {
		rd.br = br
	} else {
		rd.buf.Reset(r)
		rd.br = &rd.buf
	}
	return rd
}

// Parse decodes all TLVs in data and returns every token in document order.
// The slice is the token arena: the token at position i has Index i, so parent
// and child indexes refer into it. Top-level tokens have Parent -1.
func Parse(data []byte, mode Mode) ([]*Token, error) {
	r := NewReader(bytes.NewReader(data), mode)
	if _, err := r.ReadAll(); err != nil {
		return nil, err
	}
	return r.Tokens(), nil
}

// Observe registers o to be notified about tokens read by r. Observers should
// be registered before the first call to [Reader.Next].
func (r *Reader) Observe(o Observer) {
	r.observers = append(r.observers, o)
}

// SetLogger makes r log every begin and end event to l at debug level. A nil
// logger disables logging.
func (r *Reader) SetLogger(l *slog.Logger) {
	r.logger = l
}

// Mode returns the mode of r.
func (r *Reader) Mode() Mode { return r.mode }

// Token returns the token with index i.
func (r *Reader) Token(i int) *Token { return r.tokens[i] }

// Tokens returns all tokens decoded so far in document order.
func (r *Reader) Tokens() []*Token { return r.tokens }

// Roots returns the top-level tokens decoded so far.
func (r *Reader) Roots() []*Token {
	roots := make([]*Token, len(r.roots))
	for i, idx := range r.roots {
		roots[i] = r.tokens[idx]
	}
	return roots
}

// StackDepth returns the number of constructed TLVs that are currently open.
func (r *Reader) StackDepth() int { return len(r.stack) }

// InputOffset returns the number of input bytes consumed so far. The number of
// bytes actually read from the underlying [io.Reader] may be more than this
// offset due to internal buffering.
func (r *Reader) InputOffset() int64 { return r.offset }

// Next reads the next TLV and returns its token. Primitive tokens are returned
// complete with their value. Constructed tokens are returned as soon as their
// header has been read. Their children are read by subsequent calls.
//
// End-of-contents markers are consumed without producing a token. At the end
// of the input Next returns [io.EOF] if no constructed TLV is open. Syntax
// errors are reported as [*SyntaxError].
func (r *Reader) Next() (*Token, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, err := r.advance()
	if err != nil {
		r.err = err
		return nil, err
	}
	return t, nil
}

// All returns an iterator over the remaining tokens of r. Iteration stops at
// the end of the input or after the first error. The iterator can only be used
// once.
func (r *Reader) All() iter.Seq2[*Token, error] {
	return func(yield func(*Token, error) bool) {
		for {
			t, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(t, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll reads until the end of the input and returns the top-level tokens.
// If an error occurs, no tokens are returned.
func (r *Reader) ReadAll() ([]*Token, error) {
	for _, err := range r.All() {
		if err != nil {
			return nil, err
		}
	}
	return r.Roots(), nil
}

// advance implements a single step of [Reader.Next].
func (r *Reader) advance() (*Token, error) {
	for {
		tagOffset := r.offset
		if limit := r.limit(); limit >= 0 && tagOffset >= limit {
			// an indefinite-length element runs into the end of its parent
			return nil, r.syntaxError(errExceedsParent, tagOffset)
		}

		id, err := ReadIdentifier(byteReaderFunc(r.readByte), r.mode)
		if err == io.EOF {
			if r.root() {
				return nil, io.EOF
			}
			return nil, r.syntaxError(errUnclosed, tagOffset)
		}
		if err != nil {
			return nil, r.syntaxError(err, tagOffset)
		}
		lengthOffset := r.offset
		length, err := ReadLength(byteReaderFunc(r.readByte), r.mode)
		if err != nil {
			return nil, r.syntaxError(err, tagOffset)
		}
		valueOffset := r.offset

		if id.IsEndOfContents() {
			if err = r.endOfContents(id, length); err != nil {
				return nil, r.syntaxError(err, tagOffset)
			}
			continue
		}
		if !id.Constructed() && length == LengthIndefinite {
			return nil, r.syntaxError(errIndefinitePrimitive, tagOffset)
		}
		if limit := r.limit(); limit >= 0 && (valueOffset > limit || length != LengthIndefinite && int64(length) > limit-valueOffset) {
			return nil, r.syntaxError(errExceedsParent, tagOffset)
		}

		t := &Token{
			Identifier:   id,
			Length:       length,
			TagOffset:    tagOffset,
			LengthOffset: lengthOffset,
			ValueOffset:  valueOffset,
			EndOffset:    -1,
			Index:        len(r.tokens),
			Parent:       -1,
		}
		r.tokens = append(r.tokens, t)
		if parent := r.top(); parent != nil {
			t.Parent = parent.index
			p := r.tokens[parent.index]
			p.Children = append(p.Children, t.Index)
		} else {
			r.roots = append(r.roots, t.Index)
			r.buf.SetLimit(length)
		}
		r.emit(EventBegin, t)

		if !t.Constructed() {
			if t.Value, err = r.readValue(length); err != nil {
				return nil, r.syntaxError(err, tagOffset)
			}
			t.EndOffset = r.offset
			if r.root() {
				r.buf.SetLimit(0)
			}
			r.emit(EventEnd, t)
		} else {
			end := int64(-1)
			if length != LengthIndefinite {
				end = valueOffset + int64(length)
			}
			r.push(t.Index, end)
		}
		r.closeDefinite()
		return t, nil
	}
}

// endOfContents consumes an end-of-contents marker and closes the innermost
// open element.
func (r *Reader) endOfContents(id Identifier, length int) error {
	if id != EndOfContents || length != 0 {
		return errInvalidEOC
	}
	if top := r.top(); top == nil || top.definite() {
		return errUnexpectedEOC
	}
	r.close()
	r.closeDefinite()
	return nil
}

// closeDefinite closes all definite-length elements whose value has been read
// completely.
func (r *Reader) closeDefinite() {
	for top := r.top(); top != nil && top.definite() && r.offset == top.end; top = r.top() {
		r.close()
	}
}

// close pops the innermost open element and emits its end event.
func (r *Reader) close() {
	e := r.pop()
	t := r.tokens[e.index]
	t.EndOffset = r.offset
	if r.root() {
		r.buf.SetLimit(0)
	}
	r.emit(EventEnd, t)
}

// readByte reads a single header byte and advances the input offset.
func (r *Reader) readByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err == nil {
		r.offset++
		return b, nil
	}
	if err == io.EOF {
		return 0, err
	}
	return 0, &ioError{"read", err}
}

// readValue reads the n value bytes of a primitive TLV.
func (r *Reader) readValue(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	buf.Grow(min(n, maxValuePrealloc))
	read, err := io.CopyN(&buf, r.br, int64(n))
	r.offset += read
	if err == io.EOF {
		return nil, errTruncated
	}
	if err != nil {
		return nil, &ioError{"read", err}
	}
	return buf.Bytes(), nil
}

// syntaxError wraps err into a [SyntaxError] unless it is an I/O error.
func (r *Reader) syntaxError(err error, offset int64) error {
	if _, ok := err.(*ioError); ok {
		return err
	}
	sErr := &SyntaxError{Err: err, ByteOffset: offset}
	if top := r.top(); top != nil {
		sErr.Identifier = r.tokens[top.index].Identifier
	}
	return sErr
}

// emit notifies the observers and the logger about ev.
func (r *Reader) emit(ev Event, t *Token) {
	if len(r.observers) == 0 && r.logger == nil {
		return
	}
	r.scratch = r.scratch[:0]
	for _, e := range r.stack {
		r.scratch = append(r.scratch, r.tokens[e.index])
	}
	for _, o := range r.observers {
		o.Observe(ev, t, r.scratch)
	}
	if r.logger != nil && r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug(strings.Repeat("  ", len(r.scratch))+ev.String(),
			slog.String("tag", t.Identifier.String()),
			slog.Int("length", t.Length),
			slog.Int64("offset", t.TagOffset))
	}
}

//endregion
