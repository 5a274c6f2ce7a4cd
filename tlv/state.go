package tlv

// stateEntry represents an open constructed element while decoding.
type stateEntry struct {
	// index is the position of the element's token in the reader's arena.
	index int

	// end is the input offset where the value of the element ends, or -1 if the
	// element uses the indefinite-length form.
	end int64

	// limit is the offset that no descendant of the element may cross. It is at
	// most end, but may be less if a surrounding element is more restrictive.
	// limit is -1 if no restriction is known.
	limit int64
}

// definite reports whether e uses the definite-length form.
func (e *stateEntry) definite() bool {
	return e.end >= 0
}

// state maintains the stack of constructed elements a [Reader] is currently
// processing. The root level of the input is not part of the stack.
type state struct {
	stack []stateEntry
}

// reset clears the state. The allocated stack space is reused.
func (s *state) reset() {
	if s.stack == nil {
		s.stack = make([]stateEntry, 0, 10)
	}
	s.stack = s.stack[:0]
}

// root indicates whether s is currently at the root level.
func (s *state) root() bool {
	return len(s.stack) == 0
}

// top returns the innermost open element or nil at the root level.
func (s *state) top() *stateEntry {
	if s.root() {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

// limit returns the offset that the next TLV may not cross, or -1.
func (s *state) limit() int64 {
	if s.root() {
		return -1
	}
	return s.top().limit
}

// push opens the element with the given token index whose value ends at end.
func (s *state) push(index int, end int64) {
	s.stack = append(s.stack, stateEntry{
		index: index,
		end:   end,
		limit: minOffset(end, s.limit()),
	})
}

// pop removes the innermost element from the stack and returns it.
func (s *state) pop() stateEntry {
	e := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return e
}
