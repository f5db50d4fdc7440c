package aacs

import "bytes"

///
/// Write Stream
///

type WriteStream struct {
	buffer []byte
}

func NewWriteStream() *WriteStream {
	return &WriteStream{}
}

func (s *WriteStream) Data() []byte {
	return s.buffer
}

func (s *WriteStream) Append(b []byte) {
	s.buffer = append(s.buffer, b...)
}

func (s *WriteStream) AppendAll(bs ...[]byte) {
	for _, b := range bs {
		s.Append(b)
	}
}

///
/// ReadStream
///

// ReadStream scans an immutable byte buffer with an explicit cursor, so
// repeated fixed-stride reads never copy or reslice the underlying data.
type ReadStream struct {
	buffer []byte
	cursor int
}

func NewReadStream(data []byte) *ReadStream {
	return &ReadStream{data, 0}
}

func (s *ReadStream) Remaining() int {
	return len(s.buffer) - s.cursor
}

func (s *ReadStream) Exhausted() bool {
	return s.cursor >= len(s.buffer)
}

// HasPrefix reports whether the unread portion of the stream starts with tag.
func (s *ReadStream) HasPrefix(tag []byte) bool {
	return bytes.HasPrefix(s.buffer[s.cursor:], tag)
}

// Take returns the next n bytes and advances the cursor.  It fails without
// consuming anything if fewer than n bytes remain.
func (s *ReadStream) Take(n int) ([]byte, bool) {
	if s.Remaining() < n {
		return nil, false
	}

	out := s.buffer[s.cursor : s.cursor+n]
	s.cursor += n
	return out, true
}

func (s *ReadStream) Skip(n int) {
	s.cursor += n
	if s.cursor > len(s.buffer) {
		s.cursor = len(s.buffer)
	}
}

// Rest returns everything from the cursor to the end of the buffer.
func (s *ReadStream) Rest() []byte {
	return s.buffer[s.cursor:]
}

func (s *ReadStream) Consumed() int {
	return s.cursor
}
