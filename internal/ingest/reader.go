package ingest

// reader.go wraps upload bodies so the CSV reader never sees a Windows byte
// order mark or invalid UTF-8. Both transforms stream; neither buffers the
// whole file.

import (
	"io"
	"unicode/utf8"
)

var utf8BOM = [3]byte{0xEF, 0xBB, 0xBF}

// bomSkipper drops a leading UTF-8 byte order mark.
type bomSkipper struct {
	r       io.Reader
	checked bool
	head    []byte
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		var buf [3]byte
		n, err := io.ReadFull(b.r, buf[:])
		if n == 3 && buf == utf8BOM {
			n = 0
		}
		b.head = append(b.head, buf[:n]...)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// utf8Sanitizer replaces each invalid byte with '?'. A multi-byte sequence
// split across two reads is held back until the rest arrives.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	// p is assumed to hold at least utf8.UTFMax bytes; csv.Reader reads
	// through a 4 KiB bufio buffer.
	offset := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}
	return s.sanitize(p[:n], err != nil), err
}

func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if isASCII(data) {
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// wrap applies BOM removal first, then UTF-8 sanitization.
func wrap(r io.Reader) io.Reader {
	return &utf8Sanitizer{r: &bomSkipper{r: r}, pending: make([]byte, 0, utf8.UTFMax)}
}
