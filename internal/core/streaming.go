package core

// streaming.go holds the reader wrappers applied to uploaded files before
// decoding:
//
//   - BOM removal, since spreadsheet exports on Windows prefix one
//   - a hard byte limit that fails with ErrFileTooLarge instead of truncating
//
// Invalid UTF-8 is replaced with '?' after the read, in sanitizeText.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewBOMSkippingReader returns a reader that drops a leading UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// LimitedReader reads at most Limit bytes and reports ErrFileTooLarge if the
// source has more.
type LimitedReader struct {
	R     io.Reader
	Limit int64

	read int64
}

// Read implements io.Reader.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Limit <= 0 {
		return l.R.Read(p)
	}
	if l.read > l.Limit {
		return 0, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.Limit)
	}
	// Allow one byte past the limit so an exact-size file is not rejected.
	if max := l.Limit - l.read + 1; int64(len(p)) > max {
		p = p[:max]
	}
	n, err := l.R.Read(p)
	l.read += int64(n)
	if l.read > l.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.Limit)
	}
	return n, err
}

// WrapForImport applies BOM removal to an upload.
func WrapForImport(r io.Reader) io.Reader {
	return NewBOMSkippingReader(r)
}

// sanitizeText replaces invalid UTF-8 sequences with '?'.
func sanitizeText(s string) string {
	return strings.ToValidUTF8(s, "?")
}
