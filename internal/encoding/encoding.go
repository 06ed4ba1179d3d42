package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// NewUTF8Reader wraps r so that its content reads as UTF-8 regardless of the
// source encoding. Bank-portal roster exports arrive as UTF-8 (with or
// without BOM), UTF-16, or legacy single-byte encodings; the wrapper sniffs
// a prefix and picks a decoder:
//
//  1. a BOM wins (UTF-8 BOM stripped, UTF-16 decoded)
//  2. valid UTF-8 passes through untouched
//  3. otherwise chardet picks the charset, falling back to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if rd, ok := bomReader(br, head); ok {
		return rd, nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, sniffDecoder(head)), nil
}

// bomReader handles byte-order-marked input. The boolean reports whether a
// BOM was found.
func bomReader(br *bufio.Reader, head []byte) (io.Reader, bool) {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		_, _ = br.Discard(3)
		return br, true
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), true
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), true
	}

	return nil, false
}

// sniffDecoder picks a single-byte decoder for non-UTF-8 input. Windows-1252
// is the fallback: it decodes any byte sequence and covers the overwhelming
// share of legacy exports seen in practice.
func sniffDecoder(head []byte) *encoding.Decoder {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return charmap.Windows1252.NewDecoder()
	}

	switch result.Charset {
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252.NewDecoder()
	case "ISO-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	default:
		return charmap.Windows1252.NewDecoder()
	}
}
