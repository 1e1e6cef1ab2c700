// Package encoding turns spreadsheet exports into UTF-8. Catalog files saved
// by Excel on Windows are usually Windows-1252; newer ones are UTF-8 with or
// without a BOM.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected before deciding.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// legacy maps chardet charset names to the decoders used for them.
var legacy = map[string]xenc.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Charset names the encoding NewUTF8Reader would pick for a sample of the
// input: "UTF-8", "UTF-16LE", "UTF-16BE" or a legacy single byte charset.
func Charset(sample []byte) string {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return "UTF-8"
	case bytes.HasPrefix(sample, bomUTF16LE):
		return "UTF-16LE"
	case bytes.HasPrefix(sample, bomUTF16BE):
		return "UTF-16BE"
	case validUTF8(sample):
		return "UTF-8"
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if result.Charset == "UTF-8" {
			return "UTF-8"
		}

		if _, ok := legacy[result.Charset]; ok {
			return result.Charset
		}
	}

	return "windows-1252"
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8.
//
// A BOM wins over everything else (the UTF-8 BOM is dropped). Input that is
// already valid UTF-8 passes through untouched. Otherwise chardet picks a
// legacy charset, falling back to Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch cs := Charset(buf); cs {
	case "UTF-8":
		if bytes.HasPrefix(buf, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, nil
	case "UTF-16LE":
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case "UTF-16BE":
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	default:
		e, ok := legacy[cs]
		if !ok {
			e = charmap.Windows1252
		}

		return transform.NewReader(br, e.NewDecoder()), nil
	}
}

// validUTF8 reports whether sample is UTF-8, allowing its last rune to be
// cut short by the sniff window.
func validUTF8(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}

	if len(b) < sniffSize {
		return false
	}

	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		tail := b[len(b)-i:]
		if utf8.RuneStart(tail[0]) {
			return !utf8.FullRune(tail) && utf8.Valid(b[:len(b)-i])
		}
	}

	return false
}
