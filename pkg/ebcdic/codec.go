// Package ebcdic implements the codec layer: EBCDIC codepage tables, a
// golang.org/x/text/encoding.Encoding-shaped codec per codepage, and the
// packed-decimal / tape date decoders used by the IEBCOPY and tape
// parsers. Each codepage satisfies encoding.Encoding, so it composes with
// the standard transform pipeline the same way the charmap encodings do.
package ebcdic

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// SupportedCodepages lists every codepage name this build can decode,
// sorted for stable output.
func SupportedCodepages() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Codepage is a single-byte EBCDIC encoding, exposed as a
// golang.org/x/text/encoding.Encoding so callers can plug it into the
// standard transform pipeline (Reader/Writer/Bytes/String) alongside any
// other x/text encoding.
type Codepage struct {
	name  string
	table [256]rune
}

// Lookup resolves a codepage by name. Any "<b>...</b>" markup the caller's
// UI layer left embedded in the name is stripped first, per the tolerated
// boundary leakage documented for this codec layer.
func Lookup(name string) (*Codepage, error) {
	clean := StripMarkup(name)
	table, ok := tables[strings.ToLower(clean)]
	if !ok {
		return nil, &mferrors.CodepageUnknown{Name: name}
	}
	return &Codepage{name: strings.ToLower(clean), table: table}, nil
}

// Name returns the normalized codepage name.
func (c *Codepage) Name() string { return c.name }

// NewDecoder implements encoding.Encoding.
func (c *Codepage) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decodeTransformer{table: c.table}}
}

// NewEncoder implements encoding.Encoding.
func (c *Codepage) NewEncoder() *encoding.Encoder {
	inverse := make(map[rune]byte, 256)
	for b, r := range c.table {
		if _, exists := inverse[r]; !exists {
			inverse[r] = byte(b)
		}
	}
	return &encoding.Encoder{Transformer: &encodeTransformer{inverse: inverse}}
}

// Decode converts raw EBCDIC bytes to a Go string in one shot.
func (c *Codepage) Decode(b []byte) string {
	out := make([]rune, len(b))
	for i, v := range b {
		out[i] = c.table[v]
	}
	return string(out)
}

// Encode converts a Go string to raw EBCDIC bytes. Runes with no
// codepoint in this table encode as 0x6F ('?' in cp037/cp1140).
func (c *Codepage) Encode(s string) []byte {
	inverse := make(map[rune]byte, 256)
	for b, r := range c.table {
		if _, exists := inverse[r]; !exists {
			inverse[r] = byte(b)
		}
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := inverse[r]; ok {
			out = append(out, b)
		} else {
			out = append(out, 0x6F) // cp037/cp1140 '?'
		}
	}
	return out
}

// StripMarkup removes a single "<b>...</b>" wrapper some upstream UI
// layers leave around a codepage label before it reaches the core.
func StripMarkup(name string) string {
	name = strings.TrimPrefix(name, "<b>")
	name = strings.TrimSuffix(name, "</b>")
	return strings.TrimSpace(name)
}

type decodeTransformer struct {
	table [256]rune
}

func (t *decodeTransformer) Reset() {}

func (t *decodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := t.table[src[nSrc]]
		size := utf8.RuneLen(r)
		if size < 0 {
			size = utf8.RuneLen(utf8.RuneError)
			r = utf8.RuneError
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		n := utf8.EncodeRune(dst[nDst:], r)
		nDst += n
		nSrc++
	}
	return nDst, nSrc, nil
}

type encodeTransformer struct {
	inverse map[rune]byte
}

func (t *encodeTransformer) Reset() {}

func (t *encodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && size == 0 {
				return nDst, nSrc, transform.ErrShortSrc
			}
		}
		b, ok := t.inverse[r]
		if !ok {
			b = 0x6F
		}
		if nDst+1 > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}
