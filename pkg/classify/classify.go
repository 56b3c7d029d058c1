// Package classify determines a reassembled payload's MIME type and, for
// text-like payloads, performs the record-aware EBCDIC-to-UTF-8
// conversion. Signature-based sniffing is delegated to
// github.com/h2non/filetype; payloads no signature matches are probed for
// ASCII and then EBCDIC printability.
package classify

import (
	"strings"

	"github.com/h2non/filetype"

	"github.com/bgrewell/mfarchive/pkg/ebcdic"
)

// Result is the classifier's verdict on one payload.
type Result struct {
	MIME      string
	Extension string
	// Encoding is the sub-value driving the text/binary decision: anything
	// other than "binary" is treated as text.
	Encoding string
}

// IsText reports whether the payload should be offered as decoded text.
func (r Result) IsText() bool { return r.Encoding != "binary" }

// Sniff classifies payload. A recognized binary signature wins; otherwise
// the payload is probed as ASCII text, then as EBCDIC text under cp, and
// finally falls back to application/octet-stream. An octet-stream payload
// whose bytes 2..8 decode (EBCDIC) to "INMR01" is an embedded XMIT file
// and is reclassified as application/xmit.
func Sniff(payload []byte, cp *ebcdic.Codepage) Result {
	if kind, err := filetype.Match(payload); err == nil && kind != filetype.Unknown {
		return Result{MIME: kind.MIME.Value, Extension: "." + kind.Extension, Encoding: "binary"}
	}
	if len(payload) > 0 {
		if printableASCII(payload) {
			return Result{MIME: "text/plain", Extension: ".txt", Encoding: "us-ascii"}
		}
		if printableText(cp.Decode(payload)) {
			return Result{MIME: "text/plain", Extension: ".txt", Encoding: "ebcdic"}
		}
	}
	res := Result{MIME: "application/octet-stream", Extension: ".bin", Encoding: "binary"}
	if len(payload) >= 8 && cp.Decode(payload[2:8]) == "INMR01" {
		res.MIME = "application/xmit"
		res.Extension = ".xmi"
	}
	return res
}

// ToText converts raw record-oriented bytes to a newline-joined UTF-8
// string. For variable formats the caller passes the per-record slices
// recovered during RDW reassembly; for fixed formats the payload is split
// into lrecl-wide chunks. Each line is decoded under cp, optionally has a
// trailing 8-digit sequence-number column stripped, and is right-trimmed
// of blanks. The result is terminated with a final newline.
func ToText(payload []byte, records [][]byte, lrecl int, cp *ebcdic.Codepage, stripSeqNum bool) string {
	if len(payload) == 0 && len(records) == 0 {
		return ""
	}

	chunks := records
	if chunks == nil {
		if lrecl > 0 {
			for loc := 0; loc < len(payload); loc += lrecl {
				end := loc + lrecl
				if end > len(payload) {
					end = len(payload)
				}
				chunks = append(chunks, payload[loc:end])
			}
		} else {
			chunks = [][]byte{payload}
		}
	}

	lines := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		line := cp.Decode(chunk)
		if stripSeqNum && len(line) >= 8 && allDigits(line[len(line)-8:]) {
			line = line[:len(line)-8]
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func printableASCII(b []byte) bool {
	for _, v := range b {
		if v >= 0x20 && v < 0x7F {
			continue
		}
		switch v {
		case '\n', '\r', '\t', '\f':
		default:
			return false
		}
	}
	return true
}

func printableText(s string) bool {
	for _, r := range s {
		// C0 and C1 control ranges both mark binary; EBCDIC control bytes
		// decode into C1.
		if r >= 0x20 && r != 0x7F && !(r >= 0x80 && r <= 0x9F) && r < 0xFFFD {
			continue
		}
		switch r {
		case '\n', '\r', '\t', '\f':
		default:
			return false
		}
	}
	return true
}
