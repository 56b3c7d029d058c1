// Package detect sniffs the first bytes of an input buffer to decide
// whether it is an XMIT transmission stream or an AWS/HET tape image.
package detect

import (
	"encoding/binary"

	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// Kind identifies the container format a buffer was sniffed as.
type Kind int

const (
	Unknown Kind = iota
	Xmit
	Tape
)

func (k Kind) String() string {
	switch k {
	case Xmit:
		return "xmit"
	case Tape:
		return "tape"
	default:
		return "unknown"
	}
}

// Sniff peeks at the first 10 bytes of buf and dispatches to XMIT or tape.
// XMIT: bytes 2..8 decode (EBCDIC) to "INMR01". Tape: bytes 2..4
// (little-endian u16) == 0.
func Sniff(buf []byte) (Kind, error) {
	if len(buf) < 10 {
		return Unknown, &mferrors.Truncated{Context: "container header", Need: 10, Have: len(buf)}
	}

	cp, err := ebcdic.Lookup("cp1140")
	if err != nil {
		return Unknown, err
	}
	if cp.Decode(buf[2:8]) == "INMR01" {
		return Xmit, nil
	}

	if binary.LittleEndian.Uint16(buf[2:4]) == 0 {
		return Tape, nil
	}

	return Unknown, &mferrors.NotAContainer{}
}
