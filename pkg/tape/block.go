// Package tape decodes AWS and HET virtual tape images: block framing,
// record reassembly, ANSI/IBM standard label interpretation, and
// per-block ZLIB/BZIP2 decompression.
package tape

import (
	"bytes"
	"io"

	dsnetbzip2 "github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zlib"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/consts"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// BlockHeader is the 6-byte little-endian header preceding every AWS/HET
// block payload.
type BlockHeader struct {
	CurSize  uint16
	PrevSize uint16
	Flags    uint16
}

func (h BlockHeader) NewRecord() bool   { return h.Flags&consts.TapeFlagNewRecord != 0 }
func (h BlockHeader) EndRecord() bool   { return h.Flags&consts.TapeFlagEndRecord != 0 }
func (h BlockHeader) TapeMark() bool    { return h.Flags&consts.TapeFlagTapeMark != 0 }
func (h BlockHeader) Zlib() bool        { return h.Flags&consts.TapeFlagZlib != 0 }
func (h BlockHeader) Bzip2() bool       { return h.Flags&consts.TapeFlagBzip2 != 0 }
func (h BlockHeader) knownFlagSet() bool {
	return h.Flags&consts.TapeFlagKnownMask != 0
}

// readBlockHeader reads and validates a single 6-byte block header.
func readBlockHeader(r *byteio.Reader) (BlockHeader, int, error) {
	offset := r.Pos()
	cur, err := r.LE16("tape block cur_size")
	if err != nil {
		return BlockHeader{}, offset, err
	}
	prev, err := r.LE16("tape block prev_size")
	if err != nil {
		return BlockHeader{}, offset, err
	}
	flags, err := r.LE16("tape block flags")
	if err != nil {
		return BlockHeader{}, offset, err
	}
	h := BlockHeader{CurSize: cur, PrevSize: prev, Flags: flags}
	if !h.knownFlagSet() {
		return h, offset, &mferrors.MalformedTape{Reason: "block flag word has none of NEWREC/ENDREC/EOF set", AtOffset: offset}
	}
	return h, offset, nil
}

// decompressPayload expands a block's payload according to its
// compression flags; uncompressed payloads pass through unchanged.
func decompressPayload(h BlockHeader, raw []byte) ([]byte, error) {
	if h.Zlib() && h.Bzip2() {
		return nil, &mferrors.UnsupportedCompression{Flag: h.Flags}
	}
	switch {
	case h.Zlib():
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case h.Bzip2():
		br, err := dsnetbzip2.NewReader(bytes.NewReader(raw), nil)
		if err != nil {
			return nil, err
		}
		defer br.Close()
		return io.ReadAll(br)
	default:
		return raw, nil
	}
}
