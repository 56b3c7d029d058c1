// Package xmit decodes the INMCOPY "XMI" transmission stream: segment
// framing, INMR01..INMR06 control records, and the text-unit metadata they
// carry.
package xmit

import (
	"encoding/binary"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/consts"
	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/logging"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// FileRecord is one transmitted file: its INMR02/INMR03 text units and the
// reassembled data blocks that followed them in the segment stream.
type FileRecord struct {
	Number int
	Inmr02 *TextUnits
	Inmr03 *TextUnits
	Blocks [][]byte
}

// Result is the fully walked XMIT stream, ready for the root package to
// turn into the public Archive model.
type Result struct {
	Header  *TextUnits // INMR01 payload
	Files   []*FileRecord
	Message []byte
}

// Parse walks buf as a concatenation of XMIT segments. Framing violations
// (a segment length below 2, a control record too short for its type tag,
// a segment whose declared length runs past the buffer, a stream with no
// INMR01) abort with a typed error; unrecognized control record types are
// logged at debug level and skipped; bytes following an INMR06 are
// ignored.
func Parse(buf []byte, cp *ebcdic.Codepage, log *logging.Logger) (*Result, error) {
	r := byteio.New(buf)
	res := &Result{}

	var current []byte   // accumulated payload of the in-progress logical record
	var inMessage bool   // true once INMTERM was seen and awaiting message data
	var messageLRECL int // LRECL to use while capturing message segments
	sawTerm := false

	fileByNumber := func(n int) *FileRecord {
		for _, f := range res.Files {
			if f.Number == n {
				return f
			}
		}
		fr := &FileRecord{Number: n}
		res.Files = append(res.Files, fr)
		return fr
	}

	currentFileCount := 0 // number of INMR02 headers seen so far
	inmr03Count := 0
	done := false

	for !done && r.Len() > 0 {
		segOffset := r.Pos()
		segLen, err := r.U8("segment length")
		if err != nil {
			return nil, err
		}
		flag, err := r.U8("segment flag")
		if err != nil {
			return nil, err
		}
		if int(segLen) < consts.XmitSegmentHeaderSize {
			return nil, &mferrors.MalformedXmit{Expected: "segment length >= 2", AtOffset: segOffset}
		}
		payload, err := r.Take(int(segLen)-consts.XmitSegmentHeaderSize, "segment payload")
		if err != nil {
			return nil, err
		}

		if flag&consts.XmitFlagControlRecord != 0 {
			if len(payload) < consts.XmitControlRecordTypeLen {
				return nil, &mferrors.MalformedXmit{Expected: "control record type tag", AtOffset: segOffset}
			}
			recType := cp.Decode(payload[:consts.XmitControlRecordTypeLen])
			body := payload[consts.XmitControlRecordTypeLen:]

			switch recType {
			case "INMR01":
				units, err := decodeTextUnits(byteio.New(body))
				if err != nil {
					return nil, err
				}
				res.Header = units
			case "INMR02":
				inMessage = false
				if len(body) < 4 {
					return nil, &mferrors.MalformedXmit{Expected: "INMR02 file number", AtOffset: segOffset}
				}
				num := int(binary.BigEndian.Uint32(body[0:4]))
				units, err := decodeTextUnits(byteio.New(body[4:]))
				if err != nil {
					return nil, err
				}
				fr := fileByNumber(num)
				fr.Inmr02 = units
				currentFileCount++

				if _, hasDSN := units.Get(KeyINMDSNAM); !hasDSN && units.Has(KeyINMTERM) {
					sawTerm = true
				}
			case "INMR03":
				// Unlike INMR02, INMR03 carries no file number; records
				// pair up with INMR02s by arrival order.
				inmr03Count++
				units, err := decodeTextUnits(byteio.New(body))
				if err != nil {
					return nil, err
				}
				fr := fileByNumber(inmr03Count)
				fr.Inmr03 = units
				if sawTerm && !inMessage {
					if lrecl, ok := units.Dec(KeyINMLRECL); ok {
						messageLRECL = lrecl
						inMessage = true
						sawTerm = false
					}
				}
			case "INMR06":
				done = true
			default:
				log.Debug("ignoring unrecognized XMIT control record", "type", recType)
			}
			continue
		}

		// Data segment for the file identified by how many INMR02 headers
		// have been seen so far (1-based).
		current = append(current, payload...)

		if flag&consts.XmitFlagLastSegment != 0 {
			if inMessage {
				res.Message = append(res.Message, padOrTrim(current, messageLRECL)...)
			} else if currentFileCount > 0 {
				fr := fileByNumber(currentFileCount)
				block := make([]byte, len(current))
				copy(block, current)
				fr.Blocks = append(fr.Blocks, block)
			}
			current = nil
		}
	}

	if res.Header == nil {
		return nil, &mferrors.MalformedXmit{Expected: "INMR01 header", AtOffset: 0}
	}

	return res, nil
}

// padOrTrim keeps message bytes exactly lrecl wide when lrecl is known and
// positive, mirroring how a record-oriented dataset's data is framed. The
// pad byte is an EBCDIC blank since the message has not been decoded yet.
func padOrTrim(b []byte, lrecl int) []byte {
	if lrecl <= 0 || len(b) == lrecl {
		return b
	}
	if len(b) > lrecl {
		return b[:lrecl]
	}
	out := make([]byte, lrecl)
	copy(out, b)
	for i := len(b); i < lrecl; i++ {
		out[i] = 0x40
	}
	return out
}
