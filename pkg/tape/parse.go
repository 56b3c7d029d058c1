package tape

import (
	"fmt"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/consts"
	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/logging"
)

// File is one reassembled tape dataset: its optional HDR1/HDR2 labels and
// the data blocks belonging to it, in arrival order.
type File struct {
	Name   string
	Hdr1   *Hdr1
	Hdr2   *Hdr2
	Blocks [][]byte
}

// Result is the fully walked AWS/HET tape image.
type Result struct {
	Volume     *VolumeLabel
	UserLabels []string
	Files      []*File
}

// Parse walks buf as a sequence of AWS/HET blocks, reassembling logical
// records, classifying 80-byte records that start with a label
// eye-catcher, and grouping the remaining records into datasets. A block
// whose flag word carries none of NEWREC/ENDREC/EOF aborts with
// MalformedTape.
func Parse(buf []byte, cp *ebcdic.Codepage, log *logging.Logger) (*Result, error) {
	r := byteio.New(buf)
	res := &Result{}

	var recordBuf []byte
	var current *File
	var pendingName string
	var pendingHdr1 *Hdr1
	var pendingHdr2 *Hdr2
	awaitingNewDataset := true
	fileCounter := 0

	pushCurrent := func() {
		if current != nil {
			res.Files = append(res.Files, current)
			current = nil
		}
	}

	for r.Len() >= consts.TapeBlockHeaderSize {
		header, offset, err := readBlockHeader(r)
		if err != nil {
			return nil, err
		}
		raw, err := r.Take(int(header.CurSize), fmt.Sprintf("tape block payload at offset %d", offset))
		if err != nil {
			return nil, err
		}
		payload, err := decompressPayload(header, raw)
		if err != nil {
			return nil, err
		}

		if header.NewRecord() {
			recordBuf = nil
		}
		recordBuf = append(recordBuf, payload...)

		if header.EndRecord() || header.TapeMark() {
			completed := recordBuf
			recordBuf = nil

			if len(completed) > 0 {
				if kind, ok := labelKind(completed, cp); ok {
					switch kind {
					case "VOL1":
						res.Volume = decodeVolumeLabel(completed, cp)
					case "HDR1":
						h := decodeHdr1(completed, cp)
						pendingHdr1 = h
						pendingName = h.DSN
					case "HDR2":
						pendingHdr2 = decodeHdr2(completed, cp)
					case "UTL":
						res.UserLabels = append(res.UserLabels, decodeUserLabel(completed, cp))
					case "EOF1", "EOF2":
						// Trailer labels; nothing further to capture.
					}
					awaitingNewDataset = true
				} else {
					if awaitingNewDataset || current == nil {
						pushCurrent()
						fileCounter++
						name := pendingName
						if name == "" {
							name = fmt.Sprintf("FILE%04d", fileCounter)
						}
						current = &File{Name: name, Hdr1: pendingHdr1, Hdr2: pendingHdr2}
						pendingName = ""
						pendingHdr1 = nil
						pendingHdr2 = nil
						awaitingNewDataset = false
					}
					block := make([]byte, len(completed))
					copy(block, completed)
					current.Blocks = append(current.Blocks, block)
				}
			}
		}

		if header.TapeMark() {
			pushCurrent()
			awaitingNewDataset = true
		}
	}

	pushCurrent()
	return res, nil
}

func decodeUserLabel(record []byte, cp *ebcdic.Codepage) string {
	s := cp.Decode(record)
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
