package tape

import (
	"strconv"
	"strings"

	"github.com/bgrewell/mfarchive/pkg/ebcdic"
)

// labelEyeCatchers are the 80-byte standard label record types recognized
// during record reassembly.
var labelEyeCatchers = []string{"VOL1", "HDR1", "HDR2", "UTL", "EOF1", "EOF2"}

func labelKind(record []byte, cp *ebcdic.Codepage) (string, bool) {
	if len(record) != 80 {
		return "", false
	}
	tag := cp.Decode(record[:4])
	for _, k := range labelEyeCatchers {
		if tag == k || strings.HasPrefix(tag, k) {
			return k, true
		}
	}
	return "", false
}

// VolumeLabel is decoded from a VOL1 record (ANSI/IBM standard label
// layout): 6-char VOLSER at offset 4, 10-char owner at offset 37.
type VolumeLabel struct {
	Volser string
	Owner  string
}

func decodeVolumeLabel(record []byte, cp *ebcdic.Codepage) *VolumeLabel {
	return &VolumeLabel{
		Volser: strings.TrimRight(cp.Decode(field(record, 4, 6)), " "),
		Owner:  strings.TrimRight(cp.Decode(field(record, 37, 10)), " "),
	}
}

// Hdr1 is decoded from the fixed-width fields of an HDR1 label.
type Hdr1 struct {
	DSN            string
	DSNSER         string
	VolSeq         int
	DSNSeq         int
	GenNum         int
	Version        int
	CreateDate     string
	ExpirationDate string
	DSNSecurity    byte
	BlockCountLow  string
	SystemCode     string
	BlockCountHigh string
}

func decodeHdr1(record []byte, cp *ebcdic.Codepage) *Hdr1 {
	atoi := func(b []byte) int {
		n, _ := strconv.Atoi(strings.TrimSpace(cp.Decode(b)))
		return n
	}
	return &Hdr1{
		DSN:            strings.TrimRight(cp.Decode(field(record, 4, 17)), " "),
		DSNSER:         strings.TrimRight(cp.Decode(field(record, 21, 6)), " "),
		VolSeq:         atoi(field(record, 27, 4)),
		DSNSeq:         atoi(field(record, 31, 4)),
		GenNum:         atoi(field(record, 35, 4)),
		Version:        atoi(field(record, 39, 2)),
		CreateDate:     cp.Decode(field(record, 41, 6)),
		ExpirationDate: cp.Decode(field(record, 47, 6)),
		DSNSecurity:    record[53],
		BlockCountLow:  cp.Decode(field(record, 54, 6)),
		SystemCode:     strings.TrimRight(cp.Decode(field(record, 60, 13)), " "),
		BlockCountHigh: cp.Decode(field(record, 76, 4)),
	}
}

// Hdr2 is decoded from the fixed-width fields of an HDR2 label.
type Hdr2 struct {
	RECFM       byte
	BlockLength string
	LRECL       string
	Density     byte
	Position    byte
	JobID       string
	Technique   string
	ControlChar byte
	BlockAttr   byte
	DevSer      string
	DSNID       byte
	LargeBlkLen string
}

func decodeHdr2(record []byte, cp *ebcdic.Codepage) *Hdr2 {
	return &Hdr2{
		RECFM:       record[4],
		BlockLength: strings.TrimSpace(cp.Decode(field(record, 5, 5))),
		LRECL:       strings.TrimSpace(cp.Decode(field(record, 10, 5))),
		Density:     record[15],
		Position:    record[16],
		JobID:       strings.TrimRight(cp.Decode(field(record, 17, 17)), " "),
		Technique:   cp.Decode(field(record, 34, 2)),
		ControlChar: record[36],
		BlockAttr:   record[38],
		DevSer:      strings.TrimRight(cp.Decode(field(record, 41, 6)), " "),
		DSNID:       record[47],
		LargeBlkLen: strings.TrimSpace(cp.Decode(field(record, 70, 10))),
	}
}

// field is a bounds-safe slice of a fixed-width label record.
func field(record []byte, offset, length int) []byte {
	if offset >= len(record) {
		return nil
	}
	end := offset + length
	if end > len(record) {
		end = len(record)
	}
	return record[offset:end]
}
