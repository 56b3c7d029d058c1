package iebcopy

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/bgrewell/mfarchive/pkg/ebcdic"
)

// Ispf holds the per-member ISPF editor statistics carried in a PDS
// directory entry's user-data field.
type Ispf struct {
	Version    string
	Flags      byte
	CreateDate time.Time
	ModifyDate time.Time
	Lines      int
	NewLines   int
	ModLines   int
	User       string
}

// ParseIspf decodes parms as ISPF statistics. It returns nil rather than
// an error when the notes field is non-zero or the user-data is too short
// to hold a stats block: both mean "no ISPF stats present", not malformed
// input.
func ParseIspf(parms []byte, notes byte, cp *ebcdic.Codepage) *Ispf {
	if notes != 0 || len(parms) < 30 {
		return nil
	}

	ispf := &Ispf{
		Version: fmt.Sprintf("%02d.%02d", parms[0], parms[1]),
		Flags:   parms[2],
	}

	if created, ok := ebcdic.ISPFDate(parms[4:8]); ok {
		ispf.CreateDate = created
	}

	if modDate, ok := ebcdic.ISPFDate(parms[8:12]); ok {
		if hour, minute, second, ok := ebcdic.ISPFTime(parms[12:14], parms[3]); ok {
			ispf.ModifyDate = time.Date(modDate.Year(), modDate.Month(), modDate.Day(), hour, minute, second, 0, time.UTC)
		} else {
			ispf.ModifyDate = modDate
		}
	}

	ispf.Lines = int(binary.BigEndian.Uint16(parms[14:16]))
	ispf.NewLines = int(binary.BigEndian.Uint16(parms[16:18]))
	ispf.ModLines = int(binary.BigEndian.Uint16(parms[18:20]))
	ispf.User = strings.TrimRight(cp.Decode(parms[20:28]), " ")

	if ispf.Flags&0x10 != 0 && len(parms) >= 40 {
		ispf.Lines = int(binary.BigEndian.Uint32(parms[28:32]))
		ispf.NewLines = int(binary.BigEndian.Uint32(parms[32:36]))
		ispf.ModLines = int(binary.BigEndian.Uint32(parms[36:40]))
	}

	return ispf
}
