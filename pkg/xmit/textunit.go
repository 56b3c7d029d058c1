package xmit

import (
	"strings"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/ebcdic"
)

// Text-unit keys carried by INMR0x control records. Unrecognized key
// values still parse correctly (see decodeTextUnits) and are retained
// in the record's raw text unit collection.
const (
	KeyINMDDNAM = 0x0001 // DD name
	KeyINMDSNAM = 0x0002 // dataset name, one item per qualifier
	KeyINMMEMBR = 0x0003 // member name list
	KeyINMSECND = 0x000B // secondary space quantity
	KeyINMDIR   = 0x000C // directory block count
	KeyINMEXPDT = 0x0022 // expiration date
	KeyINMTERM  = 0x0028 // data transmitted as a message
	KeyINMBLKSZ = 0x0030 // block size
	KeyINMDSORG = 0x003C // dataset organization
	KeyINMLRECL = 0x0042 // logical record length
	KeyINMRECFM = 0x0049 // record format
	KeyINMTNODE = 0x1001 // target node
	KeyINMTUID  = 0x1002 // target user ID
	KeyINMFNODE = 0x1011 // origin node
	KeyINMFUID  = 0x1012 // origin user ID
	KeyINMLREF  = 0x1020 // date last referenced
	KeyINMLCHG  = 0x1021 // date last changed
	KeyINMCREAT = 0x1022 // creation date
	KeyINMFVERS = 0x1023 // origin data format version
	KeyINMFTIME = 0x1024 // origin timestamp
	KeyINMTTIME = 0x1025 // destination timestamp
	KeyINMFACK  = 0x1026 // originator requested notification
	KeyINMERRCD = 0x1027 // RECEIVE command error code
	KeyINMUTILN = 0x1028 // utility program name
	KeyINMUSERP = 0x1029 // user parameter string
	KeyINMRECCT = 0x102A // transmitted record count
	KeyINMSIZE  = 0x102C // file size in bytes
	KeyINMNUMF  = 0x102F // number of files
	KeyINMTYPE  = 0x8012 // dataset type
)

// TextUnit is one decoded INMR0x text-unit record: a 16-bit key followed
// by N length-prefixed items.
type TextUnit struct {
	Key   uint16
	Items [][]byte
}

// TextUnits is an ordered, keyed collection of the text units seen in a
// single control record payload.
type TextUnits struct {
	byKey map[uint16]*TextUnit
	order []uint16
}

func newTextUnits() *TextUnits {
	return &TextUnits{byKey: make(map[uint16]*TextUnit)}
}

func (t *TextUnits) add(tu *TextUnit) {
	if _, exists := t.byKey[tu.Key]; !exists {
		t.order = append(t.order, tu.Key)
	}
	t.byKey[tu.Key] = tu
}

// Get returns the raw text unit for key, if present.
func (t *TextUnits) Get(key uint16) (*TextUnit, bool) {
	tu, ok := t.byKey[key]
	return tu, ok
}

// Has reports whether key was present, including a zero-length marker
// unit such as INMTERM.
func (t *TextUnits) Has(key uint16) bool {
	_, ok := t.byKey[key]
	return ok
}

// Char decodes a character-typed text unit, joining its items with sep.
func (t *TextUnits) Char(key uint16, cp *ebcdic.Codepage, sep string) (string, bool) {
	tu, ok := t.byKey[key]
	if !ok {
		return "", false
	}
	parts := make([]string, len(tu.Items))
	for i, item := range tu.Items {
		parts[i] = cp.Decode(item)
	}
	return strings.Join(parts, sep), true
}

// Dec decodes a decimal-typed text unit: its sole item holds the value as
// a variable-width big-endian binary integer.
func (t *TextUnits) Dec(key uint16) (int, bool) {
	tu, ok := t.byKey[key]
	if !ok || len(tu.Items) == 0 {
		return 0, false
	}
	n := 0
	for _, b := range tu.Items[0] {
		n = n<<8 | int(b)
	}
	return n, true
}

// HexBytes returns the raw bytes of a hex-typed text unit's first item.
func (t *TextUnits) HexBytes(key uint16) ([]byte, bool) {
	tu, ok := t.byKey[key]
	if !ok || len(tu.Items) == 0 {
		return nil, false
	}
	return tu.Items[0], true
}

// decodeTextUnits walks a text-unit stream until the reader is exhausted.
func decodeTextUnits(r *byteio.Reader) (*TextUnits, error) {
	units := newTextUnits()
	for r.Len() > 0 {
		key, err := r.BE16("text unit key")
		if err != nil {
			return nil, err
		}
		count, err := r.BE16("text unit count")
		if err != nil {
			return nil, err
		}
		tu := &TextUnit{Key: key}
		for i := 0; i < int(count); i++ {
			itemLen, err := r.BE16("text unit item length")
			if err != nil {
				return nil, err
			}
			item, err := r.Take(int(itemLen), "text unit item")
			if err != nil {
				return nil, err
			}
			cp := make([]byte, len(item))
			copy(cp, item)
			tu.Items = append(tu.Items, cp)
		}
		units.add(tu)
	}
	return units, nil
}

// INMTypeString maps the INMTYPE hex value to its documented label.
func INMTypeString(b []byte) string {
	if len(b) == 0 {
		return "None"
	}
	switch b[0] {
	case 0x80:
		return "Data Library"
	case 0x40:
		return "Program Library"
	default:
		return "None"
	}
}
