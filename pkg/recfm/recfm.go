// Package recfm decodes the RECFM and DSORG bitfields shared by COPYR1
// records and XMIT INMRECFM/INMDSORG text units.
package recfm

import "strings"

// Decode translates a 2-byte RECFM field into its canonical string form
// ("FB", "VB", "U", ...).
func Decode(b [2]byte) string {
	var base string
	switch b[0] & 0xC0 {
	case 0x40:
		base = "V"
	case 0x80:
		base = "F"
	case 0xC0:
		base = "U"
	default:
		base = "?"
	}

	var sb strings.Builder
	sb.WriteString(base)
	if b[0]&0x10 != 0 {
		sb.WriteString("B")
	}
	if b[0]&0x04 != 0 {
		sb.WriteString("A")
	}
	if b[0]&0x02 != 0 {
		sb.WriteString("M")
	}
	if b[0]&0x08 != 0 {
		sb.WriteString("S")
	}
	return sb.String()
}

// IsVariable reports whether a decoded RECFM string denotes a variable
// (V/VB) record format, which drives RDW-based member reassembly.
func IsVariable(recfm string) bool {
	return strings.HasPrefix(recfm, "V")
}

// DecodeDSORG translates a 16-bit DSORG field into its canonical string
// form ("PSU", "PO", ...), matching any bit set from high to low.
func DecodeDSORG(v uint16) string {
	var sb strings.Builder
	switch {
	case v&0x8000 != 0:
		sb.WriteString("ISAM")
	case v&0x4000 != 0:
		sb.WriteString("PS")
	case v&0x2000 != 0:
		sb.WriteString("DA")
	case v&0x1000 != 0:
		sb.WriteString("BTAM")
	case v&0x0200 != 0:
		sb.WriteString("PO")
	}
	if v&0x0001 != 0 {
		sb.WriteString("U")
	}
	return sb.String()
}
