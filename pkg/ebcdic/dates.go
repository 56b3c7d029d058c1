package ebcdic

import (
	"fmt"
	"time"
)

// TapeDate decodes the mainframe "cyyddd" packed date format used in
// HDR1/HDR2/EOF labels: c selects the century (' '=19, digit d => 20+d),
// yy is the two-digit year within the century, ddd is the day-of-year. A
// trailing '0' day-of-year digit is historically a typo for '1' and is
// corrected before parsing.
func TapeDate(s string) (time.Time, bool) {
	if len(s) != 6 {
		return time.Time{}, false
	}
	c := s[0]
	var century int
	switch {
	case c == ' ':
		century = 19
	case c >= '0' && c <= '9':
		century = 20 + int(c-'0')
	default:
		return time.Time{}, false
	}

	rest := []byte(s[1:6])
	if rest[4] == '0' {
		rest[4] = '1'
	}

	yyddd := fmt.Sprintf("%d%s", century, string(rest))
	t, err := time.Parse("2006002", yyddd)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ISPFDate decodes a 4-byte packed-decimal (BCD) ISPF create/modify date:
// byte 0's value is added to 19 for the century, byte 1 is the BCD
// year within the century, bytes 2 and the high nibble of byte 3 give the
// day of year.
func ISPFDate(b []byte) (time.Time, bool) {
	if len(b) < 4 {
		return time.Time{}, false
	}
	century := 19 + int(b[0])
	year := bcdByte(b[1])
	day := bcdByte(b[2])*10 + int(b[3]>>4)
	if year < 0 || day < 0 || day == 0 {
		return time.Time{}, false
	}
	s := fmt.Sprintf("%d%02d%03d", century, year, day)
	t, err := time.Parse("2006002", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ISPFTime decodes the optional hhmm (2 bytes, BCD) and a separate seconds
// byte (BCD) appended to an ISPFDate.
func ISPFTime(hhmm []byte, seconds byte) (hour, minute, second int, ok bool) {
	if len(hhmm) < 2 {
		return 0, 0, 0, false
	}
	hour = bcdByte(hhmm[0])
	minute = bcdByte(hhmm[1])
	second = bcdByte(seconds)
	if hour < 0 || minute < 0 || second < 0 {
		return 0, 0, 0, false
	}
	return hour, minute, second, true
}

// bcdByte decodes a single packed-decimal byte (two BCD digits) returning
// -1 if either nibble is not a valid decimal digit.
func bcdByte(b byte) int {
	hi, lo := b>>4, b&0x0F
	if hi > 9 || lo > 9 {
		return -1
	}
	return int(hi)*10 + int(lo)
}
