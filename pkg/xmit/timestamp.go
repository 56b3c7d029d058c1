package xmit

import (
	"strings"
	"time"
)

// ParseOriginTimestamp decodes an INMFTIME value into an ISO-8601 instant
// with microsecond precision. The source field is right-padded with
// trailing zeros to 20 characters before parsing "YYYYMMDDHHMMSSffffff".
func ParseOriginTimestamp(raw string) (time.Time, bool) {
	if len(raw) > 20 {
		raw = raw[:20]
	}
	raw = raw + strings.Repeat("0", 20-len(raw))

	t, err := time.Parse("20060102150405.000000", raw[:14]+"."+raw[14:])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
