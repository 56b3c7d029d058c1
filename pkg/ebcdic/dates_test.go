package ebcdic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTapeDate(t *testing.T) {
	// Century ' ' => 19xx.
	d, ok := TapeDate(" 98123")
	require.True(t, ok)
	assert.Equal(t, time.Date(1998, time.May, 3, 0, 0, 0, 0, time.UTC), d)

	// Century digit => 20xx family.
	d, ok = TapeDate("024032")
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 32, d.YearDay())
}

func TestTapeDateTrailingZeroCorrection(t *testing.T) {
	// A trailing '0' day digit is treated as '1'.
	d, ok := TapeDate(" 99100")
	require.True(t, ok)
	assert.Equal(t, 101, d.YearDay())
}

func TestTapeDateInvalid(t *testing.T) {
	for _, s := range []string{"", "9812", "X98123", " 98999"} {
		if _, ok := TapeDate(s); ok {
			t.Errorf("TapeDate(%q) unexpectedly parsed", s)
		}
	}
}

func TestISPFDate(t *testing.T) {
	// 0x00 => century 19, BCD year 98, day 123.
	d, ok := ISPFDate([]byte{0x00, 0x98, 0x12, 0x3C})
	require.True(t, ok)
	assert.Equal(t, time.Date(1998, time.May, 3, 0, 0, 0, 0, time.UTC), d)

	// 0x01 => century 20.
	d, ok = ISPFDate([]byte{0x01, 0x24, 0x03, 0x2C})
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 32, d.YearDay())
}

func TestISPFDateInvalid(t *testing.T) {
	if _, ok := ISPFDate([]byte{0x00, 0xAB, 0x12, 0x3C}); ok {
		t.Error("non-BCD year unexpectedly parsed")
	}
	if _, ok := ISPFDate([]byte{0x00, 0x98}); ok {
		t.Error("short input unexpectedly parsed")
	}
	if _, ok := ISPFDate([]byte{0x00, 0x98, 0x00, 0x0C}); ok {
		t.Error("day zero unexpectedly parsed")
	}
}

func TestISPFTime(t *testing.T) {
	hour, minute, second, ok := ISPFTime([]byte{0x12, 0x34}, 0x56)
	require.True(t, ok)
	assert.Equal(t, 12, hour)
	assert.Equal(t, 34, minute)
	assert.Equal(t, 56, second)

	_, _, _, ok = ISPFTime([]byte{0xFF, 0x34}, 0x00)
	assert.False(t, ok)
}
