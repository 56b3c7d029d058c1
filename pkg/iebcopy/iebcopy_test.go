package iebcopy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/logging"
)

func cp1140(t *testing.T) *ebcdic.Codepage {
	t.Helper()
	cp, err := ebcdic.Lookup("cp1140")
	require.NoError(t, err)
	return cp
}

// copyr1Block builds a minimal valid COPYR1 record in the XMIT layout (no
// BDW/SDW prefix, eye-catcher at offset 1).
func copyr1Block(recfmByte byte, lrecl uint16, pdse bool) []byte {
	b := make([]byte, 38)
	if pdse {
		b[0] = 0x01
	}
	b[1], b[2], b[3] = 0xCA, 0x6D, 0x0F
	b[4], b[5] = 0x02, 0x00 // DSORG PO
	b[6], b[7] = 0x0D, 0xC0 // BLKL 3520
	b[8], b[9] = byte(lrecl>>8), byte(lrecl)
	b[10] = recfmByte
	b[36], b[37] = 0x00, 0x02 // header record count
	return b
}

func copyr2Block() []byte {
	return make([]byte, 276)
}

type dirEntry struct {
	name     string
	ttr      uint32
	flags    byte
	userData []byte
}

// dirBlock packs entries into one 276-byte directory block terminated by
// the all-0xFF sentinel name.
func dirBlock(cp *ebcdic.Codepage, entries []dirEntry) []byte {
	var packed []byte
	for _, e := range entries {
		packed = append(packed, cp.Encode(e.name)...)
		packed = append(packed, byte(e.ttr>>16), byte(e.ttr>>8), byte(e.ttr))
		packed = append(packed, e.flags)
		packed = append(packed, e.userData...)
	}
	packed = append(packed, bytes.Repeat([]byte{0xFF}, 8)...)

	block := make([]byte, 276)
	block[4] = 8    // key length
	block[6] = 0x01 // data length 0x100
	length := len(packed) + 2
	block[20] = byte(length >> 8)
	block[21] = byte(length)
	copy(block[22:], packed)
	return block
}

// dataBlock builds one member-data record: the 12-byte header and payload.
func dataBlock(ttr uint32, payload []byte) []byte {
	hdr := make([]byte, 12)
	hdr[6], hdr[7], hdr[8] = byte(ttr>>16), byte(ttr>>8), byte(ttr)
	hdr[10] = byte(len(payload) >> 8)
	hdr[11] = byte(len(payload))
	return append(hdr, payload...)
}

// ispfUserData builds a 30-byte ISPF statistics block.
func ispfUserData(cp *ebcdic.Codepage, user string) []byte {
	parms := make([]byte, 30)
	parms[0], parms[1] = 0x01, 0x00 // version 01.00
	parms[2] = 0x00                 // flags
	parms[3] = 0x30                 // seconds
	copy(parms[4:8], []byte{0x00, 0x98, 0x12, 0x3C})  // created 1998.123
	copy(parms[8:12], []byte{0x00, 0x99, 0x20, 0x0C}) // modified 1999.200
	copy(parms[12:14], []byte{0x11, 0x45})            // 11:45
	parms[14], parms[15] = 0x00, 0x0A                 // lines
	parms[16], parms[17] = 0x00, 0x05                 // newlines
	parms[18], parms[19] = 0x00, 0x02                 // modlines
	copy(parms[20:28], cp.Encode(user))
	return parms
}

func TestParseCopyr1(t *testing.T) {
	c, err := ParseCopyr1(copyr1Block(0x90, 80, false))
	require.NoError(t, err)
	assert.False(t, c.PDSE)
	assert.Equal(t, "FB", c.RECFM)
	assert.Equal(t, uint16(80), c.LRECL)
	assert.Equal(t, uint16(0x0200), c.DSORG)
	assert.Equal(t, uint16(2), c.NumHeaderRecords)
}

func TestParseCopyr1PDSE(t *testing.T) {
	c, err := ParseCopyr1(copyr1Block(0x90, 80, true))
	require.NoError(t, err)
	assert.True(t, c.PDSE)
}

func TestParseCopyr1NoEyeCatcher(t *testing.T) {
	block := make([]byte, 38)
	_, err := ParseCopyr1(block)
	require.Error(t, err)
}

func TestParseCopyr1TapePrefix(t *testing.T) {
	// Tape blocks carry an 8-byte BDW/SDW prefix, pushing the eye-catcher
	// to offset 9.
	block := append(make([]byte, 8), copyr1Block(0x90, 80, false)...)
	c, err := ParseCopyr1(block)
	require.NoError(t, err)
	assert.Equal(t, "FB", c.RECFM)
}

func TestParseDirectorySentinelOnBoundary(t *testing.T) {
	cp := cp1140(t)
	dir := dirBlock(cp, []dirEntry{
		{name: "ALPHA   ", ttr: 1, flags: 0x00},
		{name: "BETA    ", ttr: 2, flags: 0x00},
	})
	require.Len(t, dir, 276)

	entries, terminated, err := ParseDirectory(dir, cp)
	require.NoError(t, err)
	assert.True(t, terminated)
	require.Len(t, entries, 2)
	assert.Equal(t, "ALPHA", entries[0].Name)
	assert.Equal(t, uint32(1), entries[0].TTR)
	assert.Equal(t, "BETA", entries[1].Name)
}

func TestParseDirectoryAliasFlags(t *testing.T) {
	cp := cp1140(t)
	dir := dirBlock(cp, []dirEntry{
		{name: "REAL    ", ttr: 1, flags: 0x00},
		{name: "NICKNAME", ttr: 1, flags: 0x80},
	})

	entries, terminated, err := ParseDirectory(dir, cp)
	require.NoError(t, err)
	require.True(t, terminated)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Alias)
	assert.True(t, entries[1].Alias)
}

func TestParseIspf(t *testing.T) {
	cp := cp1140(t)
	stats := ParseIspf(ispfUserData(cp, "BOB     "), 0, cp)
	require.NotNil(t, stats)
	assert.Equal(t, "01.00", stats.Version)
	assert.Equal(t, 1998, stats.CreateDate.Year())
	assert.Equal(t, 123, stats.CreateDate.YearDay())
	assert.Equal(t, 1999, stats.ModifyDate.Year())
	assert.Equal(t, 11, stats.ModifyDate.Hour())
	assert.Equal(t, 45, stats.ModifyDate.Minute())
	assert.Equal(t, 30, stats.ModifyDate.Second())
	assert.Equal(t, 10, stats.Lines)
	assert.Equal(t, 5, stats.NewLines)
	assert.Equal(t, 2, stats.ModLines)
	assert.Equal(t, "BOB", stats.User)
}

func TestParseIspfVersionIsDecimal(t *testing.T) {
	cp := cp1140(t)
	parms := ispfUserData(cp, "CAROL   ")
	parms[0], parms[1] = 10, 2

	stats := ParseIspf(parms, 0, cp)
	require.NotNil(t, stats)
	assert.Equal(t, "10.02", stats.Version)
}

func TestParseIspfAbsent(t *testing.T) {
	cp := cp1140(t)
	assert.Nil(t, ParseIspf(ispfUserData(cp, "BOB     "), 1, cp))
	assert.Nil(t, ParseIspf([]byte{0x01, 0x00}, 0, cp))
}

func TestParseIspfExtendedLineCounts(t *testing.T) {
	cp := cp1140(t)
	parms := ispfUserData(cp, "ALICE   ")
	parms[2] = 0x10 // extended statistics flag
	parms = append(parms, make([]byte, 10)...)
	require.Len(t, parms, 40)
	copy(parms[28:32], []byte{0x00, 0x01, 0x00, 0x00}) // 65536 lines
	copy(parms[32:36], []byte{0x00, 0x00, 0x80, 0x00}) // 32768 newlines
	copy(parms[36:40], []byte{0x00, 0x00, 0x00, 0x07})

	stats := ParseIspf(parms, 0, cp)
	require.NotNil(t, stats)
	assert.Equal(t, 65536, stats.Lines)
	assert.Equal(t, 32768, stats.NewLines)
	assert.Equal(t, 7, stats.ModLines)
}

func TestDecodePDSWithAlias(t *testing.T) {
	cp := cp1140(t)
	payload := cp.Encode("HELLO" + string(bytes.Repeat([]byte{' '}, 75)))

	blocks := [][]byte{
		copyr1Block(0x90, 80, false),
		copyr2Block(),
		dirBlock(cp, []dirEntry{
			{name: "ALPHA   ", ttr: 1, flags: 0x0F, userData: ispfUserData(cp, "BOB     ")},
			{name: "BETA    ", ttr: 1, flags: 0x80},
		}),
		dataBlock(1, payload),
		dataBlock(1, nil), // end-of-member marker
	}

	pds, err := Decode(blocks, FromXmit, cp, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "FB", pds.Copyr1.RECFM)
	require.Len(t, pds.Members, 2)

	alpha, beta := pds.Members[0], pds.Members[1]
	assert.Equal(t, "ALPHA", alpha.Name)
	assert.False(t, alpha.Alias)
	assert.Equal(t, payload, alpha.Data)
	require.NotNil(t, alpha.Ispf)
	assert.Equal(t, "BOB", alpha.Ispf.User)

	assert.Equal(t, "BETA", beta.Name)
	assert.True(t, beta.Alias)
	assert.Equal(t, "ALPHA", beta.AliasOf)
	assert.Nil(t, beta.Data)
}

func TestDecodePromotesOrphanAlias(t *testing.T) {
	cp := cp1140(t)
	payload := cp.Encode("DATA")

	blocks := [][]byte{
		copyr1Block(0x90, 80, false),
		copyr2Block(),
		dirBlock(cp, []dirEntry{
			{name: "GHOST   ", ttr: 5, flags: 0x80},
		}),
		dataBlock(5, payload),
		dataBlock(5, nil),
	}

	pds, err := Decode(blocks, FromXmit, cp, logging.Discard())
	require.NoError(t, err)
	require.Len(t, pds.Members, 1)
	assert.False(t, pds.Members[0].Alias, "sole alias sharing a TTR should be promoted")
	assert.Equal(t, payload, pds.Members[0].Data)
}

func TestDecodeSyntheticDeletedMembers(t *testing.T) {
	cp := cp1140(t)

	blocks := [][]byte{
		copyr1Block(0x90, 80, false),
		copyr2Block(),
		dirBlock(cp, []dirEntry{
			{name: "ONLY    ", ttr: 1, flags: 0x00},
		}),
		dataBlock(1, cp.Encode("KNOWN")),
		dataBlock(1, nil),
		dataBlock(9, cp.Encode("ORPHANED")),
		dataBlock(9, nil),
	}

	pds, err := Decode(blocks, FromXmit, cp, logging.Discard())
	require.NoError(t, err)
	require.Len(t, pds.Members, 2)
	assert.Equal(t, "ONLY", pds.Members[0].Name)
	assert.Equal(t, "DELETED1", pds.Members[1].Name)
	assert.True(t, pds.Members[1].Synthetic)
	assert.Equal(t, cp.Encode("ORPHANED"), pds.Members[1].Data)
}

func TestHandleVB(t *testing.T) {
	// BDW (4 bytes, ignored), then two records with 4-byte RDWs.
	vb := []byte{0x00, 0x14, 0x00, 0x00}
	vb = append(vb, 0x00, 0x07, 0x00, 0x00, 'A', 'B', 'C')
	vb = append(vb, 0x00, 0x09, 0x00, 0x00, 'D', 'E', 'F', 'G', 'H')

	records := handleVB(vb)
	require.Len(t, records, 2)
	assert.Equal(t, []byte("ABC"), records[0])
	assert.Equal(t, []byte("DEFGH"), records[1])
}

func TestDecodeVariableMembers(t *testing.T) {
	cp := cp1140(t)

	vb := []byte{0x00, 0x10, 0x00, 0x00}
	vb = append(vb, 0x00, 0x0C, 0x00, 0x00)
	vb = append(vb, cp.Encode("LINE ONE")...)

	blocks := [][]byte{
		copyr1Block(0x50, 255, false), // VB
		copyr2Block(),
		dirBlock(cp, []dirEntry{
			{name: "VMEM    ", ttr: 1, flags: 0x00},
		}),
		dataBlock(1, vb),
		dataBlock(1, nil),
	}

	pds, err := Decode(blocks, FromXmit, cp, logging.Discard())
	require.NoError(t, err)
	require.Len(t, pds.Members, 1)
	m := pds.Members[0]
	require.Len(t, m.Records, 1)
	assert.Equal(t, cp.Encode("LINE ONE"), m.Records[0])
	assert.Equal(t, cp.Encode("LINE ONE"), m.Data)
}
