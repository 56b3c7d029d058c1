package xmit

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/logging"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

func cp1140(t *testing.T) *ebcdic.Codepage {
	t.Helper()
	cp, err := ebcdic.Lookup("cp1140")
	require.NoError(t, err)
	return cp
}

// seg frames payload as one XMIT segment with the given flag byte.
func seg(flag byte, payload []byte) []byte {
	out := []byte{byte(len(payload) + 2), flag}
	return append(out, payload...)
}

// tu encodes one text unit: key, item count, then length-prefixed items.
func tu(key uint16, items ...[]byte) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], key)
	binary.BigEndian.PutUint16(out[2:4], uint16(len(items)))
	for _, item := range items {
		lenField := make([]byte, 2)
		binary.BigEndian.PutUint16(lenField, uint16(len(item)))
		out = append(out, lenField...)
		out = append(out, item...)
	}
	return out
}

func controlRecord(cp *ebcdic.Codepage, recType string, body ...[]byte) []byte {
	payload := cp.Encode(recType)
	for _, b := range body {
		payload = append(payload, b...)
	}
	return seg(0xE0, payload)
}

func fileNumber(n uint32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, n)
	return out
}

// buildXmit assembles a single-file transmission: INMR01, INMR02, INMR03,
// the given data records, INMR06.
func buildXmit(cp *ebcdic.Codepage, dataRecords ...[]byte) []byte {
	stream := controlRecord(cp, "INMR01",
		tu(KeyINMFNODE, cp.Encode("NODEA")),
		tu(KeyINMFUID, cp.Encode("USER1")),
		tu(KeyINMTNODE, cp.Encode("NODEB")),
		tu(KeyINMTUID, cp.Encode("USER2")),
		tu(KeyINMFTIME, cp.Encode("20240102030405")),
		tu(KeyINMNUMF, []byte{0x01}),
	)
	stream = append(stream, controlRecord(cp, "INMR02",
		fileNumber(1),
		tu(KeyINMDSNAM, cp.Encode("USER1"), cp.Encode("TEST"), cp.Encode("SRC")),
		tu(KeyINMDSORG, []byte{0x40, 0x00}),
		tu(KeyINMRECFM, []byte{0x90, 0x00}),
		tu(KeyINMLRECL, []byte{0x50}),
	)...)
	stream = append(stream, controlRecord(cp, "INMR03",
		tu(KeyINMDSORG, []byte{0x40, 0x00}),
		tu(KeyINMRECFM, []byte{0x90, 0x00}),
		tu(KeyINMLRECL, []byte{0x50}),
	)...)
	for _, rec := range dataRecords {
		stream = append(stream, seg(0xC0, rec)...)
	}
	stream = append(stream, controlRecord(cp, "INMR06")...)
	return stream
}

func TestParseSingleFile(t *testing.T) {
	cp := cp1140(t)
	record := cp.Encode("HELLO   ")
	buf := buildXmit(cp, record)

	res, err := Parse(buf, cp, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, res.Header)

	node, ok := res.Header.Char(KeyINMFNODE, cp, "")
	require.True(t, ok)
	assert.Equal(t, "NODEA", node)

	numf, ok := res.Header.Dec(KeyINMNUMF)
	require.True(t, ok)
	assert.Equal(t, 1, numf)

	require.Len(t, res.Files, 1)
	f := res.Files[0]
	require.NotNil(t, f.Inmr02)
	require.NotNil(t, f.Inmr03)

	dsn, ok := f.Inmr02.Char(KeyINMDSNAM, cp, ".")
	require.True(t, ok)
	assert.Equal(t, "USER1.TEST.SRC", dsn)

	lrecl, ok := f.Inmr02.Dec(KeyINMLRECL)
	require.True(t, ok)
	assert.Equal(t, 80, lrecl)

	require.Len(t, f.Blocks, 1)
	assert.Equal(t, record, f.Blocks[0])
}

func TestParseMultiSegmentRecord(t *testing.T) {
	cp := cp1140(t)
	part1 := cp.Encode("HELLO")
	part2 := cp.Encode("WORLD")

	stream := controlRecord(cp, "INMR01", tu(KeyINMFUID, cp.Encode("USER1")))
	stream = append(stream, controlRecord(cp, "INMR02",
		fileNumber(1),
		tu(KeyINMDSNAM, cp.Encode("SEQ")),
	)...)
	stream = append(stream, seg(0x80, part1)...) // first segment
	stream = append(stream, seg(0x40, part2)...) // last segment
	stream = append(stream, controlRecord(cp, "INMR06")...)

	res, err := Parse(stream, cp, logging.Discard())
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Len(t, res.Files[0].Blocks, 1)
	assert.Equal(t, append(append([]byte{}, part1...), part2...), res.Files[0].Blocks[0])
}

func TestParseStopsAtINMR06(t *testing.T) {
	cp := cp1140(t)
	buf := buildXmit(cp, cp.Encode("DATA    "))
	withJunk := append(append([]byte{}, buf...), 0xDE, 0xAD, 0xBE, 0xEF)

	res, err := Parse(buf, cp, logging.Discard())
	require.NoError(t, err)
	resJunk, err := Parse(withJunk, cp, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, len(res.Files), len(resJunk.Files))
	assert.Equal(t, res.Files[0].Blocks, resJunk.Files[0].Blocks)
}

func TestParseMissingINMR01(t *testing.T) {
	cp := cp1140(t)
	stream := controlRecord(cp, "INMR06")

	_, err := Parse(stream, cp, logging.Discard())
	require.Error(t, err)
	malformed := &mferrors.MalformedXmit{}
	assert.ErrorAs(t, err, &malformed)
}

func TestParseMessage(t *testing.T) {
	cp := cp1140(t)

	stream := controlRecord(cp, "INMR01", tu(KeyINMFUID, cp.Encode("USER1")))
	// File 1 is the message: no INMDSNAM, zero-length INMTERM marker.
	stream = append(stream, controlRecord(cp, "INMR02",
		fileNumber(1),
		tu(KeyINMTERM),
	)...)
	stream = append(stream, controlRecord(cp, "INMR03",
		tu(KeyINMLRECL, []byte{0x08}),
	)...)
	stream = append(stream, seg(0xC0, cp.Encode("MSG LINE"))...)
	// File 2 is a real dataset.
	stream = append(stream, controlRecord(cp, "INMR02",
		fileNumber(2),
		tu(KeyINMDSNAM, cp.Encode("REAL"), cp.Encode("DATA")),
		tu(KeyINMLRECL, []byte{0x08}),
	)...)
	stream = append(stream, controlRecord(cp, "INMR03",
		tu(KeyINMLRECL, []byte{0x08}),
	)...)
	stream = append(stream, seg(0xC0, cp.Encode("FILEDATA"))...)
	stream = append(stream, controlRecord(cp, "INMR06")...)

	res, err := Parse(stream, cp, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, cp.Encode("MSG LINE"), res.Message)

	require.Len(t, res.Files, 2)
	require.Len(t, res.Files[1].Blocks, 1)
	assert.Equal(t, cp.Encode("FILEDATA"), res.Files[1].Blocks[0])
}

func TestParseOriginTimestamp(t *testing.T) {
	ts, ok := ParseOriginTimestamp("20240102030405")
	require.True(t, ok)
	assert.Equal(t, "2024-01-02T03:04:05.000000", ts.Format("2006-01-02T15:04:05.000000"))

	ts, ok = ParseOriginTimestamp("20240102030405123456")
	require.True(t, ok)
	assert.Equal(t, 123456000, ts.Nanosecond())

	_, ok = ParseOriginTimestamp("not a date")
	assert.False(t, ok)
}

func TestINMTypeString(t *testing.T) {
	assert.Equal(t, "Data Library", INMTypeString([]byte{0x80}))
	assert.Equal(t, "Program Library", INMTypeString([]byte{0x40}))
	assert.Equal(t, "None", INMTypeString([]byte{0x00}))
	assert.Equal(t, "None", INMTypeString(nil))
}
