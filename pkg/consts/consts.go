// Package consts holds byte-layout constants shared across the XMIT, tape
// and IEBCOPY decoders.
package consts

const (
	// XmitSegmentHeaderSize is the number of bytes (length + flag) that
	// precede every XMIT segment's payload.
	XmitSegmentHeaderSize = 2

	// XmitFlagFirstSegment marks the first segment of a logical record.
	XmitFlagFirstSegment = 0x80
	// XmitFlagLastSegment marks the last segment of a logical record.
	XmitFlagLastSegment = 0x40
	// XmitFlagControlRecord marks a segment carrying a control record
	// (INMR01/INMR02/INMR03/INMR06) rather than file data.
	XmitFlagControlRecord = 0x20
	// XmitFlagReserved is ignored.
	XmitFlagReserved = 0x0F

	// XmitControlRecordTypeLen is the length of the EBCDIC record-type tag
	// at the start of a control record's payload (e.g. "INMR01").
	XmitControlRecordTypeLen = 6

	// TapeBlockHeaderSize is the size of an AWS/HET block header.
	TapeBlockHeaderSize = 6

	// Tape block header flag bits.
	TapeFlagNewRecord  = 0x8000
	TapeFlagEndRecord  = 0x2000
	TapeFlagTapeMark   = 0x4000
	TapeFlagZlib       = 0x0100
	TapeFlagBzip2      = 0x0200
	TapeFlagKnownMask  = TapeFlagNewRecord | TapeFlagEndRecord | TapeFlagTapeMark
	TapeFlagCompressed = TapeFlagZlib | TapeFlagBzip2

	// TapeLabelSize is the fixed width of VOL1/HDR1/HDR2/UTL/EOFn labels.
	TapeLabelSize = 80

	// IebcopyEyeCatcherXmitOffset/TapeOffset/Len locate the 3-byte magic
	// that must be present in a COPYR1 record for the dataset to be
	// treated as an IEBCOPY dump.
	IebcopyEyeCatcherXmitOffset = 1
	IebcopyEyeCatcherTapeOffset = 9
	IebcopyEyeCatcherLen        = 3

	// IebcopyCopyR1MaxLen bounds the COPYR1 structure after its 8-byte
	// prefix.
	IebcopyCopyR1MaxLen = 64

	// IebcopyCopyR2Len is the fixed size of a COPYR2 control record: a
	// 16-byte DEB head, 16 extents of 16 bytes each, and 4 reserved bytes.
	IebcopyCopyR2DEBHeadLen  = 16
	IebcopyCopyR2ExtentCount = 16
	IebcopyCopyR2ExtentLen   = 16
	IebcopyCopyR2ReservedLen = 4
	IebcopyCopyR2Len         = IebcopyCopyR2DEBHeadLen + IebcopyCopyR2ExtentCount*IebcopyCopyR2ExtentLen + IebcopyCopyR2ReservedLen

	// IebcopyDirBlockSize is the size of a single PDS directory block.
	IebcopyDirBlockSize = 276
	// IebcopyDirBlockHeaderSize is the size of the count/key header at the
	// start of a directory block; the 8-byte last-referenced name and the
	// 2-byte entries length follow it before the directory entries.
	IebcopyDirBlockHeaderSize = 12

	// IebcopyMemberNameLen is the width of a directory entry's EBCDIC name
	// field.
	IebcopyMemberNameLen = 8
	// IebcopyTTRLen is the width of a Track-Track-Record address.
	IebcopyTTRLen = 3

	// IebcopyMemberAliasBit marks a directory entry as an alias.
	IebcopyMemberAliasBit = 0x80
	// IebcopyMemberHalfwordsMask extracts the user-data halfword count.
	IebcopyMemberHalfwordsMask = 0x1F
	// IebcopyMemberNotesShift/Mask extract the notes field.
	IebcopyMemberNotesMask  = 0x60
	IebcopyMemberNotesShift = 5

	// IebcopyPDSEBit is bit 0 of COPYR1's first byte, set when the source
	// dataset is a PDSE rather than a classic PDS.
	IebcopyPDSEBit = 0x01

	// DefaultEBCDICCodepage is the codepage used when none is configured.
	DefaultEBCDICCodepage = "cp1140"
)
