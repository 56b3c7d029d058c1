package iebcopy

import (
	"strings"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/consts"
	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// DirEntry is one decoded PDS directory entry.
type DirEntry struct {
	Name     string
	TTR      uint32
	Alias    bool
	UserData []byte
	Ispf     *Ispf
}

// dirEntryPrefixLen is the 12-byte zero/key-length/data-length header at
// the start of every 276-byte directory block.
const dirEntryPrefixLen = consts.IebcopyDirBlockHeaderSize
const dirLastReferencedLen = 8
const dirEntriesLenFieldLen = 2
const dirEntriesOffset = dirEntryPrefixLen + dirLastReferencedLen + dirEntriesLenFieldLen

// ParseDirectory walks dir (the concatenation of 276-byte directory
// blocks, BDW/SDW already stripped by the caller) and decodes each
// member entry until the all-0xFF sentinel is reached. terminated
// reports whether that sentinel was actually found; callers accumulating
// blocks incrementally use it to know when to stop feeding in more.
func ParseDirectory(dir []byte, cp *ebcdic.Codepage) (entries []DirEntry, terminated bool, err error) {
	for blockStart := 0; blockStart+consts.IebcopyDirBlockSize <= len(dir); blockStart += consts.IebcopyDirBlockSize {
		block := dir[blockStart : blockStart+consts.IebcopyDirBlockSize]

		lenField, err := byteio.BoundedSlice(block, dirEntryPrefixLen+dirLastReferencedLen, dirEntriesLenFieldLen, "directory entries length")
		if err != nil {
			return nil, false, err
		}
		entriesLen := int(lenField[0])<<8 | int(lenField[1])
		entriesLen -= dirEntriesLenFieldLen
		if entriesLen < 0 {
			return nil, false, &mferrors.MalformedTape{Reason: "negative directory entries length", AtOffset: blockStart}
		}

		region, err := byteio.BoundedSlice(block, dirEntriesOffset, entriesLen, "directory entries region")
		if err != nil {
			return nil, false, err
		}

		done, err := parseDirEntries(region, cp, &entries)
		if err != nil {
			return nil, false, err
		}
		if done {
			return entries, true, nil
		}
	}

	return entries, false, nil
}

// parseDirEntries decodes the entries packed into one directory block's
// entries region, appending to out. It returns done=true once the
// all-0xFF terminator is seen.
func parseDirEntries(region []byte, cp *ebcdic.Codepage, out *[]DirEntry) (bool, error) {
	loc := 0
	for loc < len(region) {
		name, err := byteio.BoundedSlice(region, loc, consts.IebcopyMemberNameLen, "directory entry name")
		if err != nil {
			return false, err
		}
		if isAllFF(name) {
			return true, nil
		}

		ttrBytes, err := byteio.BoundedSlice(region, loc+consts.IebcopyMemberNameLen, consts.IebcopyTTRLen, "directory entry TTR")
		if err != nil {
			return false, err
		}
		flags, err := byteio.BoundedSlice(region, loc+consts.IebcopyMemberNameLen+consts.IebcopyTTRLen, 1, "directory entry flags")
		if err != nil {
			return false, err
		}

		halfwords := int(flags[0] & consts.IebcopyMemberHalfwordsMask)
		notes := (flags[0] & consts.IebcopyMemberNotesMask) >> consts.IebcopyMemberNotesShift
		alias := flags[0]&consts.IebcopyMemberAliasBit != 0
		userDataLen := halfwords * 2

		entryLen := consts.IebcopyMemberNameLen + consts.IebcopyTTRLen + 1
		userData, err := byteio.BoundedSlice(region, loc+entryLen, userDataLen, "directory entry user data")
		if err != nil {
			return false, err
		}
		userDataCopy := make([]byte, len(userData))
		copy(userDataCopy, userData)

		*out = append(*out, DirEntry{
			Name:     strings.TrimRight(cp.Decode(name), " "),
			TTR:      byteio.BE24(ttrBytes),
			Alias:    alias,
			UserData: userDataCopy,
			Ispf:     ParseIspf(userDataCopy, notes, cp),
		})

		loc += entryLen + userDataLen
	}
	return false, nil
}

func isAllFF(name []byte) bool {
	for _, b := range name {
		if b != 0xFF {
			return false
		}
	}
	return true
}
