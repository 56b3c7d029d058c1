// Package iebcopy decodes the IEBCOPY-format PDS dump embedded inside a
// sequential dataset's blocks: COPYR1/COPYR2 control records, the PDS
// directory, ISPF statistics, alias links, and member data/VB reassembly.
package iebcopy

import (
	"fmt"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/consts"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
	"github.com/bgrewell/mfarchive/pkg/recfm"
)

// Copyr1 is the first IEBCOPY control record, carrying the source
// dataset's organization/format and the device geometry it was dumped
// from.
type Copyr1 struct {
	PDSE             bool
	DSORG            uint16
	BLKL             uint16
	LRECL            uint16
	RECFM            string
	KEYL             byte
	OPTCD            byte
	SMSFG            byte
	DVAOpts          uint16
	DVAClass         byte
	DVAUnit          byte
	DVAMaxRC         uint32
	DVACyl           uint16
	DVATrk           uint16
	DVATrkLen        uint16
	DVAOvhd          uint16
	NumHeaderRecords uint16
	// DS1REFD is the last-reference date: a two-digit year (century
	// folded in) followed by the day number zero-padded to four digits
	// ("yydddd"), empty when the
	// trailing reserved field was all zero.
	DS1REFD string
}

// ParseCopyr1 looks for the 0xCA6D0F eye-catcher at the XMIT offset (no
// prefix) or the tape offset (after an 8-byte BDW/SDW prefix, which
// ParseCopyr1 skips itself), and decodes the fixed fields that
// follow. A dataset whose first block carries neither is sequential, not
// a PDS dump, and ParseCopyr1 reports BadCopyR1.
func ParseCopyr1(block []byte) (*Copyr1, error) {
	atXmitOffset, err := eyeCatcherAt(block, consts.IebcopyEyeCatcherXmitOffset)
	if err != nil {
		return nil, err
	}
	atTapeOffset, err := eyeCatcherAt(block, consts.IebcopyEyeCatcherTapeOffset)
	if err != nil {
		return nil, err
	}
	if !atXmitOffset && !atTapeOffset {
		return nil, &mferrors.BadCopyR1{Reason: "eye-catcher 0xCA6D0F not found at offset 1 or 9"}
	}

	body := block
	if !atXmitOffset {
		body, err = byteio.BoundedSlice(block, 8, len(block)-8, "COPYR1 body after BDW/SDW prefix")
		if err != nil {
			return nil, err
		}
	}
	if len(body) > consts.IebcopyCopyR1MaxLen {
		return nil, &mferrors.BadCopyR1{Reason: "record longer than 64 bytes"}
	}
	if len(body) < 38 {
		return nil, &mferrors.BadCopyR1{Reason: "record shorter than the fixed COPYR1 fields"}
	}

	r := byteio.New(body)
	if err := r.Skip(4, "COPYR1 reserved prefix"); err != nil {
		return nil, err
	}
	c := &Copyr1{PDSE: body[0]&consts.IebcopyPDSEBit != 0}

	dsorg, err := r.BE16("DS1DSORG")
	if err != nil {
		return nil, err
	}
	c.DSORG = dsorg

	blkl, err := r.BE16("DS1BLKL")
	if err != nil {
		return nil, err
	}
	c.BLKL = blkl

	lrecl, err := r.BE16("DS1LRECL")
	if err != nil {
		return nil, err
	}
	c.LRECL = lrecl

	recfmBytes, err := r.Take(2, "DS1RECFM")
	if err != nil {
		return nil, err
	}
	c.RECFM = recfm.Decode([2]byte{recfmBytes[0], recfmBytes[1]})
	c.KEYL = recfmBytes[1]

	optcd, err := r.U8("DS1OPTCD")
	if err != nil {
		return nil, err
	}
	c.OPTCD = optcd

	smsfg, err := r.U8("DS1SMSFG")
	if err != nil {
		return nil, err
	}
	c.SMSFG = smsfg

	if err := r.Skip(2, "file tape block size"); err != nil {
		return nil, err
	}

	dvaopts, err := r.BE16("DVAOPTS")
	if err != nil {
		return nil, err
	}
	c.DVAOpts = dvaopts

	dvaclass, err := r.U8("DVACLASS")
	if err != nil {
		return nil, err
	}
	c.DVAClass = dvaclass

	dvaunit, err := r.U8("DVAUNIT")
	if err != nil {
		return nil, err
	}
	c.DVAUnit = dvaunit

	dvamaxrc, err := r.BE32("DVAMAXRC")
	if err != nil {
		return nil, err
	}
	c.DVAMaxRC = dvamaxrc

	dvacyl, err := r.BE16("DVACYL")
	if err != nil {
		return nil, err
	}
	c.DVACyl = dvacyl

	dvatrk, err := r.BE16("DVATRK")
	if err != nil {
		return nil, err
	}
	c.DVATrk = dvatrk

	dvatrkln, err := r.BE16("DVATRKLN")
	if err != nil {
		return nil, err
	}
	c.DVATrkLen = dvatrkln

	dvaovhd, err := r.BE16("DVAOVHD")
	if err != nil {
		return nil, err
	}
	c.DVAOvhd = dvaovhd

	if len(body) >= 38 {
		r.Seek(36)
		numHdr, err := r.BE16("num_header_records")
		if err != nil {
			return nil, err
		}
		c.NumHeaderRecords = numHdr
	}

	if tail, err := byteio.BoundedSlice(body, 38, len(body)-38, "COPYR1 reserved tail"); err == nil && !allZero(tail) {
		if refd, err := byteio.BoundedSlice(body, 39, 3, "DS1REFD"); err == nil {
			c.DS1REFD = fmt.Sprintf("%02d%04d", int(refd[0])%100, int(refd[1])<<8|int(refd[2]))
		}
	}

	return c, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func eyeCatcherAt(block []byte, offset int) (bool, error) {
	b, err := byteio.BoundedSlice(block, offset, consts.IebcopyEyeCatcherLen, "COPYR1 eye-catcher")
	if err != nil {
		return false, nil // too short to carry an eye-catcher at this offset; not an error
	}
	return byteio.BE24(b) == 0xCA6D0F, nil
}
