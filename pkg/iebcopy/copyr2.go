package iebcopy

import (
	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/consts"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// Copyr2 is the second IEBCOPY control record: the original dataset's
// DEB head followed by up to 16 extent descriptors, stored verbatim.
type Copyr2 struct {
	DEB     [16]byte
	Extents [][16]byte
}

// ParseCopyr2 decodes a COPYR2 record, which must not exceed 276 bytes.
func ParseCopyr2(block []byte) (*Copyr2, error) {
	if len(block) > consts.IebcopyDirBlockSize {
		return nil, &mferrors.BadCopyR1{Reason: "COPYR2 longer than 276 bytes"}
	}

	c := &Copyr2{}
	deb, err := byteio.BoundedSlice(block, 0, consts.IebcopyCopyR2DEBHeadLen, "COPYR2 DEB head")
	if err != nil {
		return nil, err
	}
	copy(c.DEB[:], deb)

	for i := 0; i < consts.IebcopyCopyR2ExtentCount; i++ {
		offset := consts.IebcopyCopyR2DEBHeadLen + i*consts.IebcopyCopyR2ExtentLen
		extent, err := byteio.BoundedSlice(block, offset, consts.IebcopyCopyR2ExtentLen, "COPYR2 extent")
		if err != nil {
			break
		}
		var e [16]byte
		copy(e[:], extent)
		c.Extents = append(c.Extents, e)
	}

	return c, nil
}
