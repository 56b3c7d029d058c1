package iebcopy

import (
	"fmt"
	"sort"

	"github.com/bgrewell/mfarchive/pkg/byteio"
	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/logging"
	"github.com/bgrewell/mfarchive/pkg/recfm"
)

// Origin identifies which container a PDS dump's blocks were reassembled
// from, since tape blocks carry an extra 8-byte BDW/SDW prefix that XMIT
// blocks do not.
type Origin int

const (
	FromXmit Origin = iota
	FromTape
)

// Member is one resolved PDS member: a directory entry plus its
// reassembled data.
type Member struct {
	Name      string
	Alias     bool
	AliasOf   string
	TTR       uint32
	Ispf      *Ispf
	Data      []byte
	Records   [][]byte // populated for RECFM-V/VB members; nil for fixed-format ones
	Synthetic bool      // true for DELETEDn placeholder members
}

// PDS is the fully decoded IEBCOPY dump of one partitioned dataset.
type PDS struct {
	Copyr1  *Copyr1
	Copyr2  *Copyr2
	Members []*Member // directory order
}

// Decode parses blocks (a dataset's reassembled block list, in arrival
// order) as an IEBCOPY PDS dump: COPYR1, COPYR2, the member directory,
// and the member data blocks, with alias resolution and VB/RDW
// reassembly applied.
func Decode(blocks [][]byte, origin Origin, cp *ebcdic.Codepage, log *logging.Logger) (*PDS, error) {
	if len(blocks) < 2 {
		return nil, fmt.Errorf("too few blocks for a COPYR1/COPYR2 pair")
	}

	copyr1, err := ParseCopyr1(blocks[0])
	if err != nil {
		return nil, err
	}
	copyr2, err := ParseCopyr2(stripPrefix(blocks[1], origin))
	if err != nil {
		return nil, err
	}

	dirBuf := []byte{}
	var entries []DirEntry
	consumed := 2
	for _, blk := range blocks[2:] {
		dirBuf = append(dirBuf, stripPrefix(blk, origin)...)
		consumed++
		es, terminated, err := ParseDirectory(dirBuf, cp)
		if err != nil {
			return nil, err
		}
		entries = es
		if terminated {
			break
		}
	}

	ttrToName, promoted := resolveAliases(entries)

	members := make(map[string]*Member, len(entries))
	var order []string
	for _, e := range entries {
		alias := e.Alias && !promoted[e.Name]
		m := &Member{Name: e.Name, Alias: alias, TTR: e.TTR, Ispf: e.Ispf}
		if alias {
			if target, ok := ttrToName[e.TTR]; ok && target != e.Name {
				m.AliasOf = target
			}
		}
		members[e.Name] = m
		order = append(order, e.Name)
	}

	memberBuf := []byte{}
	for _, blk := range blocks[consumed:] {
		memberBuf = append(memberBuf, stripPrefix(blk, origin)...)
	}

	sortedTTRs := make([]uint32, 0, len(ttrToName))
	for ttr := range ttrToName {
		sortedTTRs = append(sortedTTRs, ttr)
	}
	sort.Slice(sortedTTRs, func(i, j int) bool { return sortedTTRs[i] < sortedTTRs[j] })

	recfmStr := copyr1.RECFM
	isPDSE := copyr1.PDSE

	walked, err := walkMemberBlocks(memberBuf, sortedTTRs, ttrToName, recfmStr, isPDSE, log)
	if err != nil {
		return nil, err
	}
	for _, synth := range walked.synthetic {
		members[synth.Name] = synth
		order = append(order, synth.Name)
	}
	for name, data := range walked.data {
		if m, ok := members[name]; ok {
			m.Data = data.bytes
			m.Records = data.records
		}
	}

	pds := &PDS{Copyr1: copyr1, Copyr2: copyr2}
	for _, name := range order {
		pds.Members = append(pds.Members, members[name])
	}
	return pds, nil
}

func stripPrefix(blk []byte, origin Origin) []byte {
	if origin == FromTape && len(blk) >= 8 {
		return blk[8:]
	}
	return blk
}

// resolveAliases builds the TTR→member-name index used to answer
// "what does this alias point to", promoting the first alias sharing a
// TTR to non-alias status when no non-alias member claims that TTR.
func resolveAliases(entries []DirEntry) (ttrToName map[uint32]string, promoted map[string]bool) {
	ttrToName = make(map[uint32]string)
	aliasByTTR := make(map[uint32]string)
	promoted = make(map[string]bool)

	for _, e := range entries {
		if e.Alias {
			aliasByTTR[e.TTR] = e.Name
		} else {
			ttrToName[e.TTR] = e.Name
		}
	}
	for ttr, name := range aliasByTTR {
		if _, ok := ttrToName[ttr]; !ok {
			ttrToName[ttr] = name
			promoted[name] = true
		}
	}
	return ttrToName, promoted
}

type memberData struct {
	bytes   []byte
	records [][]byte
}

type walkResult struct {
	data      map[string]*memberData
	synthetic []*Member
}

// walkMemberBlocks performs the IEBCOPY member-data walk:
// each 12-byte block header carries a TTR and a data length; data blocks
// are assigned to members by matching ascending TTR order against the
// directory's ascending TTR order. Extra data blocks beyond the known
// member count become synthetic DELETEDn members.
func walkMemberBlocks(buf []byte, sortedTTRs []uint32, ttrToName map[uint32]string, recfmStr string, isPDSE bool, log *logging.Logger) (*walkResult, error) {
	res := &walkResult{data: make(map[string]*memberData)}
	variable := recfm.IsVariable(recfmStr)

	ttrIndex := 0
	deletedNum := 0
	recordClosed := false
	var prevTTR uint32

	loc := 0
	for loc+12 <= len(buf) {
		if isPDSE && recordClosed {
			for loc+12 <= len(buf) {
				ttr := byteio.BE24(buf[loc+6 : loc+9])
				if ttr != prevTTR {
					break
				}
				dataLen := int(buf[loc+10])<<8 | int(buf[loc+11])
				log.Debug("skipping duplicate-TTR PDSE block", "ttr", ttr, "len", dataLen)
				loc += 12 + dataLen
			}
			recordClosed = false
			if loc+12 > len(buf) {
				break
			}
		}

		ttr := byteio.BE24(buf[loc+6 : loc+9])
		dataLen := int(buf[loc+10])<<8 | int(buf[loc+11])

		if ttr == 0 && dataLen == 0 {
			loc += 12 + dataLen
			continue
		}

		if ttrIndex >= len(sortedTTRs) {
			deletedNum++
			name := fmt.Sprintf("DELETED%d", deletedNum)
			log.Warn("more member data blocks than directory entries", "placeholder", name)
			sortedTTRs = append(sortedTTRs, ttr)
			ttrToName[ttr] = name
			res.synthetic = append(res.synthetic, &Member{Name: name, Synthetic: true, TTR: ttr})
		}

		name := ttrToName[sortedTTRs[ttrIndex]]
		md := res.data[name]
		if md == nil {
			md = &memberData{}
			res.data[name] = md
		}

		payload, err := byteio.BoundedSlice(buf, loc+12, dataLen, "member data block")
		if err != nil {
			return nil, err
		}

		if variable {
			records := handleVB(payload)
			md.records = append(md.records, records...)
			joined := make([]byte, 0, len(payload))
			for _, r := range md.records {
				joined = append(joined, r...)
			}
			md.bytes = joined
		} else {
			md.bytes = append(md.bytes, payload...)
		}

		prevTTR = ttr
		loc += 12 + dataLen

		if dataLen == 0 {
			if isPDSE {
				recordClosed = true
			}
			ttrIndex++
		}
	}

	return res, nil
}

// handleVB splits a RECFM-V/VB data block into its individual records: a
// leading 4-byte BDW is skipped, then each record is a 2-byte length
// (including its own 4-byte RDW), 2 reserved bytes, and the record bytes.
func handleVB(vb []byte) [][]byte {
	var records [][]byte
	loc := 4
	for loc+4 <= len(vb) {
		rdwLen := int(vb[loc])<<8 | int(vb[loc+1])
		if rdwLen <= 0 {
			break
		}
		end := loc + rdwLen
		if end > len(vb) {
			end = len(vb)
		}
		if loc+4 <= end {
			rec := make([]byte, end-(loc+4))
			copy(rec, vb[loc+4:end])
			records = append(records, rec)
		}
		loc += rdwLen
	}
	return records
}
