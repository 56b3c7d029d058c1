// Package mfarchive decodes mainframe archive containers: TSO/E INMCOPY
// "XMI" transmission files and AWS/HET virtual tape images. An input
// buffer is sniffed, walked by the matching container parser, and each
// embedded dataset is reconstructed — including IEBCOPY-format PDS
// directories, their members, ISPF statistics and alias links. The
// resulting Archive is immutable and answers all inspection queries
// without touching the input again.
package mfarchive

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bgrewell/mfarchive/pkg/classify"
	"github.com/bgrewell/mfarchive/pkg/detect"
	"github.com/bgrewell/mfarchive/pkg/ebcdic"
	"github.com/bgrewell/mfarchive/pkg/iebcopy"
	"github.com/bgrewell/mfarchive/pkg/logging"
	"github.com/bgrewell/mfarchive/pkg/mferrors"
	"github.com/bgrewell/mfarchive/pkg/recfm"
	"github.com/bgrewell/mfarchive/pkg/tape"
	"github.com/bgrewell/mfarchive/pkg/xmit"
)

// Archive is the fully parsed, read-only result of one Parse call.
// Multiple goroutines may query a single Archive concurrently.
type Archive struct {
	kind       detect.Kind
	header     *XmitHeader
	volume     *tape.VolumeLabel
	userLabels []string
	message    string
	hasMessage bool

	datasets map[string]*Dataset
	order    []string

	codepage   string
	modifyDate bool
}

// XmitHeader carries the INMR01 transmission metadata plus the per-file
// INMR02/INMR03 table.
type XmitHeader struct {
	OriginNode string
	OriginUser string
	TargetNode string
	TargetUser string
	NumFiles   int
	Files      []*FileHeader

	timestamp    time.Time
	hasTimestamp bool
}

// FileHeader is the decoded INMR02 metadata for one transmitted file.
type FileHeader struct {
	Number    int
	DSName    string
	DSOrg     string
	Recfm     string
	Lrecl     int
	BlockSize int
	Size      int
	DirBlocks int
	Type      string
	Creation  string
}

// Dataset is one logical dataset recovered from the container.
type Dataset struct {
	Name      string
	Blocks    [][]byte
	MIME      string
	Extension string
	Recfm     string
	Lrecl     int

	// PDS fields, nil/empty for sequential datasets.
	Copyr1      *iebcopy.Copyr1
	Copyr2      *iebcopy.Copyr2
	members     map[string]*Member
	memberOrder []string

	// Tape label fields, nil off tape.
	Hdr1 *tape.Hdr1
	Hdr2 *tape.Hdr2

	Owner string

	payload     []byte
	text        string
	hasText     bool
	modified    time.Time
	hasModified bool
}

func (d *Dataset) isPDS() bool { return d.Copyr1 != nil }

// Member is one PDS member after alias detection and data reassembly.
type Member struct {
	Name      string
	Alias     bool
	AliasOf   string
	TTR       uint32
	Ispf      *iebcopy.Ispf
	Data      []byte
	MIME      string
	Extension string
	Synthetic bool

	text    string
	hasText bool
}

// MemberInfo is the metadata record returned for a single member query.
// Alias is the resolved target's name when the queried member is an
// alias; size, dates and owner describe the resolved target.
type MemberInfo struct {
	Size      int
	MIME      string
	Extension string
	Recfm     string
	Lrecl     int
	Modified  *time.Time
	Created   *time.Time
	Owner     string
	Version   string
	Alias     string
}

// DatasetInfo is the metadata record returned for a dataset query.
type DatasetInfo struct {
	Size      int
	MIME      string
	Extension string
	Owner     string
	Modified  *time.Time
	Recfm     string
	Lrecl     int
	Members   int
}

// Open reads and parses an archive file from disk.
func Open(location string, opts ...Option) (*Archive, error) {
	buf, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", location, err)
	}
	return Parse(buf, opts...)
}

// Parse sniffs buf, dispatches to the matching container parser, and
// builds the queryable Archive model. Parsing is a single uninterruptible
// pass; a framing-level violation aborts with a typed error and no
// Archive is produced.
func Parse(buf []byte, opts ...Option) (*Archive, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cp, err := ebcdic.Lookup(options.codepage)
	if err != nil {
		return nil, err
	}
	log := logging.New(options.logger)

	kind, err := detect.Sniff(buf)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		kind:       kind,
		datasets:   make(map[string]*Dataset),
		codepage:   cp.Name(),
		modifyDate: options.modifyDate,
	}

	switch kind {
	case detect.Xmit:
		err = a.parseXmit(buf, cp, options, log)
	case detect.Tape:
		err = a.parseTape(buf, cp, options, log)
	default:
		err = &mferrors.NotAContainer{}
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Kind reports the detected container format ("xmit" or "tape").
func (a *Archive) Kind() string { return a.kind.String() }

// Codepage reports the normalized EBCDIC codepage the archive was decoded
// under.
func (a *Archive) Codepage() string { return a.codepage }

// RestoreModifyDates reports whether extraction collaborators were asked
// to restore ISPF modify dates on extracted files.
func (a *Archive) RestoreModifyDates() bool { return a.modifyDate }

// Header returns the XMIT transmission header, nil for tape archives.
func (a *Archive) Header() *XmitHeader { return a.header }

// ListDatasets returns the dataset names in input-arrival order.
func (a *Archive) ListDatasets() []string {
	return append([]string(nil), a.order...)
}

// IsPDS reports whether the named dataset is a partitioned dataset.
func (a *Archive) IsPDS(name string) (bool, error) {
	ds, err := a.dataset(name)
	if err != nil {
		return false, err
	}
	return ds.isPDS(), nil
}

// IsSequential reports whether the named dataset is sequential.
func (a *Archive) IsSequential(name string) (bool, error) {
	ds, err := a.dataset(name)
	if err != nil {
		return false, err
	}
	return !ds.isPDS(), nil
}

// ListMembers returns the member names of a PDS in directory order, or an
// empty list for a sequential dataset.
func (a *Archive) ListMembers(name string) ([]string, error) {
	ds, err := a.dataset(name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), ds.memberOrder...), nil
}

// MemberBytes returns a member's raw reassembled bytes. Aliases are
// resolved before access.
func (a *Archive) MemberBytes(dsName, member string) ([]byte, error) {
	ds, err := a.dataset(dsName)
	if err != nil {
		return nil, err
	}
	m, err := ds.resolve(member)
	if err != nil {
		return nil, err
	}
	return m.Data, nil
}

// MemberText returns a member's decoded UTF-8 text. A binary-classified
// member fails with NotText unless force-convert was enabled at parse
// time. Aliases are resolved before access.
func (a *Archive) MemberText(dsName, member string) (string, error) {
	ds, err := a.dataset(dsName)
	if err != nil {
		return "", err
	}
	m, err := ds.resolve(member)
	if err != nil {
		return "", err
	}
	if !m.hasText {
		return "", &mferrors.NotText{Dataset: dsName, Member: member}
	}
	return m.text, nil
}

// MemberInfo returns the metadata record for one member. When the queried
// member is an alias, sizes and statistics come from the resolved target
// and Alias names it.
func (a *Archive) MemberInfo(dsName, member string) (*MemberInfo, error) {
	ds, err := a.dataset(dsName)
	if err != nil {
		return nil, err
	}
	m, ok := ds.members[member]
	if !ok {
		return nil, &mferrors.UnknownMember{Dataset: dsName, Member: member}
	}
	target, err := ds.resolve(member)
	if err != nil {
		return nil, err
	}

	info := &MemberInfo{
		Size:      target.size(),
		MIME:      target.MIME,
		Extension: target.Extension,
		Recfm:     ds.Recfm,
		Lrecl:     ds.Lrecl,
	}
	if m.Alias {
		info.Alias = m.AliasOf
	}
	if stats := target.Ispf; stats != nil {
		info.Owner = stats.User
		info.Version = stats.Version
		if !stats.CreateDate.IsZero() {
			created := stats.CreateDate
			info.Created = &created
		}
		if !stats.ModifyDate.IsZero() {
			modified := stats.ModifyDate
			info.Modified = &modified
		}
	}
	return info, nil
}

// DatasetInfo returns the metadata record for one dataset.
func (a *Archive) DatasetInfo(name string) (*DatasetInfo, error) {
	ds, err := a.dataset(name)
	if err != nil {
		return nil, err
	}
	info := &DatasetInfo{
		Size:      ds.size(),
		MIME:      ds.MIME,
		Extension: ds.Extension,
		Owner:     ds.Owner,
		Recfm:     ds.Recfm,
		Lrecl:     ds.Lrecl,
		Members:   len(ds.memberOrder),
	}
	if ds.hasModified {
		modified := ds.modified
		info.Modified = &modified
	}
	return info, nil
}

// MessageText returns the decoded transmission message, if one was sent.
func (a *Archive) MessageText() (string, bool) {
	return a.message, a.hasMessage
}

// OriginTimestamp returns the transmission origin time as an ISO-8601
// string with microsecond precision, or "" when absent or unparseable.
func (a *Archive) OriginTimestamp() string {
	if a.header == nil || !a.header.hasTimestamp {
		return ""
	}
	return a.header.timestamp.Format("2006-01-02T15:04:05.000000")
}

// OriginUser returns the transmitting user ID, "" for tape archives.
func (a *Archive) OriginUser() string {
	if a.header == nil {
		return ""
	}
	return a.header.OriginUser
}

// TargetUser returns the receiving user ID, "" for tape archives.
func (a *Archive) TargetUser() string {
	if a.header == nil {
		return ""
	}
	return a.header.TargetUser
}

// Volser returns the tape volume serial, "" when no VOL1 label was found.
func (a *Archive) Volser() string {
	if a.volume == nil {
		return ""
	}
	return a.volume.Volser
}

// VolumeOwner returns the VOL1 owner field, "" when no VOL1 label was
// found.
func (a *Archive) VolumeOwner() string {
	if a.volume == nil {
		return ""
	}
	return a.volume.Owner
}

// UserLabel returns the tape's UTL user labels joined with newlines, ""
// when none were present.
func (a *Archive) UserLabel() string {
	return strings.Join(a.userLabels, "\n")
}

func (a *Archive) dataset(name string) (*Dataset, error) {
	ds, ok := a.datasets[name]
	if !ok {
		return nil, &mferrors.UnknownDataset{Name: name}
	}
	return ds, nil
}

func (a *Archive) addDataset(ds *Dataset) {
	name := ds.Name
	for i := 2; ; i++ {
		if _, exists := a.datasets[name]; !exists {
			break
		}
		name = fmt.Sprintf("%s.%d", ds.Name, i)
	}
	ds.Name = name
	a.datasets[name] = ds
	a.order = append(a.order, name)
}

// resolve returns the member that actually owns the data behind name,
// following the alias link when present.
func (d *Dataset) resolve(name string) (*Member, error) {
	m, ok := d.members[name]
	if !ok {
		return nil, &mferrors.UnknownMember{Dataset: d.Name, Member: name}
	}
	if !m.Alias {
		return m, nil
	}
	if m.AliasOf == "" {
		return nil, &mferrors.DanglingAlias{Dataset: d.Name, Member: name}
	}
	target, ok := d.members[m.AliasOf]
	if !ok || target.Alias {
		return nil, &mferrors.DanglingAlias{Dataset: d.Name, Member: name}
	}
	return target, nil
}

func (m *Member) size() int {
	if m.hasText {
		return len(m.text)
	}
	return len(m.Data)
}

func (d *Dataset) size() int {
	if d.hasText {
		return len(d.text)
	}
	return len(d.payload)
}

// Text returns the dataset's decoded text, for sequential text datasets.
func (d *Dataset) Text() (string, bool) { return d.text, d.hasText }

func (a *Archive) parseXmit(buf []byte, cp *ebcdic.Codepage, options Options, log *logging.Logger) error {
	res, err := xmit.Parse(buf, cp, log)
	if err != nil {
		return err
	}

	hdr := &XmitHeader{}
	if units := res.Header; units != nil {
		hdr.OriginNode, _ = units.Char(xmit.KeyINMFNODE, cp, "")
		hdr.OriginUser, _ = units.Char(xmit.KeyINMFUID, cp, "")
		hdr.TargetNode, _ = units.Char(xmit.KeyINMTNODE, cp, "")
		hdr.TargetUser, _ = units.Char(xmit.KeyINMTUID, cp, "")
		hdr.NumFiles, _ = units.Dec(xmit.KeyINMNUMF)
		if raw, ok := units.Char(xmit.KeyINMFTIME, cp, ""); ok {
			if t, parsed := xmit.ParseOriginTimestamp(raw); parsed {
				hdr.timestamp = t
				hdr.hasTimestamp = true
			}
		}
	}
	a.header = hdr

	messageLrecl := 0
	for _, f := range res.Files {
		fh := &FileHeader{Number: f.Number}
		if units := f.Inmr02; units != nil {
			fh.DSName, _ = units.Char(xmit.KeyINMDSNAM, cp, ".")
			if b, ok := units.HexBytes(xmit.KeyINMDSORG); ok && len(b) >= 2 {
				fh.DSOrg = recfm.DecodeDSORG(uint16(b[0])<<8 | uint16(b[1]))
			}
			if b, ok := units.HexBytes(xmit.KeyINMRECFM); ok && len(b) >= 1 {
				var two [2]byte
				copy(two[:], b)
				fh.Recfm = recfm.Decode(two)
			}
			fh.Lrecl, _ = units.Dec(xmit.KeyINMLRECL)
			fh.BlockSize, _ = units.Dec(xmit.KeyINMBLKSZ)
			fh.Size, _ = units.Dec(xmit.KeyINMSIZE)
			fh.DirBlocks, _ = units.Dec(xmit.KeyINMDIR)
			if b, ok := units.HexBytes(xmit.KeyINMTYPE); ok {
				fh.Type = xmit.INMTypeString(b)
			}
			fh.Creation, _ = units.Char(xmit.KeyINMCREAT, cp, "")
		}
		if fh.Lrecl == 0 && f.Inmr03 != nil {
			fh.Lrecl, _ = f.Inmr03.Dec(xmit.KeyINMLRECL)
		}
		hdr.Files = append(hdr.Files, fh)

		if fh.DSName == "" {
			// The message pseudo-file: its data landed in res.Message.
			if f.Inmr03 != nil {
				messageLrecl, _ = f.Inmr03.Dec(xmit.KeyINMLRECL)
			}
			continue
		}

		ds := &Dataset{
			Name:   fh.DSName,
			Blocks: f.Blocks,
			Recfm:  fh.Recfm,
			Lrecl:  fh.Lrecl,
			Owner:  hdr.OriginUser,
		}
		if hdr.hasTimestamp {
			ds.modified = hdr.timestamp
			ds.hasModified = true
		}
		a.finishDataset(ds, iebcopy.FromXmit, cp, options, log)
		a.addDataset(ds)
	}

	if len(res.Message) > 0 {
		a.message = classify.ToText(res.Message, nil, messageLrecl, cp, false)
		a.hasMessage = true
	}
	return nil
}

func (a *Archive) parseTape(buf []byte, cp *ebcdic.Codepage, options Options, log *logging.Logger) error {
	res, err := tape.Parse(buf, cp, log)
	if err != nil {
		return err
	}

	a.volume = res.Volume
	a.userLabels = res.UserLabels

	for _, f := range res.Files {
		ds := &Dataset{
			Name:   f.Name,
			Blocks: f.Blocks,
			Hdr1:   f.Hdr1,
			Hdr2:   f.Hdr2,
		}
		if f.Hdr2 != nil {
			ds.Recfm = cp.Decode([]byte{f.Hdr2.RECFM})
			if n, err := strconv.Atoi(strings.TrimSpace(f.Hdr2.LRECL)); err == nil {
				ds.Lrecl = n
			}
		}
		if f.Hdr1 != nil {
			if t, ok := ebcdic.TapeDate(f.Hdr1.CreateDate); ok {
				ds.modified = t
				ds.hasModified = true
			}
		}
		a.finishDataset(ds, iebcopy.FromTape, cp, options, log)
		a.addDataset(ds)
	}
	return nil
}

// finishDataset runs the per-dataset stages shared by both containers:
// IEBCOPY PDS decoding when the first block carries a COPYR1, then
// classification and text conversion of the dataset or its members.
func (a *Archive) finishDataset(ds *Dataset, origin iebcopy.Origin, cp *ebcdic.Codepage, options Options, log *logging.Logger) {
	for _, b := range ds.Blocks {
		ds.payload = append(ds.payload, b...)
	}

	if len(ds.Blocks) >= 2 {
		if _, err := iebcopy.ParseCopyr1(ds.Blocks[0]); err == nil {
			pds, err := iebcopy.Decode(ds.Blocks, origin, cp, log)
			if err != nil {
				log.Warn("IEBCOPY decode failed, treating dataset as sequential", "dataset", ds.Name, "error", err)
			} else {
				ds.Copyr1 = pds.Copyr1
				ds.Copyr2 = pds.Copyr2
				ds.Recfm = pds.Copyr1.RECFM
				ds.Lrecl = int(pds.Copyr1.LRECL)
				ds.members = make(map[string]*Member, len(pds.Members))
				for _, dm := range pds.Members {
					m := &Member{
						Name:      dm.Name,
						Alias:     dm.Alias,
						AliasOf:   dm.AliasOf,
						TTR:       dm.TTR,
						Ispf:      dm.Ispf,
						Data:      dm.Data,
						Synthetic: dm.Synthetic,
					}
					if !m.Alias {
						a.classifyMember(m, dm.Records, ds.Lrecl, cp, options)
					}
					ds.members[m.Name] = m
					ds.memberOrder = append(ds.memberOrder, m.Name)
				}
			}
		}
	}

	cls := classify.Sniff(ds.payload, cp)
	ds.MIME = cls.MIME
	ds.Extension = cls.Extension
	if ds.isPDS() {
		return
	}
	if options.forceConvert {
		ds.Extension = ".txt"
	}
	if !options.binary && (options.forceConvert || cls.IsText()) {
		ds.text = classify.ToText(ds.payload, nil, ds.Lrecl, cp, options.stripSeqNum)
		ds.hasText = true
	}
}

func (a *Archive) classifyMember(m *Member, records [][]byte, lrecl int, cp *ebcdic.Codepage, options Options) {
	cls := classify.Sniff(m.Data, cp)
	m.MIME = cls.MIME
	m.Extension = cls.Extension
	if options.forceConvert {
		m.Extension = ".txt"
	}
	if !options.binary && (options.forceConvert || cls.IsText()) {
		m.text = classify.ToText(m.Data, records, lrecl, cp, options.stripSeqNum)
		m.hasText = true
	}
}
