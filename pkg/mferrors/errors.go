// Package mferrors defines the typed error taxonomy surfaced by the
// archive parsers and the inspection facade.
package mferrors

import "fmt"

// NotAContainer is returned when the input buffer does not sniff as either
// an XMIT stream or a tape image.
type NotAContainer struct{}

func (e *NotAContainer) Error() string { return "input is not a recognized XMIT or tape container" }

// Truncated is returned when a declared length runs past the end of the
// input buffer.
type Truncated struct {
	Context string
	Need    int
	Have    int
}

func (e *Truncated) Error() string {
	return fmt.Sprintf("truncated input: %s needs %d bytes, have %d", e.Context, e.Need, e.Have)
}

// MalformedXmit reports a framing violation in the XMIT segment stream.
type MalformedXmit struct {
	Expected string
	AtOffset int
}

func (e *MalformedXmit) Error() string {
	return fmt.Sprintf("malformed XMIT at offset %d: expected %s", e.AtOffset, e.Expected)
}

// MalformedTape reports a framing violation in the AWS/HET block stream.
type MalformedTape struct {
	Reason   string
	AtOffset int
}

func (e *MalformedTape) Error() string {
	return fmt.Sprintf("malformed tape at offset %d: %s", e.AtOffset, e.Reason)
}

// BadCopyR1 reports a COPYR1 control record that could not be parsed.
type BadCopyR1 struct {
	Reason string
}

func (e *BadCopyR1) Error() string { return fmt.Sprintf("bad COPYR1 record: %s", e.Reason) }

// UnsupportedCompression is returned when a tape block's compression flag
// names an algorithm this build cannot decode.
type UnsupportedCompression struct {
	Flag uint16
}

func (e *UnsupportedCompression) Error() string {
	return fmt.Sprintf("unsupported tape block compression flag 0x%04x", e.Flag)
}

// CodepageUnknown is returned when an EBCDIC codepage name is not registered.
type CodepageUnknown struct {
	Name string
}

func (e *CodepageUnknown) Error() string { return fmt.Sprintf("unknown EBCDIC codepage %q", e.Name) }

// UnknownDataset is returned by facade operations given a dataset name that
// is not present in the archive.
type UnknownDataset struct {
	Name string
}

func (e *UnknownDataset) Error() string { return fmt.Sprintf("unknown dataset %q", e.Name) }

// UnknownMember is returned by facade operations given a member name that is
// not present in the dataset's directory.
type UnknownMember struct {
	Dataset string
	Member  string
}

func (e *UnknownMember) Error() string {
	return fmt.Sprintf("unknown member %q in dataset %q", e.Member, e.Dataset)
}

// DanglingAlias is returned when an alias member's TTR does not resolve to
// any non-alias member.
type DanglingAlias struct {
	Dataset string
	Member  string
}

func (e *DanglingAlias) Error() string {
	return fmt.Sprintf("member %q in dataset %q is an alias with no resolvable target", e.Member, e.Dataset)
}

// NotText is returned when text is requested for a binary-classified
// member and force-convert is disabled.
type NotText struct {
	Dataset string
	Member  string
}

func (e *NotText) Error() string {
	return fmt.Sprintf("member %q in dataset %q is not text-classified", e.Member, e.Dataset)
}
