package mfarchive

import (
	"github.com/go-logr/logr"

	"github.com/bgrewell/mfarchive/pkg/consts"
)

// Options represents the options for a single parse. There is no
// process-wide state: every Parse/Open call carries its own copy.
type Options struct {
	codepage     string
	stripSeqNum  bool
	forceConvert bool
	binary       bool
	modifyDate   bool
	logger       logr.Logger
}

// Option represents a function that modifies the Options
type Option func(*Options)

// WithCodepage sets the EBCDIC codepage used for all text decoding. The
// default is cp1140.
func WithCodepage(name string) Option {
	return func(o *Options) {
		o.codepage = name
	}
}

// WithStripSeqNum sets whether a trailing 8-digit sequence-number column
// is removed from converted text lines.
func WithStripSeqNum(enabled bool) Option {
	return func(o *Options) {
		o.stripSeqNum = enabled
	}
}

// WithForceConvert sets whether text conversion runs even for payloads the
// classifier marked binary. Forced conversion also forces the .txt
// extension.
func WithForceConvert(enabled bool) Option {
	return func(o *Options) {
		o.forceConvert = enabled
	}
}

// WithBinary suppresses text conversion entirely; every payload is left as
// raw bytes and reported sizes are raw byte lengths.
func WithBinary(enabled bool) Option {
	return func(o *Options) {
		o.binary = enabled
	}
}

// WithModifyDate sets whether extraction collaborators should restore each
// member's ISPF modify date on extracted files. The core only records the
// preference alongside the parsed model.
func WithModifyDate(enabled bool) Option {
	return func(o *Options) {
		o.modifyDate = enabled
	}
}

// WithLogger sets the logger used while parsing
func WithLogger(logger logr.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func defaultOptions() Options {
	return Options{
		codepage: consts.DefaultEBCDICCodepage,
		logger:   logr.Discard(),
	}
}
