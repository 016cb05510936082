package vp9

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a parse failure the way spec.md §7 names them.
type ErrorKind int

const (
	// CorruptBitstream covers reserved-zero violations, bad frame markers,
	// bad sync codes, illegal color spaces, invalid tree walks and
	// unclosed arithmetic sections.
	CorruptBitstream ErrorKind = iota
	// EndOfStream is returned when a read would pass the buffer end.
	EndOfStream
	// UnsupportedFeature is returned when a caller policy rejects a
	// profile or combination of fields the bitstream itself allows.
	UnsupportedFeature
	// InvalidDimensions is returned for a zero or over-cap width/height.
	InvalidDimensions
)

func (k ErrorKind) String() string {
	switch k {
	case CorruptBitstream:
		return "CorruptBitstream"
	case EndOfStream:
		return "EndOfStream"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InvalidDimensions:
		return "InvalidDimensions"
	default:
		return "Unknown"
	}
}

// ParseError is the tagged outcome named in spec.md §7: it names the error
// kind, the syntax element being parsed when it happened, and the bit
// offset at which it was detected.
type ParseError struct {
	Kind    ErrorKind
	Element string
	BitPos  int64
	cause   error
}

func (e *ParseError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s: %s at bit offset %d", e.Kind, e.Element, e.BitPos)
	}
	return fmt.Sprintf("%s at bit offset %d", e.Kind, e.BitPos)
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

func newParseError(kind ErrorKind, bitPos int64, element string) error {
	return errors.WithStack(&ParseError{Kind: kind, Element: element, BitPos: bitPos})
}

// IsKind reports whether err (or something it wraps) is a *ParseError of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParseError
	for err != nil {
		if p, ok := err.(*ParseError); ok {
			pe = p
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return pe != nil && pe.Kind == kind
}
