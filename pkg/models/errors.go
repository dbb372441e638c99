package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure the core can produce, mirroring the fixed
// set of error kinds the CLI front end maps to process exit codes.
type ErrorKind int

const (
	Internal ErrorKind = iota
	ConfigInvalid
	RepositoryUnavailable
	BoundsInvalid
	AmbiguousSha
	PatchMalformed
	CloneDetectionFailed
	TempIoFailed
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ConfigInvalid:
		return "ConfigInvalid"
	case RepositoryUnavailable:
		return "RepositoryUnavailable"
	case BoundsInvalid:
		return "BoundsInvalid"
	case AmbiguousSha:
		return "AmbiguousSha"
	case PatchMalformed:
		return "PatchMalformed"
	case CloneDetectionFailed:
		return "CloneDetectionFailed"
	case TempIoFailed:
		return "TempIoFailed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Internal"
	}
}

// Error is the sentinel-wrapped error type every component returns. Kind
// drives recovery policy (§7); PairID and Path are attached by whichever
// component catches the failure, for structured logging.
type Error struct {
	Kind   ErrorKind
	Op     string
	PairID string
	Path   string
	Err    error
}

func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) WithPair(id string) *Error {
	e.PairID = id
	return e
}

func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.PairID != "" {
		msg = fmt.Sprintf("%s [pair=%s]", msg, e.PairID)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s [path=%s]", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err if it (or something it wraps) is
// an *Error, and Internal otherwise.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return Internal
}
