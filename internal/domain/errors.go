package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse marks a lookup payload without usable DXCC
	// coordinates.
	ErrMalformedResponse = errors.New("malformed dxcc response")

	// ErrHomeSiteNotFound marks a home-site reference with no reference-table
	// entry.
	ErrHomeSiteNotFound = errors.New("home site reference not found")
)

// ResolveError is a run-fatal failure to place a callsign.
type ResolveError struct {
	Call string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Call, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
