// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "errors"

// Fatal errors abort decoding: the PE image carries no usable CLR
// metadata at all, so there is nothing sensible left to return.
var (
	ErrNoCLRDirectory      = errors.New("clr: image has no CLR runtime directory")
	ErrBadMetadataMagic    = errors.New("clr: metadata root signature is not BSJB")
	ErrTruncatedMetadata   = errors.New("clr: metadata root is truncated")
	ErrTruncatedTableHeader = errors.New("clr: tables stream header is truncated")
)

// A Warning records a recoverable decoding problem: a row, heap reference,
// or resource entry that could not be read, which the decoder treats as
// absent rather than as cause to abort. Callers that care about data
// fidelity can inspect Warnings after Open returns.
type Warning struct {
	Message string
	Context string
}

func (w Warning) Error() string {
	if w.Context == "" {
		return w.Message
	}
	return w.Message + ": " + w.Context
}

// warnFunc is the pluggable diagnostic sink every soft-fail path reports
// through. It never aborts decoding; it only records what happened.
type warnFunc func(message, context string)
