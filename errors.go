// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import (
	"errors"
	"fmt"
)

// Errors returned by the fallible entry points New and Close.
//
// Example:
//
//	rt, err := pfor.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
var (
	// ErrInvalidConfig is returned by New when an Option produces an
	// invalid configuration (negative MinWorkers, FractionOfCores outside
	// (0,1], etc). errInvalidConfig wraps it with the specific detail via
	// %w, so callers can match it with errors.Is regardless of wording.
	ErrInvalidConfig = errors.New("pfor: invalid config")

	// ErrAlreadyClosed is returned by Close when called more than once.
	ErrAlreadyClosed = errors.New("pfor: runtime already closed")
)

func errInvalidConfig(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, detail)
}

// PreconditionError reports a violation of a Dispatch/Close precondition:
// called from a worker, dispatch before New, an unbalanced wake counter,
// nested dispatch. Correct callers never see these; they are panicked
// rather than returned because there is no sane recovery — the caller's
// own invariants are already broken.
type PreconditionError struct {
	Op     string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("pfor: precondition violated in %s: %s", e.Op, e.Detail)
}

// IsPrecondition reports whether err is a *PreconditionError, mirroring
// the Is*-predicate idiom code.hybscloud.com/iox uses to classify errors
// by kind rather than by identity comparison.
func IsPrecondition(err error) bool {
	_, ok := err.(*PreconditionError)
	return ok
}
