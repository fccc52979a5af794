package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction marks a caller request the rules refuse: wrong unit,
// wrong phase, re-activation after a committed sub-action, and so on.
// These are rejected as no-ops and never corrupt battle state. Callers
// detect them with errors.Is.
var ErrIllegalAction = errors.New("illegal action")

// illegal wraps a refusal reason with ErrIllegalAction.
func illegal(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrIllegalAction)...)
}

// IntegrityError reports a setup defect discovered at the point a stat
// or board field was needed: a unit resolving melee without a melee
// profile, an objective referencing a hex off the board. It is fatal
// for the action that hit it and distinct from a rules refusal.
type IntegrityError struct {
	Subject string
	Field   string
	Reason  string
}

func (e *IntegrityError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("integrity: %s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("integrity: %s: %s: %s", e.Subject, e.Field, e.Reason)
}

func integrity(subject, field, reason string) *IntegrityError {
	return &IntegrityError{Subject: subject, Field: field, Reason: reason}
}
