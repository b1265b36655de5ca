package tlspin

import (
	"errors"
	"fmt"
)

var (
	// ErrCertificateInvalid reports a server certificate chain that was
	// rejected under the pinned root.
	ErrCertificateInvalid = errors.New("certificate invalid")

	// ErrInvalidFormat reports certificate or key material that could
	// not be parsed.
	ErrInvalidFormat = errors.New("invalid certificate format")
)

// PinMismatchError details a chain that failed the pin comparison. It
// always names the root the client was configured to expect; Got fields
// are populated when a chain was built but terminated at a different root.
type PinMismatchError struct {
	ExpectedSubject     string
	ExpectedFingerprint string
	GotSubject          string
	GotFingerprint      string
	Err                 error
}

func (pme *PinMismatchError) Error() string {
	if pme.GotFingerprint == "" {
		return fmt.Sprintf("pin mismatch: expected root %q [sha256:%s]: %v", pme.ExpectedSubject, pme.ExpectedFingerprint, pme.Err)
	}

	return fmt.Sprintf("pin mismatch: expected root %q [sha256:%s], got %q [sha256:%s]", pme.ExpectedSubject, pme.ExpectedFingerprint, pme.GotSubject, pme.GotFingerprint)
}

func (pme *PinMismatchError) Unwrap() error {
	return pme.Err
}
