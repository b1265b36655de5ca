package tlspin

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
)

// Pin anchors server certificate verification to a single trusted root.
// Regardless of what chain the server presents, verification succeeds only
// when that chain terminates at the pinned certificate.
type Pin struct {
	root        *x509.Certificate
	fingerprint string
}

// New returns a Pin accepting only chains that terminate at root.
func New(root *x509.Certificate) (*Pin, error) {
	if root == nil {
		return nil, errors.New("trusted root must not be nil")
	}

	return &Pin{
		root:        root,
		fingerprint: Fingerprint(root),
	}, nil
}

// Fingerprint returns the pinned root's fingerprint.
func (p *Pin) Fingerprint() string {
	return p.fingerprint
}

// VerifyPeerCertificate satisfies the callback contract of
// [crypto/tls.Config.VerifyPeerCertificate]. Install it together with
// InsecureSkipVerify so the pin replaces the platform's verification:
//
//	cfg := &tls.Config{
//		InsecureSkipVerify:    true,
//		VerifyPeerCertificate: pin.VerifyPeerCertificate,
//	}
//
// rawCerts holds the DER certificates presented by the server, leaf first.
// The leaf is chained to the pinned root through any presented
// intermediates, and the root the chain lands on is compared against the
// pin by fingerprint.
func (p *Pin) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("%w: server presented no certificate", ErrCertificateInvalid)
	}

	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("%w: parsing leaf certificate: %w", ErrCertificateInvalid, err)
	}

	intermediates := x509.NewCertPool()
	for _, raw := range rawCerts[1:] {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return fmt.Errorf("%w: parsing intermediate certificate: %w", ErrCertificateInvalid, err)
		}

		intermediates.AddCert(cert)
	}

	roots := x509.NewCertPool()
	roots.AddCert(p.root)

	// The pinned root is the sole trust anchor; hostnames and extended
	// key usage play no part in the decision.
	chains, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return &PinMismatchError{
			ExpectedSubject:     p.root.Subject.CommonName,
			ExpectedFingerprint: p.fingerprint,
			Err:                 fmt.Errorf("%w: chaining to pinned root: %w", ErrCertificateInvalid, err),
		}
	}

	chain := chains[0]
	anchor := chain[len(chain)-1]
	if got := Fingerprint(anchor); got != p.fingerprint {
		return &PinMismatchError{
			ExpectedSubject:     p.root.Subject.CommonName,
			ExpectedFingerprint: p.fingerprint,
			GotSubject:          anchor.Subject.CommonName,
			GotFingerprint:      got,
			Err:                 ErrCertificateInvalid,
		}
	}

	return nil
}

// Fingerprint returns the lowercase hex SHA-256 digest of the
// certificate's DER encoding.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)

	return hex.EncodeToString(sum[:])
}
