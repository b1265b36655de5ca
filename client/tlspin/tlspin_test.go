package tlspin_test

import (
	"crypto/tls"
	"errors"
	"strings"
	"testing"

	"github.com/SARL-TKHA/HttpClientBuilder/client/tlspin"
	"github.com/SARL-TKHA/HttpClientBuilder/client/tlspin/tlstest"
)

func TestNew_NilRoot(t *testing.T) {
	if _, err := tlspin.New(nil); err == nil {
		t.Fatal("exp error for nil root")
	}
}

func TestPin_VerifyPeerCertificate(t *testing.T) {
	root := tlstest.NewAuthority(t, "Pinned Root")
	other := tlstest.NewAuthority(t, "Other Root")
	inter := root.Intermediate(t, "Pinned Intermediate")

	pin, err := tlspin.New(root.Cert)
	if err != nil {
		t.Fatal(err)
	}

	testCases := map[string]struct {
		serverChain tls.Certificate
		rawCerts    [][]byte
		expErr      error
	}{
		"leaf signed by pinned root": {
			serverChain: root.ServerCert(t, "localhost"),
		},
		"chain through intermediate": {
			serverChain: inter.ServerCert(t, "localhost", inter),
		},
		"leaf signed by different root": {
			serverChain: other.ServerCert(t, "localhost"),
			expErr:      tlspin.ErrCertificateInvalid,
		},
		"intermediate not presented": {
			serverChain: inter.ServerCert(t, "localhost"),
			expErr:      tlspin.ErrCertificateInvalid,
		},
		"no certificates presented": {
			rawCerts: [][]byte{},
			expErr:   tlspin.ErrCertificateInvalid,
		},
		"garbage leaf bytes": {
			rawCerts: [][]byte{[]byte("junk")},
			expErr:   tlspin.ErrCertificateInvalid,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			rawCerts := tc.rawCerts
			if rawCerts == nil {
				rawCerts = tc.serverChain.Certificate
			}

			err := pin.VerifyPeerCertificate(rawCerts, nil)

			if tc.expErr == nil {
				if err != nil {
					t.Fatalf("exp chain to verify; got: %v", err)
				}
				return
			}

			if !errors.Is(err, tc.expErr) {
				t.Fatalf("exp %v; got: %v", tc.expErr, err)
			}
		})
	}
}

func TestPin_MismatchNamesExpectedRoot(t *testing.T) {
	root := tlstest.NewAuthority(t, "Pinned Root")
	other := tlstest.NewAuthority(t, "Other Root")

	pin, err := tlspin.New(root.Cert)
	if err != nil {
		t.Fatal(err)
	}

	foreign := other.ServerCert(t, "localhost")

	err = pin.VerifyPeerCertificate(foreign.Certificate, nil)
	if err == nil {
		t.Fatal("exp verification to fail")
	}

	var pinErr *tlspin.PinMismatchError
	if !errors.As(err, &pinErr) {
		t.Fatalf("exp *PinMismatchError; got: %T %v", err, err)
	}

	if pinErr.ExpectedSubject != "Pinned Root" {
		t.Errorf("exp expected subject %q; got %q", "Pinned Root", pinErr.ExpectedSubject)
	}
	if pinErr.ExpectedFingerprint != pin.Fingerprint() {
		t.Errorf("exp expected fingerprint %s; got %s", pin.Fingerprint(), pinErr.ExpectedFingerprint)
	}
	if !strings.Contains(pinErr.Error(), pin.Fingerprint()) {
		t.Errorf("exp error text to name the pinned fingerprint; got: %s", pinErr.Error())
	}
}

func TestPinMismatchError_Format(t *testing.T) {
	pinErr := &tlspin.PinMismatchError{
		ExpectedSubject:     "Root A",
		ExpectedFingerprint: "aaaa",
		GotSubject:          "Root B",
		GotFingerprint:      "bbbb",
		Err:                 tlspin.ErrCertificateInvalid,
	}

	msg := pinErr.Error()
	for _, want := range []string{"Root A", "aaaa", "Root B", "bbbb"} {
		if !strings.Contains(msg, want) {
			t.Errorf("exp %q in error text; got: %s", want, msg)
		}
	}

	if !errors.Is(pinErr, tlspin.ErrCertificateInvalid) {
		t.Error("exp PinMismatchError to unwrap to ErrCertificateInvalid")
	}
}

func TestFingerprint(t *testing.T) {
	a := tlstest.NewAuthority(t, "A")
	b := tlstest.NewAuthority(t, "B")

	fpA := tlspin.Fingerprint(a.Cert)
	fpB := tlspin.Fingerprint(b.Cert)

	if len(fpA) != 64 {
		t.Errorf("exp 64 hex chars for sha256; got %d", len(fpA))
	}
	if fpA != strings.ToLower(fpA) {
		t.Errorf("exp lowercase hex; got %s", fpA)
	}
	if fpA == fpB {
		t.Error("exp distinct certificates to have distinct fingerprints")
	}
	if again := tlspin.Fingerprint(a.Cert); again != fpA {
		t.Errorf("exp stable fingerprint; got %s then %s", fpA, again)
	}
}
