// Package tlstest generates throwaway certificate authorities and TLS
// certificates for tests. Everything is built with Go's crypto stdlib;
// generated files land in t.TempDir() and clean themselves up.
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Authority is a disposable certificate authority that can sign
// intermediates and server or client leaf certificates.
type Authority struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// NewAuthority generates a self-signed root CA.
func NewAuthority(t testing.TB, commonName string) *Authority {
	t.Helper()

	return newCA(t, commonName, nil)
}

// Intermediate issues a subordinate CA signed by a.
func (a *Authority) Intermediate(t testing.TB, commonName string) *Authority {
	t.Helper()

	return newCA(t, commonName, a)
}

func newCA(t testing.TB, commonName string, parent *Authority) *Authority {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: newSerial(t),
		Subject: pkix.Name{
			Organization: []string{"tlstest"},
			CommonName:   commonName,
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	signerCert, signerKey := template, key
	if parent != nil {
		signerCert, signerKey = parent.Cert, parent.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, signerCert, &key.PublicKey, signerKey)
	if err != nil {
		t.Fatalf("tlstest: create CA cert: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("tlstest: parse CA cert: %v", err)
	}

	return &Authority{Cert: cert, Key: key}
}

// ServerCert issues a leaf certificate for host signed by a, valid for
// localhost loopback addresses, ready to serve TLS. Certificates of the
// extra authorities are appended to the presented chain, so a server can
// hand out its intermediates during the handshake.
func (a *Authority) ServerCert(t testing.TB, host string, extras ...*Authority) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate leaf key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: newSerial(t),
		Subject: pkix.Name{
			Organization: []string{"tlstest"},
			CommonName:   host,
		},
		DNSNames:    []string{host},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, a.Cert, &key.PublicKey, a.Key)
	if err != nil {
		t.Fatalf("tlstest: create leaf cert: %v", err)
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("tlstest: parse leaf cert: %v", err)
	}

	chain := [][]byte{der}
	for _, extra := range extras {
		chain = append(chain, extra.Cert.Raw)
	}

	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  key,
		Leaf:        leaf,
	}
}

// ClientFiles issues a client leaf certificate signed by a and writes it
// with its key as a PEM pair under t.TempDir.
func (a *Authority) ClientFiles(t testing.TB) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate client key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: newSerial(t),
		Subject: pkix.Name{
			Organization: []string{"tlstest"},
			CommonName:   "tlstest client",
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, a.Cert, &key.PublicKey, a.Key)
	if err != nil {
		t.Fatalf("tlstest: create client cert: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("tlstest: marshal client key: %v", err)
	}

	dir := t.TempDir()
	certFile = filepath.Join(dir, "client-cert.pem")
	keyFile = filepath.Join(dir, "client-key.pem")
	writePEM(t, certFile, "CERTIFICATE", der)
	writePEM(t, keyFile, "EC PRIVATE KEY", keyDER)

	return certFile, keyFile
}

// CertFilePEM writes the authority's certificate as a PEM file and
// returns its path.
func (a *Authority) CertFilePEM(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ca.pem")
	writePEM(t, path, "CERTIFICATE", a.Cert.Raw)

	return path
}

// CertFileDER writes the authority's certificate as a raw DER file and
// returns its path.
func (a *Authority) CertFileDER(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ca.der")
	if err := os.WriteFile(path, a.Cert.Raw, 0o600); err != nil {
		t.Fatalf("tlstest: write DER cert: %v", err)
	}

	return path
}

// WriteInvalidPEM writes a file that looks like PEM but holds no valid
// certificate. Useful for testing error paths.
func WriteInvalidPEM(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "invalid.pem")
	content := []byte("-----BEGIN CERTIFICATE-----\nnot-valid-base64-data\n-----END CERTIFICATE-----\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("tlstest: write invalid PEM: %v", err)
	}

	return path
}

func newSerial(t testing.TB) *big.Int {
	t.Helper()

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		t.Fatalf("tlstest: generate serial: %v", err)
	}

	return serial
}

func writePEM(t testing.TB, path, blockType string, data []byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("tlstest: create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		t.Fatalf("tlstest: encode PEM %s: %v", path, err)
	}
}
