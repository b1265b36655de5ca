package tlspin

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// LoadCertificate reads a single certificate from path, accepting either
// PEM or raw DER encoding.
func LoadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading certificate file: %w", err)
	}

	if block, _ := pem.Decode(data); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, fmt.Errorf("%w: unexpected PEM block %q in %s", ErrInvalidFormat, block.Type, path)
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PEM certificate: %w", ErrInvalidFormat, err)
		}

		return cert, nil
	}

	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s holds neither PEM nor DER certificate data: %w", ErrInvalidFormat, path, err)
	}

	return cert, nil
}

// LoadKeyPair reads a client certificate and its private key from a pair
// of PEM files.
func LoadKeyPair(certPath, keyPath string) (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tls.Certificate{}, fmt.Errorf("reading key pair: %w", err)
		}

		return tls.Certificate{}, fmt.Errorf("%w: loading key pair: %w", ErrInvalidFormat, err)
	}

	return cert, nil
}

// LoadPKCS12 reads a client certificate and its private key from a
// password-protected PKCS#12 bundle, the format CAs and browsers
// commonly export.
func LoadPKCS12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("reading PKCS#12 bundle: %w", err)
	}

	key, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: decoding PKCS#12 bundle: %w", ErrInvalidFormat, err)
	}

	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}
