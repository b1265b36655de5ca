// Package tlspin verifies server certificates against a single pinned
// root instead of the platform trust store.
//
// # Pinning a Root
//
// Create a [Pin] from the trusted root certificate and install its
// callback on a [crypto/tls.Config]:
//
//	root, err := tlspin.LoadCertificate("ca.pem")
//	pin, err := tlspin.New(root)
//
//	cfg := &tls.Config{
//		InsecureSkipVerify:    true,
//		VerifyPeerCertificate: pin.VerifyPeerCertificate,
//	}
//
// InsecureSkipVerify disables the platform's verification so that the
// pin alone decides: a connection is accepted exactly when the server's
// chain terminates at the pinned root, regardless of hostnames or
// public CAs.
//
// # Loading Material
//
// [LoadCertificate] reads PEM or DER certificates, [LoadKeyPair] reads
// PEM client-certificate pairs, and [LoadPKCS12] unpacks password-
// protected PKCS#12 bundles.
package tlspin
