// Package tlspin builds TLS client configurations that trust exactly one
// bundled certificate.
//
// # Overview
//
// Buddy ships a self-signed certificate that does not carry the host's
// address in its subject. Standard verification would reject it on the name
// check, so the pin replaces hostname verification: the peer chain must verify
// against a pool that contains only the pinned certificate, and the server
// name is ignored.
//
// # Usage
//
//	pool, err := tlspin.LoadFile(cfg.CertPath)
//	if err != nil {
//		return err
//	}
//	transport := &http.Transport{TLSClientConfig: pool.ClientConfig()}
//
// Only PEM blocks of type CERTIFICATE are read. A file without any
// certificate is rejected with ErrNoCertsFound.
package tlspin
