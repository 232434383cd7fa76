package tlspin

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoCertsFound is returned when PEM data holds no certificate blocks.
	ErrNoCertsFound = errors.New("tlspin: no certificates found in PEM data")

	// ErrNoPeerCertificate is returned when the server presents no certificate.
	ErrNoPeerCertificate = errors.New("tlspin: server presented no certificate")
)

// Pin is a pool holding only the pinned certificate(s).
type Pin struct {
	pool  *x509.CertPool
	certs []*x509.Certificate
}

// LoadFile reads the pinned certificate from a PEM file.
func LoadFile(path string) (*Pin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlspin: read cert file %s: %w", path, err)
	}
	return LoadPEM(data)
}

// LoadPEM builds a Pin from PEM-encoded data. Non-certificate blocks are
// skipped.
func LoadPEM(data []byte) (*Pin, error) {
	p := &Pin{pool: x509.NewCertPool()}
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("tlspin: parse certificate: %w", err)
		}
		p.pool.AddCert(cert)
		p.certs = append(p.certs, cert)
	}
	if len(p.certs) == 0 {
		return nil, ErrNoCertsFound
	}
	return p, nil
}

// Certificates returns the pinned certificates in file order.
func (p *Pin) Certificates() []*x509.Certificate {
	out := make([]*x509.Certificate, len(p.certs))
	copy(out, p.certs)
	return out
}

// ClientConfig returns a TLS config that accepts a server only when its chain
// verifies against the pinned pool. The server name is not checked.
func (p *Pin) ClientConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		// Name verification is replaced by VerifyPeerCertificate below.
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: p.verify,
	}
}

func (p *Pin) verify(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return ErrNoPeerCertificate
	}
	certs := make([]*x509.Certificate, 0, len(rawCerts))
	for _, raw := range rawCerts {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return fmt.Errorf("tlspin: parse peer certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	intermediates := x509.NewCertPool()
	for _, cert := range certs[1:] {
		intermediates.AddCert(cert)
	}
	_, err := certs[0].Verify(x509.VerifyOptions{
		Roots:         p.pool,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return fmt.Errorf("tlspin: peer certificate not pinned: %w", err)
	}
	return nil
}
