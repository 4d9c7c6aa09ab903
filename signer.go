package certgen

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
)

// size of the DER DigestInfo prefix of PKCS #1 v1.5 for the SHA-2 family
const digestInfoPrefixLen = 19

var signatureHashes = map[x509.SignatureAlgorithm]crypto.Hash{
	x509.SHA256WithRSA: crypto.SHA256,
	x509.SHA384WithRSA: crypto.SHA384,
	x509.SHA512WithRSA: crypto.SHA512,
}

// MinKeyBitsFor returns the smallest modulus able to carry a PKCS #1 v1.5
// signature of the given algorithm, or 0 when the algorithm is not supported.
func MinKeyBitsFor(algorithm x509.SignatureAlgorithm) int {
	hash, ok := signatureHashes[algorithm]
	if !ok {
		return 0
	}
	minBytes := hash.Size() + digestInfoPrefixLen + 11
	return (minBytes-1)*8 + 1
}

type SignedCertificate struct {
	raw  []byte
	cert *x509.Certificate
}

func (signed *SignedCertificate) Raw() []byte {
	p := make([]byte, len(signed.raw))
	copy(p, signed.raw)
	return p
}

func (signed *SignedCertificate) Certificate() *x509.Certificate {
	return signed.cert
}

func (signed *SignedCertificate) PEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: signed.raw,
	})
}

// SignCertificate self-signs tpl with key, which must match the embedded public key.
func SignCertificate(tpl *UnsignedCertificate, key *rsa.PrivateKey, algorithm x509.SignatureAlgorithm, random io.Reader) (signed *SignedCertificate, err error) {
	if tpl == nil {
		err = errors.Join(ErrSigning, fmt.Errorf("certificate is required"))
		return
	}
	if key == nil {
		err = errors.Join(ErrSigning, fmt.Errorf("private key is required"))
		return
	}
	minBits := MinKeyBitsFor(algorithm)
	if minBits == 0 {
		err = errors.Join(ErrSigning, fmt.Errorf("signature algorithm %s is not supported", algorithm))
		return
	}
	if !key.PublicKey.Equal(tpl.publicKey) {
		err = errors.Join(ErrSigning, fmt.Errorf("private key does not match the certificate public key"))
		return
	}
	if bits := key.N.BitLen(); bits < minBits {
		err = errors.Join(ErrSigning, fmt.Errorf("%d bits rsa key is too small for %s, requires %d bits at least", bits, algorithm, minBits))
		return
	}
	if extErr := tpl.extensions.Validate(); extErr != nil {
		err = errors.Join(ErrSigning, extErr)
		return
	}
	if random == nil {
		random = rand.Reader
	}
	template := *tpl.template
	template.SignatureAlgorithm = algorithm
	der, createErr := x509.CreateCertificate(random, &template, &template, tpl.publicKey, key)
	if createErr != nil {
		err = errors.Join(ErrSigning, fmt.Errorf("create certificate failed, %v", createErr))
		return
	}
	cert, parseErr := x509.ParseCertificate(der)
	if parseErr != nil {
		err = errors.Join(ErrSigning, fmt.Errorf("parse signed certificate failed, %v", parseErr))
		return
	}
	if checkErr := cert.CheckSignatureFrom(cert); checkErr != nil {
		err = errors.Join(ErrSigning, fmt.Errorf("verify self signature failed, %v", checkErr))
		return
	}
	signed = &SignedCertificate{
		raw:  der,
		cert: cert,
	}
	return
}
