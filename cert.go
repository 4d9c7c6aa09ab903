package certgen

import (
	"crypto/rsa"
	"crypto/x509"
	"math/big"
)

// UnsignedCertificate is a fully populated tbs structure waiting for its
// extensions and self signature.
type UnsignedCertificate struct {
	publicKey  *rsa.PublicKey
	subject    DistinguishedName
	validity   ValidityWindow
	template   *x509.Certificate
	extensions ExtensionList
}

func BuildCertificate(pub *rsa.PublicKey, sn *big.Int, subject DistinguishedName, issuer DistinguishedName, validity ValidityWindow) (tpl *UnsignedCertificate, err error) {
	if pub == nil {
		err = invalidParameter("public key is required")
		return
	}
	if sn == nil || sn.Sign() <= 0 {
		err = invalidParameter("serial number must be positive")
		return
	}
	if !subject.Equal(issuer) {
		err = invalidParameter("issuer %q must equal subject %q on a self-signed ca", issuer, subject)
		return
	}
	if err = validity.Validate(); err != nil {
		return
	}
	tpl = &UnsignedCertificate{
		publicKey: pub,
		subject:   subject,
		validity:  validity,
		template: &x509.Certificate{
			SerialNumber:       new(big.Int).Set(sn),
			Subject:            subject.Name(),
			Issuer:             issuer.Name(),
			PublicKeyAlgorithm: x509.RSA,
			PublicKey:          pub,
			NotBefore:          validity.NotBefore,
			NotAfter:           validity.NotAfter,
		},
	}
	return
}

// Attach replaces the extension list after checking it against the root CA profile.
func (tpl *UnsignedCertificate) Attach(extensions ExtensionList) (err error) {
	if err = extensions.Validate(); err != nil {
		return
	}
	tpl.extensions = extensions
	tpl.template.ExtraExtensions = extensions.PKIX()
	return
}

func (tpl *UnsignedCertificate) PublicKey() *rsa.PublicKey {
	return tpl.publicKey
}

func (tpl *UnsignedCertificate) SerialNumber() *big.Int {
	return new(big.Int).Set(tpl.template.SerialNumber)
}

func (tpl *UnsignedCertificate) Subject() DistinguishedName {
	return tpl.subject
}

func (tpl *UnsignedCertificate) Validity() ValidityWindow {
	return tpl.validity
}

func (tpl *UnsignedCertificate) Extensions() ExtensionList {
	return tpl.extensions
}
