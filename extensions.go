package certgen

import (
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cryptobyteasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	OIDSubjectKeyIdentifier = asn1.ObjectIdentifier{2, 5, 29, 14}
	OIDBasicConstraints     = asn1.ObjectIdentifier{2, 5, 29, 19}
)

type Extension struct {
	ID       asn1.ObjectIdentifier
	Critical bool
	Value    []byte
}

func (ext Extension) PKIX() pkix.Extension {
	value := make([]byte, len(ext.Value))
	copy(value, ext.Value)
	return pkix.Extension{
		Id:       ext.ID,
		Critical: ext.Critical,
		Value:    value,
	}
}

// ExtensionList is ordered as it will appear in the certificate.
type ExtensionList []Extension

func (list ExtensionList) Find(id asn1.ObjectIdentifier) (ext Extension, has bool) {
	for _, e := range list {
		if e.ID.Equal(id) {
			ext = e
			has = true
			return
		}
	}
	return
}

func (list ExtensionList) PKIX() []pkix.Extension {
	exts := make([]pkix.Extension, 0, len(list))
	for _, ext := range list {
		exts = append(exts, ext.PKIX())
	}
	return exts
}

// Validate enforces the root CA profile: exactly a non-critical subject key
// identifier and a critical basic constraints asserting cA without a path length.
func (list ExtensionList) Validate() (err error) {
	seen := make(map[string]struct{}, len(list))
	for _, ext := range list {
		id := ext.ID.String()
		if _, dup := seen[id]; dup {
			err = invalidParameter("extension %s is duplicated", id)
			return
		}
		seen[id] = struct{}{}
		switch {
		case ext.ID.Equal(OIDSubjectKeyIdentifier):
			if ext.Critical {
				err = invalidParameter("subject key identifier must not be critical")
				return
			}
			if _, parseErr := parseSubjectKeyIdentifier(ext.Value); parseErr != nil {
				err = invalidParameter("invalid subject key identifier, %v", parseErr)
				return
			}
		case ext.ID.Equal(OIDBasicConstraints):
			if !ext.Critical {
				err = invalidParameter("basic constraints must be critical")
				return
			}
			isCA, maxPathLen, parseErr := parseBasicConstraints(ext.Value)
			if parseErr != nil {
				err = invalidParameter("invalid basic constraints, %v", parseErr)
				return
			}
			if !isCA {
				err = invalidParameter("basic constraints must assert cA")
				return
			}
			if maxPathLen != -1 {
				err = invalidParameter("basic constraints must not carry a path length constraint")
				return
			}
		default:
			err = invalidParameter("extension %s is not allowed on a root ca", id)
			return
		}
	}
	if _, has := seen[OIDSubjectKeyIdentifier.String()]; !has {
		err = invalidParameter("subject key identifier is required")
		return
	}
	if _, has := seen[OIDBasicConstraints.String()]; !has {
		err = invalidParameter("basic constraints is required")
		return
	}
	return
}

func ComputeExtensions(pub *rsa.PublicKey) (list ExtensionList, err error) {
	if pub == nil {
		err = invalidParameter("public key is required")
		return
	}
	ski, skiErr := SubjectKeyIdentifierExtension(pub)
	if skiErr != nil {
		err = skiErr
		return
	}
	bc, bcErr := BasicConstraintsExtension(true)
	if bcErr != nil {
		err = bcErr
		return
	}
	list = ExtensionList{ski, bc}
	return
}

// SubjectKeyIdentifier is the SHA-1 of the subjectPublicKey BIT STRING (RFC 5280 4.2.1.2, method 1).
func SubjectKeyIdentifier(pub *rsa.PublicKey) (id []byte, err error) {
	spki, marshalErr := x509.MarshalPKIXPublicKey(pub)
	if marshalErr != nil {
		err = invalidParameter("marshal public key failed, %v", marshalErr)
		return
	}
	input := cryptobyte.String(spki)
	var info cryptobyte.String
	var algorithm cryptobyte.String
	var key asn1.BitString
	if !input.ReadASN1(&info, cryptobyteasn1.SEQUENCE) ||
		!info.ReadASN1(&algorithm, cryptobyteasn1.SEQUENCE) ||
		!info.ReadASN1BitString(&key) {
		err = invalidParameter("malformed subject public key info")
		return
	}
	sum := sha1.Sum(key.RightAlign())
	id = sum[:]
	return
}

func SubjectKeyIdentifierExtension(pub *rsa.PublicKey) (ext Extension, err error) {
	id, idErr := SubjectKeyIdentifier(pub)
	if idErr != nil {
		err = idErr
		return
	}
	b := cryptobyte.NewBuilder(make([]byte, 0, 24))
	b.AddASN1OctetString(id)
	value, buildErr := b.Bytes()
	if buildErr != nil {
		err = invalidParameter("encode subject key identifier failed, %v", buildErr)
		return
	}
	ext = Extension{
		ID:       OIDSubjectKeyIdentifier,
		Critical: false,
		Value:    value,
	}
	return
}

// BasicConstraintsExtension is always critical and never carries pathLenConstraint.
func BasicConstraintsExtension(isCA bool) (ext Extension, err error) {
	b := cryptobyte.NewBuilder(make([]byte, 0, 8))
	b.AddASN1(cryptobyteasn1.SEQUENCE, func(child *cryptobyte.Builder) {
		// DER omits the DEFAULT FALSE
		if isCA {
			child.AddASN1Boolean(true)
		}
	})
	value, buildErr := b.Bytes()
	if buildErr != nil {
		err = invalidParameter("encode basic constraints failed, %v", buildErr)
		return
	}
	ext = Extension{
		ID:       OIDBasicConstraints,
		Critical: true,
		Value:    value,
	}
	return
}

func parseSubjectKeyIdentifier(value []byte) (id []byte, err error) {
	input := cryptobyte.String(value)
	var octets cryptobyte.String
	if !input.ReadASN1(&octets, cryptobyteasn1.OCTET_STRING) || !input.Empty() {
		err = fmt.Errorf("malformed octet string")
		return
	}
	if len(octets) == 0 {
		err = fmt.Errorf("empty key identifier")
		return
	}
	id = []byte(octets)
	return
}

func parseBasicConstraints(value []byte) (isCA bool, maxPathLen int, err error) {
	maxPathLen = -1
	input := cryptobyte.String(value)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cryptobyteasn1.SEQUENCE) || !input.Empty() {
		err = fmt.Errorf("malformed sequence")
		return
	}
	if seq.PeekASN1Tag(cryptobyteasn1.BOOLEAN) {
		if !seq.ReadASN1Boolean(&isCA) {
			err = fmt.Errorf("malformed cA")
			return
		}
	}
	if seq.PeekASN1Tag(cryptobyteasn1.INTEGER) {
		if !seq.ReadASN1Integer(&maxPathLen) {
			err = fmt.Errorf("malformed pathLenConstraint")
			return
		}
	}
	if !seq.Empty() {
		err = fmt.Errorf("trailing data")
		return
	}
	return
}
