package certgen

import (
	"bytes"
	"crypto/x509/pkix"
	"encoding/asn1"
	"strings"
)

var oidCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}

type DistinguishedName struct {
	Country      string `json:"country" yaml:"country"`
	Organization string `json:"organization" yaml:"organization"`
	CommonName   string `json:"commonName" yaml:"commonName"`
}

// EmptyName is the CN= placeholder used for both subject and issuer.
func EmptyName() DistinguishedName {
	return DistinguishedName{}
}

// Name always carries a common name attribute, even when its value is empty.
func (dn DistinguishedName) Name() pkix.Name {
	name := pkix.Name{}
	if country := strings.TrimSpace(dn.Country); country != "" {
		name.Country = []string{country}
	}
	if organization := strings.TrimSpace(dn.Organization); organization != "" {
		name.Organization = []string{organization}
	}
	if cn := strings.TrimSpace(dn.CommonName); cn != "" {
		name.CommonName = cn
	} else {
		name.ExtraNames = []pkix.AttributeTypeAndValue{{Type: oidCommonName, Value: ""}}
	}
	return name
}

func (dn DistinguishedName) DER() (p []byte, err error) {
	p, err = asn1.Marshal(dn.Name().ToRDNSequence())
	return
}

func (dn DistinguishedName) Equal(other DistinguishedName) bool {
	a, aErr := dn.DER()
	if aErr != nil {
		return false
	}
	b, bErr := other.DER()
	if bErr != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func (dn DistinguishedName) String() string {
	return dn.Name().String()
}
