package certgen_test

import (
	"crypto/sha1"
	"crypto/x509"
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aacfactory/certgen"
)

func TestComputeExtensions(t *testing.T) {
	pair := testKeyPair(t)
	list, err := certgen.ComputeExtensions(pair.Public)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.True(t, list[0].ID.Equal(certgen.OIDSubjectKeyIdentifier))
	assert.False(t, list[0].Critical)
	assert.True(t, list[1].ID.Equal(certgen.OIDBasicConstraints))
	assert.True(t, list[1].Critical)
	// SEQUENCE { BOOLEAN TRUE }
	assert.Equal(t, []byte{0x30, 0x03, 0x01, 0x01, 0xff}, list[1].Value)
	assert.NoError(t, list.Validate())

	_, err = certgen.ComputeExtensions(nil)
	assert.ErrorIs(t, err, certgen.ErrInvalidParameter)
}

func TestSubjectKeyIdentifierIsDeterministic(t *testing.T) {
	pair := testKeyPair(t)
	a, err := certgen.SubjectKeyIdentifier(pair.Public)
	require.NoError(t, err)
	b, err := certgen.SubjectKeyIdentifier(pair.Public)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, sha1.Size)

	// method 1 hashes the subjectPublicKey bits, which for RSA are the PKCS #1 public key
	sum := sha1.Sum(x509.MarshalPKCS1PublicKey(pair.Public))
	assert.Equal(t, sum[:], a)

	ext, err := certgen.SubjectKeyIdentifierExtension(pair.Public)
	require.NoError(t, err)
	var octets []byte
	rest, err := asn1.Unmarshal(ext.Value, &octets)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, a, octets)
}

func TestExtensionListValidate(t *testing.T) {
	pair := testKeyPair(t)
	ski, err := certgen.SubjectKeyIdentifierExtension(pair.Public)
	require.NoError(t, err)
	bc, err := certgen.BasicConstraintsExtension(true)
	require.NoError(t, err)
	leaf, err := certgen.BasicConstraintsExtension(false)
	require.NoError(t, err)

	nonCriticalBC := bc
	nonCriticalBC.Critical = false
	criticalSKI := ski
	criticalSKI.Critical = true
	withPathLen := certgen.Extension{
		ID:       certgen.OIDBasicConstraints,
		Critical: true,
		Value:    []byte{0x30, 0x06, 0x01, 0x01, 0xff, 0x02, 0x01, 0x00},
	}
	keyUsage := certgen.Extension{
		ID:       asn1.ObjectIdentifier{2, 5, 29, 15},
		Critical: true,
		Value:    []byte{0x03, 0x02, 0x01, 0x06},
	}

	tests := []struct {
		name    string
		list    certgen.ExtensionList
		wantErr bool
	}{
		{name: "root profile", list: certgen.ExtensionList{ski, bc}},
		{name: "any order", list: certgen.ExtensionList{bc, ski}},
		{name: "empty", list: nil, wantErr: true},
		{name: "missing basic constraints", list: certgen.ExtensionList{ski}, wantErr: true},
		{name: "missing subject key identifier", list: certgen.ExtensionList{bc}, wantErr: true},
		{name: "basic constraints not critical", list: certgen.ExtensionList{ski, nonCriticalBC}, wantErr: true},
		{name: "subject key identifier critical", list: certgen.ExtensionList{criticalSKI, bc}, wantErr: true},
		{name: "not a ca", list: certgen.ExtensionList{ski, leaf}, wantErr: true},
		{name: "path length", list: certgen.ExtensionList{ski, withPathLen}, wantErr: true},
		{name: "duplicate", list: certgen.ExtensionList{ski, bc, bc}, wantErr: true},
		{name: "key usage not allowed", list: certgen.ExtensionList{ski, bc, keyUsage}, wantErr: true},
		{name: "garbage value", list: certgen.ExtensionList{ski, {ID: certgen.OIDBasicConstraints, Critical: true, Value: []byte{0x01}}}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.list.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, certgen.ErrInvalidParameter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExtensionListFind(t *testing.T) {
	list, err := certgen.ComputeExtensions(testKeyPair(t).Public)
	require.NoError(t, err)
	ext, has := list.Find(certgen.OIDBasicConstraints)
	assert.True(t, has)
	assert.True(t, ext.Critical)
	_, has = list.Find(asn1.ObjectIdentifier{2, 5, 29, 17})
	assert.False(t, has)

	exts := list.PKIX()
	require.Len(t, exts, 2)
	exts[1].Value[0] = 0
	assert.Equal(t, byte(0x30), list[1].Value[0], "PKIX must copy values")
}
