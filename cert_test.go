package certgen_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aacfactory/certgen"
)

func TestBuildCertificate(t *testing.T) {
	pair := testKeyPair(t)
	sn := big.NewInt(7919)
	validity := certgen.NewValidityWindow(time.Now(), certgen.DefaultPolicy())
	subject := certgen.DistinguishedName{CommonName: "Root"}

	tpl, err := certgen.BuildCertificate(pair.Public, sn, subject, subject, validity)
	require.NoError(t, err)
	assert.Same(t, pair.Public, tpl.PublicKey())
	assert.Equal(t, 0, sn.Cmp(tpl.SerialNumber()))
	assert.Equal(t, subject, tpl.Subject())
	assert.Equal(t, validity, tpl.Validity())
	assert.Empty(t, tpl.Extensions())

	sn.SetInt64(1)
	assert.Equal(t, int64(7919), tpl.SerialNumber().Int64(), "serial must be copied")
}

func TestBuildCertificateRejects(t *testing.T) {
	pair := testKeyPair(t)
	validity := certgen.NewValidityWindow(time.Now(), certgen.DefaultPolicy())
	name := certgen.EmptyName()

	tests := []struct {
		name  string
		build func() error
	}{
		{name: "nil key", build: func() error {
			_, err := certgen.BuildCertificate(nil, big.NewInt(1), name, name, validity)
			return err
		}},
		{name: "nil serial", build: func() error {
			_, err := certgen.BuildCertificate(pair.Public, nil, name, name, validity)
			return err
		}},
		{name: "zero serial", build: func() error {
			_, err := certgen.BuildCertificate(pair.Public, big.NewInt(0), name, name, validity)
			return err
		}},
		{name: "negative serial", build: func() error {
			_, err := certgen.BuildCertificate(pair.Public, big.NewInt(-3), name, name, validity)
			return err
		}},
		{name: "issuer differs", build: func() error {
			_, err := certgen.BuildCertificate(pair.Public, big.NewInt(1), name, certgen.DistinguishedName{CommonName: "other"}, validity)
			return err
		}},
		{name: "inverted validity", build: func() error {
			inverted := certgen.ValidityWindow{NotBefore: validity.NotAfter, NotAfter: validity.NotBefore}
			_, err := certgen.BuildCertificate(pair.Public, big.NewInt(1), name, name, inverted)
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.build(), certgen.ErrInvalidParameter)
		})
	}
}

func TestUnsignedCertificateAttach(t *testing.T) {
	pair := testKeyPair(t)
	sn, err := certgen.GenerateSerialNumber(certgen.DefaultSerialBits, nil)
	require.NoError(t, err)
	validity := certgen.NewValidityWindow(time.Now(), certgen.DefaultPolicy())
	tpl, err := certgen.BuildCertificate(pair.Public, sn, certgen.EmptyName(), certgen.EmptyName(), validity)
	require.NoError(t, err)

	bc, err := certgen.BasicConstraintsExtension(true)
	require.NoError(t, err)
	assert.ErrorIs(t, tpl.Attach(certgen.ExtensionList{bc}), certgen.ErrInvalidParameter)
	assert.Empty(t, tpl.Extensions())

	list, err := certgen.ComputeExtensions(pair.Public)
	require.NoError(t, err)
	require.NoError(t, tpl.Attach(list))
	assert.Equal(t, list, tpl.Extensions())
}
