package certgen_test

import (
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aacfactory/certgen"
)

const testKeyBits = 1024

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

type failingReader struct{}

func (failingReader) Read(_ []byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

var (
	sharedPairOnce sync.Once
	sharedPair     *certgen.KeyPair
	sharedPairErr  error
)

func testKeyPair(t *testing.T) *certgen.KeyPair {
	t.Helper()
	sharedPairOnce.Do(func() {
		sharedPair, sharedPairErr = certgen.GenerateKeyPair(testKeyBits, rand.Reader)
	})
	require.NoError(t, sharedPairErr)
	return sharedPair
}

func testUnsigned(t *testing.T, pair *certgen.KeyPair) *certgen.UnsignedCertificate {
	t.Helper()
	sn, err := certgen.GenerateSerialNumber(certgen.DefaultSerialBits, nil)
	require.NoError(t, err)
	validity := certgen.NewValidityWindow(time.Now(), certgen.DefaultPolicy())
	tpl, err := certgen.BuildCertificate(pair.Public, sn, certgen.EmptyName(), certgen.EmptyName(), validity)
	require.NoError(t, err)
	extensions, err := certgen.ComputeExtensions(pair.Public)
	require.NoError(t, err)
	require.NoError(t, tpl.Attach(extensions))
	return tpl
}

func testSigned(t *testing.T, pair *certgen.KeyPair) *certgen.SignedCertificate {
	t.Helper()
	signed, err := certgen.SignCertificate(testUnsigned(t, pair), pair.Private, certgen.DefaultPolicy().SignatureAlgorithm, nil)
	require.NoError(t, err)
	return signed
}
