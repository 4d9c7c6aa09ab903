package certgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aacfactory/certgen"
)

func TestGenerateSerialNumber(t *testing.T) {
	a, err := certgen.GenerateSerialNumber(certgen.DefaultSerialBits, nil)
	require.NoError(t, err)
	b, err := certgen.GenerateSerialNumber(certgen.DefaultSerialBits, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Sign())
	assert.Equal(t, certgen.DefaultSerialBits, a.BitLen())
	assert.LessOrEqual(t, len(a.Bytes()), 20)
	assert.True(t, a.ProbablyPrime(20))
	assert.NotEqual(t, 0, a.Cmp(b), "serial numbers must not repeat")
}

func TestGenerateSerialNumberBounds(t *testing.T) {
	tests := []struct {
		name    string
		bits    int
		wantErr bool
	}{
		{name: "too short", bits: 32, wantErr: true},
		{name: "lower bound", bits: 64},
		{name: "upper bound", bits: 160},
		{name: "too long for 20 octets", bits: 168, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sn, err := certgen.GenerateSerialNumber(tc.bits, nil)
			if tc.wantErr {
				assert.ErrorIs(t, err, certgen.ErrInvalidParameter)
				assert.Nil(t, sn)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.bits, sn.BitLen())
		})
	}
}

func TestGenerateSerialNumberRandomFailure(t *testing.T) {
	_, err := certgen.GenerateSerialNumber(certgen.DefaultSerialBits, failingReader{})
	assert.ErrorIs(t, err, certgen.ErrGeneration)
}
