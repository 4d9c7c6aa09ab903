package certgen

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
)

type KeyPair struct {
	Public  *rsa.PublicKey
	Private *rsa.PrivateKey
}

func (pair *KeyPair) Bits() int {
	return pair.Public.N.BitLen()
}

// PrivateKeyPEM encodes the private key as a PKCS#8 PRIVATE KEY block.
func (pair *KeyPair) PrivateKeyPEM() (keyPEM []byte, err error) {
	der, derErr := x509.MarshalPKCS8PrivateKey(pair.Private)
	if derErr != nil {
		err = fmt.Errorf("certgen: encode private key failed, %v", derErr)
		return
	}
	keyPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	})
	return
}

// GenerateKeyPair creates a fresh RSA key pair of exactly bits bits.
// A nil random reads from crypto/rand.
func GenerateKeyPair(bits int, random io.Reader) (pair *KeyPair, err error) {
	if bits < 1 {
		err = errors.Join(ErrGeneration, fmt.Errorf("invalid key length %d", bits))
		return
	}
	if random == nil {
		random = rand.Reader
	}
	key, keyErr := rsa.GenerateKey(random, bits)
	if keyErr != nil {
		err = errors.Join(ErrGeneration, fmt.Errorf("generate rsa key pair failed, %v", keyErr))
		return
	}
	pair = &KeyPair{
		Public:  &key.PublicKey,
		Private: key,
	}
	return
}
