package certgen

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"

	"software.sslmate.com/src/go-pkcs12"
)

type KeystoreFormat string

const (
	// KeystoreLegacy is 3DES with a SHA-1 MAC, the encoding every OS certificate store reads.
	KeystoreLegacy = KeystoreFormat("legacy")
	// KeystoreModern is AES-256-CBC with PBKDF2 and a SHA-256 MAC.
	KeystoreModern = KeystoreFormat("modern")
	// KeystorePasswordless stores the key unencrypted and without MAC.
	KeystorePasswordless = KeystoreFormat("passwordless")
)

const DefaultKeystoreName = "MyCA.p12"

var keystoreExtensions = []string{".p12", ".pfx"}

func ParseKeystoreFormat(v string) (format KeystoreFormat, err error) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", "legacy", "legacy-des", "des":
		format = KeystoreLegacy
	case "modern", "aes":
		format = KeystoreModern
	case "passwordless", "none":
		format = KeystorePasswordless
	default:
		err = invalidParameter("unknown keystore format %q, expected one of legacy, modern, passwordless", v)
	}
	return
}

// KeystoreConfig controls the protection of the exported private key.
// The zero value is the legacy format with an empty passphrase, which leaves
// the private key readable by anyone holding the file.
type KeystoreConfig struct {
	Format     KeystoreFormat
	Passphrase string
}

func (config KeystoreConfig) format() KeystoreFormat {
	if config.Format == "" {
		return KeystoreLegacy
	}
	return config.Format
}

func (config KeystoreConfig) Validate() (err error) {
	switch config.format() {
	case KeystoreLegacy, KeystoreModern:
	case KeystorePasswordless:
		if config.Passphrase != "" {
			err = invalidParameter("passwordless keystore can not carry a passphrase")
			return
		}
	default:
		err = invalidParameter("unknown keystore format %q", config.Format)
		return
	}
	return
}

func (config KeystoreConfig) Protected() bool {
	return config.Passphrase != "" && config.format() != KeystorePasswordless
}

func (config KeystoreConfig) encoder() *pkcs12.Encoder {
	switch config.format() {
	case KeystoreModern:
		return pkcs12.Modern2023
	case KeystorePasswordless:
		return pkcs12.Passwordless
	default:
		return pkcs12.LegacyDES
	}
}

// PackageKeystore bundles the certificate and its private key into a PKCS #12 container.
func PackageKeystore(signed *SignedCertificate, key *rsa.PrivateKey, config KeystoreConfig, random io.Reader) (p []byte, err error) {
	if signed == nil || signed.cert == nil {
		err = errors.Join(ErrSerialization, fmt.Errorf("certificate is required"))
		return
	}
	if key == nil {
		err = errors.Join(ErrSerialization, fmt.Errorf("private key is required"))
		return
	}
	if configErr := config.Validate(); configErr != nil {
		err = errors.Join(ErrSerialization, configErr)
		return
	}
	if !key.PublicKey.Equal(signed.cert.PublicKey) {
		err = errors.Join(ErrSerialization, fmt.Errorf("private key does not match the certificate"))
		return
	}
	encoder := config.encoder()
	if random != nil {
		encoder = encoder.WithRand(random)
	}
	p, err = encoder.Encode(key, signed.cert, nil, config.Passphrase)
	if err != nil {
		err = errors.Join(ErrSerialization, fmt.Errorf("encode pkcs12 failed, %v", err))
		p = nil
		return
	}
	return
}

type KeystoreContent struct {
	Certificate *x509.Certificate
	PrivateKey  *rsa.PrivateKey
}

func DecodeKeystore(data []byte, passphrase string) (content *KeystoreContent, err error) {
	key, cert, _, decodeErr := pkcs12.DecodeChain(data, passphrase)
	if decodeErr != nil {
		err = errors.Join(ErrSerialization, fmt.Errorf("decode pkcs12 failed, %v", decodeErr))
		return
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		err = errors.Join(ErrSerialization, fmt.Errorf("keystore private key is %T, not rsa", key))
		return
	}
	if !rsaKey.PublicKey.Equal(cert.PublicKey) {
		err = errors.Join(ErrSerialization, fmt.Errorf("keystore private key does not match the certificate"))
		return
	}
	content = &KeystoreContent{
		Certificate: cert,
		PrivateKey:  rsaKey,
	}
	return
}

// KeystoreName appends .p12 unless name already ends with a keystore extension.
func KeystoreName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultKeystoreName
	}
	lower := strings.ToLower(name)
	for _, ext := range keystoreExtensions {
		if strings.HasSuffix(lower, ext) {
			return name
		}
	}
	return name + ".p12"
}
