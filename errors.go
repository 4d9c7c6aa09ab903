package certgen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned before any cryptographic work begins.
	ErrInvalidParameter = errors.New("certgen: invalid parameter")
	// ErrGeneration is returned when the RSA primitive cannot produce a key pair or serial number.
	ErrGeneration = errors.New("certgen: generate failed")
	// ErrSigning is returned when the certificate cannot be self-signed.
	ErrSigning = errors.New("certgen: sign certificate failed")
	// ErrSerialization is returned when the keystore cannot be encoded or decoded.
	ErrSerialization = errors.New("certgen: serialize keystore failed")
)

func invalidParameter(format string, args ...any) error {
	return errors.Join(ErrInvalidParameter, fmt.Errorf(format, args...))
}
