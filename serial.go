package certgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// GenerateSerialNumber returns a random probable prime of exactly bits bits,
// so the serial is always positive and its magnitude fits 20 octets at 160 bits.
func GenerateSerialNumber(bits int, random io.Reader) (sn *big.Int, err error) {
	if bits < minSerialBits || bits > maxSerialBits {
		err = invalidParameter("serial bits must be in [%d, %d], got %d", minSerialBits, maxSerialBits, bits)
		return
	}
	if random == nil {
		random = rand.Reader
	}
	sn, err = rand.Prime(random, bits)
	if err != nil {
		err = errors.Join(ErrGeneration, fmt.Errorf("rand serial number failed, %v", err))
		sn = nil
		return
	}
	return
}
