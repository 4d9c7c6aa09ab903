package certgen

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	Day = 24 * time.Hour

	DefaultKeyBits    = 2048
	DefaultMinKeyBits = 745
	DefaultSerialBits = 160
	DefaultBackdate   = 285 * Day
	DefaultLifetime   = 3650 * Day

	// MaxPeriodDays bounds backdate and lifetime, x509 times end at year 9999.
	MaxPeriodDays = 36500
	MaxPeriod     = MaxPeriodDays * Day

	minSerialBits = 64
	maxSerialBits = 160
)

// Policy holds the fixed constants of the root CA profile.
type Policy struct {
	MinKeyBits         int
	SerialBits         int
	Backdate           time.Duration
	Lifetime           time.Duration
	SignatureAlgorithm x509.SignatureAlgorithm
}

func DefaultPolicy() Policy {
	return Policy{
		MinKeyBits:         DefaultMinKeyBits,
		SerialBits:         DefaultSerialBits,
		Backdate:           DefaultBackdate,
		Lifetime:           DefaultLifetime,
		SignatureAlgorithm: x509.SHA512WithRSA,
	}
}

func (policy Policy) Validate() (err error) {
	var errs *multierror.Error
	if policy.MinKeyBits < 1 {
		errs = multierror.Append(errs, fmt.Errorf("min key bits must be positive, got %d", policy.MinKeyBits))
	}
	if policy.SerialBits < minSerialBits || policy.SerialBits > maxSerialBits {
		errs = multierror.Append(errs, fmt.Errorf("serial bits must be in [%d, %d], got %d", minSerialBits, maxSerialBits, policy.SerialBits))
	}
	if policy.Backdate <= 0 || policy.Backdate > MaxPeriod {
		errs = multierror.Append(errs, fmt.Errorf("backdate must be in (0, %d days], got %s", MaxPeriodDays, policy.Backdate))
	}
	if policy.Lifetime <= 0 || policy.Lifetime > MaxPeriod {
		errs = multierror.Append(errs, fmt.Errorf("lifetime must be in (0, %d days], got %s", MaxPeriodDays, policy.Lifetime))
	}
	if _, ok := signatureHashes[policy.SignatureAlgorithm]; !ok {
		errs = multierror.Append(errs, fmt.Errorf("signature algorithm %s is not supported", policy.SignatureAlgorithm))
	}
	if cause := errs.ErrorOrNil(); cause != nil {
		err = errors.Join(ErrInvalidParameter, cause)
	}
	return
}

// CheckKeyBits rejects key lengths below the policy floor.
func (policy Policy) CheckKeyBits(bits int) (err error) {
	if bits < policy.MinKeyBits {
		err = invalidParameter("key length must be %d bits or greater, got %d", policy.MinKeyBits, bits)
	}
	return
}
