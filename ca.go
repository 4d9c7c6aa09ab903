package certgen

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Keystore is the result of a run. It never exposes the private key outside Data.
type Keystore struct {
	Data        []byte
	Certificate *x509.Certificate
	KeyBits     int
	Format      KeystoreFormat
	Protected   bool
}

// GenerateKeystore runs generate, build, extend, sign and package. Any failing
// stage aborts the run and no keystore bytes are returned.
func GenerateKeystore(keyBits int, options ...Option) (ks *Keystore, err error) {
	opt := &Options{
		policy:  DefaultPolicy(),
		subject: EmptyName(),
		random:  rand.Reader,
		clock:   time.Now,
		log:     zerolog.Nop(),
	}
	var errs *multierror.Error
	for _, option := range options {
		if optErr := option(opt); optErr != nil {
			errs = multierror.Append(errs, optErr)
		}
	}
	if policyErr := opt.policy.Validate(); policyErr != nil {
		errs = multierror.Append(errs, policyErr)
	} else if bitsErr := opt.policy.CheckKeyBits(keyBits); bitsErr != nil {
		errs = multierror.Append(errs, bitsErr)
	}
	if keystoreErr := opt.keystore.Validate(); keystoreErr != nil {
		errs = multierror.Append(errs, keystoreErr)
	}
	if cause := errs.ErrorOrNil(); cause != nil {
		err = errors.Join(ErrInvalidParameter, cause)
		return
	}
	log := opt.log.With().Int("keyBits", keyBits).Logger()

	log.Debug().Msg("generating rsa key pair")
	pair, pairErr := GenerateKeyPair(keyBits, opt.random)
	if pairErr != nil {
		err = pairErr
		return
	}
	sn, snErr := GenerateSerialNumber(opt.policy.SerialBits, opt.random)
	if snErr != nil {
		err = snErr
		return
	}
	validity := NewValidityWindow(opt.clock(), opt.policy)
	log.Debug().
		Str("serial", sn.Text(16)).
		Time("notBefore", validity.NotBefore).
		Time("notAfter", validity.NotAfter).
		Msg("building certificate")
	tpl, tplErr := BuildCertificate(pair.Public, sn, opt.subject, opt.subject, validity)
	if tplErr != nil {
		err = tplErr
		return
	}
	extensions, extErr := ComputeExtensions(pair.Public)
	if extErr != nil {
		err = extErr
		return
	}
	if err = tpl.Attach(extensions); err != nil {
		return
	}

	log.Debug().Str("algorithm", opt.policy.SignatureAlgorithm.String()).Msg("self signing certificate")
	signed, signErr := SignCertificate(tpl, pair.Private, opt.policy.SignatureAlgorithm, opt.random)
	if signErr != nil {
		err = signErr
		return
	}
	if err = verifyKeyPair(signed, pair); err != nil {
		return
	}

	if !opt.keystore.Protected() {
		log.Warn().Str("format", string(opt.keystore.format())).Msg("keystore private key is not protected by a passphrase")
	}
	data, packageErr := PackageKeystore(signed, pair.Private, opt.keystore, opt.random)
	if packageErr != nil {
		err = packageErr
		return
	}
	log.Debug().Int("size", len(data)).Msg("keystore packaged")
	ks = &Keystore{
		Data:        data,
		Certificate: signed.Certificate(),
		KeyBits:     pair.Bits(),
		Format:      opt.keystore.format(),
		Protected:   opt.keystore.Protected(),
	}
	return
}

// verifyKeyPair loads the PEM encoded pair the way a TLS stack would.
func verifyKeyPair(signed *SignedCertificate, pair *KeyPair) (err error) {
	keyPEM, keyErr := pair.PrivateKeyPEM()
	if keyErr != nil {
		err = errors.Join(ErrSigning, keyErr)
		return
	}
	if _, pairErr := tls.X509KeyPair(signed.PEM(), keyPEM); pairErr != nil {
		err = errors.Join(ErrSigning, fmt.Errorf("verify key pair failed, %v", pairErr))
		return
	}
	return
}
