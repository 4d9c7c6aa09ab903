package certgen

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

type Option func(*Options) error

type Options struct {
	policy   Policy
	subject  DistinguishedName
	keystore KeystoreConfig
	random   io.Reader
	clock    func() time.Time
	log      zerolog.Logger
}

func WithPolicy(policy Policy) Option {
	return func(options *Options) error {
		options.policy = policy
		return nil
	}
}

func WithSubject(subject DistinguishedName) Option {
	return func(options *Options) error {
		options.subject = subject
		return nil
	}
}

func WithCommonName(cn string) Option {
	return func(options *Options) error {
		options.subject.CommonName = cn
		return nil
	}
}

// WithPassphrase protects the exported keystore. Without it the private key is stored unprotected.
func WithPassphrase(passphrase string) Option {
	return func(options *Options) error {
		options.keystore.Passphrase = passphrase
		return nil
	}
}

func WithKeystoreFormat(format KeystoreFormat) Option {
	return func(options *Options) error {
		options.keystore.Format = format
		return nil
	}
}

// WithRandom replaces crypto/rand as the entropy source of every stage.
func WithRandom(random io.Reader) Option {
	return func(options *Options) error {
		if random == nil {
			return fmt.Errorf("random source is required")
		}
		options.random = random
		return nil
	}
}

func WithClock(clock func() time.Time) Option {
	return func(options *Options) error {
		if clock == nil {
			return fmt.Errorf("clock is required")
		}
		options.clock = clock
		return nil
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(options *Options) error {
		options.log = log
		return nil
	}
}
