package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aacfactory/certgen"
	"github.com/aacfactory/certgen/logger"
)

const envPrefix = "CERTGEN_"

type Generator struct {
	KeyBits      int    `json:"keyBits" yaml:"keyBits"`
	Output       string `json:"output" yaml:"output"`
	CommonName   string `json:"commonName" yaml:"commonName"`
	Organization string `json:"organization" yaml:"organization"`
	Country      string `json:"country" yaml:"country"`
	Format       string `json:"format" yaml:"format"`
	Passphrase   string `json:"passphrase" yaml:"passphrase"`
	BackdateDays int    `json:"backdateDays" yaml:"backdateDays"`
	LifetimeDays int    `json:"lifetimeDays" yaml:"lifetimeDays"`
	LogLevel     string `json:"logLevel" yaml:"logLevel"`
}

func Default() *Generator {
	return &Generator{
		KeyBits:      certgen.DefaultKeyBits,
		Output:       certgen.DefaultKeystoreName,
		Format:       string(certgen.KeystoreLegacy),
		BackdateDays: int(certgen.DefaultBackdate / certgen.Day),
		LifetimeDays: int(certgen.DefaultLifetime / certgen.Day),
		LogLevel:     "warn",
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (v *Generator, err error) {
	v = Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	p, readErr := os.ReadFile(path)
	if readErr != nil {
		err = errors.Join(errors.New("certgen: load config failed"), errors.New("read file failed"), readErr)
		v = nil
		return
	}
	if decodeErr := yaml.Unmarshal(p, v); decodeErr != nil {
		err = errors.Join(errors.New("certgen: load config failed"), errors.New("decode yaml failed"), decodeErr)
		v = nil
		return
	}
	return
}

// LoadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set.
func LoadEnvFile(path string) (err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if loadErr := godotenv.Load(path); loadErr != nil {
		err = errors.Join(errors.New("certgen: load env file failed"), loadErr)
		return
	}
	return
}

// ApplyEnv overrides fields from CERTGEN_* variables.
func (generator *Generator) ApplyEnv() (err error) {
	var errs *multierror.Error
	if v, has := lookupEnv("KEY_BITS"); has {
		bits, atoiErr := strconv.Atoi(v)
		if atoiErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("%sKEY_BITS must be an integer, got %q", envPrefix, v))
		} else {
			generator.KeyBits = bits
		}
	}
	if v, has := lookupEnv("OUTPUT"); has {
		generator.Output = v
	}
	if v, has := lookupEnv("COMMON_NAME"); has {
		generator.CommonName = v
	}
	if v, has := lookupEnv("ORGANIZATION"); has {
		generator.Organization = v
	}
	if v, has := lookupEnv("COUNTRY"); has {
		generator.Country = v
	}
	if v, has := lookupEnv("FORMAT"); has {
		generator.Format = v
	}
	if v, has := os.LookupEnv(envPrefix + "PASSPHRASE"); has {
		generator.Passphrase = v
	}
	if v, has := lookupEnv("BACKDATE_DAYS"); has {
		days, atoiErr := strconv.Atoi(v)
		if atoiErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("%sBACKDATE_DAYS must be an integer, got %q", envPrefix, v))
		} else {
			generator.BackdateDays = days
		}
	}
	if v, has := lookupEnv("LIFETIME_DAYS"); has {
		days, atoiErr := strconv.Atoi(v)
		if atoiErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("%sLIFETIME_DAYS must be an integer, got %q", envPrefix, v))
		} else {
			generator.LifetimeDays = days
		}
	}
	if v, has := lookupEnv("LOG_LEVEL"); has {
		generator.LogLevel = v
	}
	if cause := errs.ErrorOrNil(); cause != nil {
		err = errors.Join(certgen.ErrInvalidParameter, cause)
	}
	return
}

func (generator *Generator) Validate() (err error) {
	var errs *multierror.Error
	if _, formatErr := certgen.ParseKeystoreFormat(generator.Format); formatErr != nil {
		errs = multierror.Append(errs, formatErr)
	}
	if generator.BackdateDays < 1 || generator.BackdateDays > certgen.MaxPeriodDays {
		errs = multierror.Append(errs, fmt.Errorf("backdate days must be in [1, %d], got %d", certgen.MaxPeriodDays, generator.BackdateDays))
	}
	if generator.LifetimeDays < 1 || generator.LifetimeDays > certgen.MaxPeriodDays {
		errs = multierror.Append(errs, fmt.Errorf("lifetime days must be in [1, %d], got %d", certgen.MaxPeriodDays, generator.LifetimeDays))
	}
	if !logger.ValidLevel(generator.LogLevel) {
		errs = multierror.Append(errs, fmt.Errorf("invalid log level %q, expected one of %v", generator.LogLevel, logger.Levels))
	}
	if cause := errs.ErrorOrNil(); cause != nil {
		err = errors.Join(certgen.ErrInvalidParameter, cause)
	}
	return
}

// Policy converts the day counts. Call Validate first, out of range counts overflow.
func (generator *Generator) Policy() certgen.Policy {
	policy := certgen.DefaultPolicy()
	policy.Backdate = certgen.Day * time.Duration(generator.BackdateDays)
	policy.Lifetime = certgen.Day * time.Duration(generator.LifetimeDays)
	return policy
}

func (generator *Generator) OutputName() string {
	return certgen.KeystoreName(generator.Output)
}

// Options converts the configuration into pipeline options.
func (generator *Generator) Options() (options []certgen.Option, err error) {
	if err = generator.Validate(); err != nil {
		return
	}
	format, _ := certgen.ParseKeystoreFormat(generator.Format)
	options = []certgen.Option{
		certgen.WithPolicy(generator.Policy()),
		certgen.WithSubject(certgen.DistinguishedName{
			Country:      generator.Country,
			Organization: generator.Organization,
			CommonName:   generator.CommonName,
		}),
		certgen.WithKeystoreFormat(format),
		certgen.WithPassphrase(generator.Passphrase),
	}
	return
}

func lookupEnv(key string) (v string, has bool) {
	v, has = os.LookupEnv(envPrefix + key)
	v = strings.TrimSpace(v)
	return
}
