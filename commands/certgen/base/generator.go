package base

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aacfactory/certgen"
	"github.com/aacfactory/certgen/configs"
	"github.com/aacfactory/certgen/logger"
)

const description = `Generates a self-signed RSA root CA certificate and stores it,
together with its private key, in a PKCS#12 keystore.

  key_length  RSA key length in bits, 745 or greater (default 2048)
  cert_name   keystore file name, .p12 is appended when missing (default MyCA.p12)`

var helpAliases = map[string]struct{}{
	"-h": {}, "-help": {}, "--h": {}, "--help": {},
	"/h": {}, "/help": {}, "help": {}, "h": {},
	"-?": {}, "?": {}, "/?": {},
}

// NormalizeArgs maps a leading help spelling to --help. A leading negative
// key length is passed as --key-length so pflag does not read it as a shorthand.
func NormalizeArgs(args []string) []string {
	normalized := append([]string(nil), args...)
	if len(normalized) == 0 {
		return normalized
	}
	first := strings.TrimSpace(normalized[0])
	if _, isHelp := helpAliases[strings.ToLower(first)]; isHelp {
		normalized[0] = "--help"
		return normalized
	}
	if strings.HasPrefix(first, "-") {
		if _, atoiErr := strconv.Atoi(first); atoiErr == nil {
			normalized[0] = "--key-length=" + first
		}
	}
	return normalized
}

type flagValues struct {
	keyLength     int
	config        string
	envFile       string
	commonName    string
	organization  string
	country       string
	format        string
	passphrase    string
	passphraseEnv string
	backdateDays  int
	lifetimeDays  int
	logLevel      string
}

func bindFlags(flags *pflag.FlagSet, v *flagValues) {
	flags.IntVar(&v.keyLength, "key-length", certgen.DefaultKeyBits, "RSA key length in bits, when set the only argument is cert_name")
	flags.StringVar(&v.config, "config", "", "yaml configuration file")
	flags.StringVar(&v.envFile, "env-file", "", "dotenv file with CERTGEN_* variables")
	flags.StringVar(&v.commonName, "cn", "", "subject common name, empty by default")
	flags.StringVar(&v.organization, "organization", "", "subject organization")
	flags.StringVar(&v.country, "country", "", "subject country")
	flags.StringVar(&v.format, "format", string(certgen.KeystoreLegacy), "keystore format, one of legacy, modern, passwordless")
	flags.StringVar(&v.passphrase, "passphrase", "", "keystore passphrase")
	flags.StringVar(&v.passphraseEnv, "passphrase-env", "", "name of the environment variable holding the keystore passphrase")
	flags.IntVar(&v.backdateDays, "backdate-days", int(certgen.DefaultBackdate/certgen.Day), "days the certificate is valid before now")
	flags.IntVar(&v.lifetimeDays, "lifetime-days", int(certgen.DefaultLifetime/certgen.Day), "days the certificate is valid after now")
	flags.StringVar(&v.logLevel, "log-level", "warn", fmt.Sprintf("log level, one of %v", logger.Levels))
}

// NewCommand builds the root command. Console output goes to out and logs to logOut.
func NewCommand(out io.Writer, logOut io.Writer) *cobra.Command {
	values := &flagValues{}
	cmd := &cobra.Command{
		Use:           "certgen [key_length] [cert_name]",
		Short:         "Generate a self-signed RSA root CA keystore",
		Long:          description,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			config, configErr := resolve(cmd.Flags(), values, args)
			if configErr != nil {
				err = configErr
				return
			}
			err = generate(config, out, logOut)
			return
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Join(certgen.ErrInvalidParameter, err)
	})
	cmd.SetOut(out)
	cmd.SetErr(out)
	bindFlags(cmd.Flags(), values)
	cmd.AddCommand(newInspectCommand(out))
	return cmd
}

// Generate runs the command with args and returns the first failure.
func Generate(args []string) (err error) {
	cmd := NewCommand(os.Stdout, os.Stderr)
	cmd.SetArgs(NormalizeArgs(args))
	err = cmd.Execute()
	return
}

func resolve(flags *pflag.FlagSet, values *flagValues, args []string) (config *configs.Generator, err error) {
	if err = configs.LoadEnvFile(values.envFile); err != nil {
		return
	}
	config, err = configs.Load(values.config)
	if err != nil {
		return
	}
	if err = config.ApplyEnv(); err != nil {
		return
	}
	if flags.Changed("cn") {
		config.CommonName = values.commonName
	}
	if flags.Changed("organization") {
		config.Organization = values.organization
	}
	if flags.Changed("country") {
		config.Country = values.country
	}
	if flags.Changed("format") {
		config.Format = values.format
	}
	if flags.Changed("passphrase") {
		config.Passphrase = values.passphrase
	}
	if flags.Changed("passphrase-env") {
		passphrase, has := os.LookupEnv(values.passphraseEnv)
		if !has {
			err = errors.Join(certgen.ErrInvalidParameter, fmt.Errorf("environment variable %s is not set", values.passphraseEnv))
			return
		}
		config.Passphrase = passphrase
	}
	if flags.Changed("backdate-days") {
		config.BackdateDays = values.backdateDays
	}
	if flags.Changed("lifetime-days") {
		config.LifetimeDays = values.lifetimeDays
	}
	if flags.Changed("log-level") {
		config.LogLevel = values.logLevel
	}
	if flags.Changed("key-length") {
		if len(args) > 1 {
			err = errors.Join(certgen.ErrInvalidParameter, fmt.Errorf("key length is given twice, as --key-length and as argument %q", args[0]))
			return
		}
		config.KeyBits = values.keyLength
		if len(args) == 1 {
			config.Output = args[0]
		}
		return
	}
	if len(args) > 0 {
		bits, atoiErr := strconv.Atoi(strings.TrimSpace(args[0]))
		if atoiErr != nil {
			err = errors.Join(certgen.ErrInvalidParameter, fmt.Errorf("invalid key length %q, please provide a valid integer", args[0]))
			return
		}
		config.KeyBits = bits
	}
	if len(args) > 1 {
		config.Output = args[1]
	}
	return
}

func generate(config *configs.Generator, out io.Writer, logOut io.Writer) (err error) {
	options, optionsErr := config.Options()
	if optionsErr != nil {
		err = optionsErr
		return
	}
	if err = logger.SetLogLevel(config.LogLevel); err != nil {
		return
	}
	log := logger.NewWithWriter("certgen", logOut)
	options = append(options, certgen.WithLogger(log))

	ks, ksErr := certgen.GenerateKeystore(config.KeyBits, options...)
	if ksErr != nil {
		err = ksErr
		return
	}
	name := config.OutputName()
	if err = writeKeystore(name, ks.Data, log); err != nil {
		return
	}
	reporter{out: out}.success(ks, name)
	return
}
