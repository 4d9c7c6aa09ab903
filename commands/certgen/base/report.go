package base

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/aacfactory/certgen"
)

type reporter struct {
	out io.Writer
}

func (r reporter) success(ks *certgen.Keystore, name string) {
	pterm.Fprintln(r.out)
	pterm.Success.WithWriter(r.out).Println("Certificate generated successfully!")
	pterm.Fprintln(r.out)
	pterm.Fprintln(r.out, fmt.Sprintf("RSA key length: %d bits", ks.KeyBits))
	pterm.Fprintln(r.out, fmt.Sprintf("Saved as: %s", name))
	if !ks.Protected {
		pterm.Warning.WithWriter(r.out).Println("The private key in this keystore is not protected by a passphrase.")
	}
}

func (r reporter) inspect(content *certgen.KeystoreContent) (err error) {
	cert := content.Certificate
	data := pterm.TableData{
		{"Field", "Value"},
		{"Subject", displayName(cert.Subject.String())},
		{"Issuer", displayName(cert.Issuer.String())},
		{"Serial", cert.SerialNumber.Text(16)},
		{"Not before", cert.NotBefore.UTC().Format(time.RFC3339)},
		{"Not after", cert.NotAfter.UTC().Format(time.RFC3339)},
		{"RSA key length", strconv.Itoa(content.PrivateKey.N.BitLen()) + " bits"},
		{"CA", strconv.FormatBool(cert.IsCA)},
		{"Signature algorithm", cert.SignatureAlgorithm.String()},
		{"Subject key id", hex.EncodeToString(cert.SubjectKeyId)},
	}
	err = pterm.DefaultTable.WithHasHeader().WithWriter(r.out).WithData(data).Render()
	return
}

// ReportFailure prints err the way the generator reports every failed run.
func ReportFailure(out io.Writer, err error) {
	pterm.Fprintln(out)
	pterm.Error.WithWriter(out).Println(err.Error())
}

func displayName(v string) string {
	if v == "" {
		return "CN="
	}
	return v
}
