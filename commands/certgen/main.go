package main

import (
	"os"

	"github.com/aacfactory/certgen/commands/certgen/base"
)

// main
// certgen [key_length] [cert_name] --cn={CN} --format={legacy,modern,passwordless} --passphrase={passphrase}
func main() {
	err := base.Generate(os.Args[1:])
	if err != nil {
		base.ReportFailure(os.Stdout, err)
		os.Exit(1)
	}
}
