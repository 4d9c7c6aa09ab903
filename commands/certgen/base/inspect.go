package base

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aacfactory/certgen"
)

func newInspectCommand(out io.Writer) *cobra.Command {
	var passphrase string
	cmd := &cobra.Command{
		Use:           "inspect <file>",
		Short:         "Print the certificate stored in a keystore",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			data, readErr := os.ReadFile(args[0])
			if readErr != nil {
				err = fmt.Errorf("certgen: inspect failed, %v", readErr)
				return
			}
			content, decodeErr := certgen.DecodeKeystore(data, passphrase)
			if decodeErr != nil {
				err = decodeErr
				return
			}
			err = reporter{out: out}.inspect(content)
			return
		},
	}
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "keystore passphrase")
	return cmd
}
