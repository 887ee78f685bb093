package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/idelchi/gocrypt/internal/logic"
)

// NewKeygenCommand creates a new cobra command for the keygen subcommand.
func NewKeygenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keygen [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate a key",
		Long: `Generate a key: a hex AES key, or an RSA keypair as JSON.

The RSA keypair can decrypt with --key-file, and its public half
(--public) can encrypt with --key-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}

			log, err := logger(v.GetString("log-level"))
			if err != nil {
				return err
			}

			opts := logic.KeygenOptions{
				Algorithm: v.GetString("algorithm"),
				Bits:      v.GetInt("bits"),
				Output:    v.GetString("output"),
				Public:    v.GetString("public"),
			}

			return logic.Keygen(cmd.Context(), opts, os.Stdout, log)
		},
	}

	cmd.Flags().StringP("algorithm", "a", "rsa", "Key type: aes or rsa")
	cmd.Flags().IntP("bits", "b", 0, "Key size (default 256 for AES, 2048 for RSA)")
	cmd.Flags().StringP("output", "o", "", "Write the key to this file (mode 0600) instead of stdout")
	cmd.Flags().String("public", "", "Also write the RSA public key to this file")

	return cmd
}
