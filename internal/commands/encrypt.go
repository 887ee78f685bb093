package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gocrypt/internal/config"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Long: `Encrypt files, each under a fresh key.

AES writes the key to <file>.enc.key. RSA generates a keypair per file and
writes it there too, unless --key-file names an existing public key.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE:    run(cfg),
	}

	cmd.Flags().StringP("algorithm", "a", "aes", "Cipher: aes or rsa")
	cmd.Flags().IntP("bits", "b", 0, "Key size: 128, 192 or 256 for AES (default 256), modulus size for RSA (default 2048)")
	cmd.Flags().StringP("mode", "m", "", "AES mode: ecb, cbc or gcm (default gcm)")

	return cmd
}
