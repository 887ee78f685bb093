package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gocrypt/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "gocrypt [flags] command [flags]"
	root.Short = "File encryption utility"
	root.Long = `A file encryption utility built on its own AES (ECB, CBC, GCM) and RSA-OAEP implementations.
Every file is encrypted under a freshly generated key, written next to it as <file>.enc.key.
Provides commands for key generation, encryption, and decryption.`

	flags := root.PersistentFlags()

	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	flags.Bool("stats", false, "Print a summary of sizes, duration and throughput")
	flags.Bool("preserve-timestamps", false, "Give outputs the modification time of their inputs")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")

	flags.String("aad", "", "Additional authenticated data for AES-GCM, required again to decrypt")
	flags.StringP("key-file", "f", "",
		"Key file: an RSA public key to encrypt with, or the key to decrypt with instead of <file>.key")

	flags.String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg), NewKeygenCommand())

	return root
}
