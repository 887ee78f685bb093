package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gocrypt/internal/config"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Long: `Decrypt files written by encrypt.

The cipher is read from each file's header. The key comes from --key,
--key-file, or else the <file>.key written next to it.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg)(cmd, args)
		},
		RunE: run(cfg),
	}

	cmd.Flags().StringP("key", "k", "", "AES key, hex-encoded")

	return cmd
}
