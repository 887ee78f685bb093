// Package commands provides the command-line interface for the gocrypt tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - key generation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
