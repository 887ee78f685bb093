// Package logic implements the file encryption and decryption commands.
package logic

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/gocrypt/internal/config"
	"github.com/idelchi/gocrypt/internal/dispatch"
	"github.com/idelchi/gocrypt/internal/envelope"
	"github.com/idelchi/gocrypt/internal/rsa"
)

// Processor encrypts or decrypts the configured files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// log receives per-file details
	log *logrus.Logger

	// cipher is the encryption selected by the flags
	cipher dispatch.Config

	// publicKey encrypts every file when set, instead of a fresh keypair per file
	publicKey *rsa.PublicKey

	// keyFile decrypts every file when set, instead of each file's own key file
	keyFile *envelope.KeyFile

	// aad is the caller's GCM additional data
	aad []byte
}

// Result is the outcome of processing one file.
type Result struct {
	Input      string
	Output     string
	KeyPath    string
	InputSize  int64
	OutputSize int64
	Err        error
}

// Stats summarizes a run.
type Stats struct {
	Processed  int
	Errored    int
	InputSize  int64
	OutputSize int64
	Duration   time.Duration
}

// NewProcessor resolves the key material the configuration names.
func NewProcessor(cfg *config.Config, log *logrus.Logger) (*Processor, error) {
	processor := &Processor{cfg: cfg, log: log, aad: []byte(cfg.AAD)}

	if cfg.Decrypt {
		switch {
		case cfg.Key != "":
			raw, err := key.FromHex(cfg.Key)
			if err != nil {
				return nil, fmt.Errorf("reading key: %w", err)
			}

			processor.keyFile = &envelope.KeyFile{
				Algorithm: dispatch.AES,
				Bits:      len(raw) * 8, //nolint:mnd
				Key:       hex.EncodeToString(raw),
			}
		case cfg.KeyFile != "":
			keyFile, err := envelope.ReadKeyFile(cfg.KeyFile)
			if err != nil {
				return nil, err
			}

			processor.keyFile = keyFile
		}

		return processor, nil
	}

	cipher, err := cfg.Cipher()
	if err != nil {
		return nil, err
	}

	processor.cipher = cipher

	if cfg.KeyFile != "" {
		pub, err := envelope.ReadPublicKey(cfg.KeyFile)
		if err != nil {
			return nil, err
		}

		processor.publicKey = pub
	}

	return processor, nil
}

// Run processes all files and prints a summary if requested.
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	proc, err := NewProcessor(cfg, log)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	stats, err := proc.ProcessFiles(ctx)

	if cfg.Stats {
		printStats(stats)
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// ProcessFiles concurrently processes all configured files. A single printer
// goroutine consumes the results, so output lines never interleave.
//
//nolint:cyclop,gocognit // parallel processing pipeline with printer goroutine
func (p *Processor) ProcessFiles(ctx context.Context) (Stats, error) {
	start := time.Now()
	results := make(chan Result, len(p.cfg.Files))

	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	printed := make(chan struct{})

	var stats Stats

	go func() {
		defer close(printed)

		for res := range results {
			if res.Err != nil {
				stats.Errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", res.Input, res.Err)

				continue
			}

			stats.Processed++
			stats.InputSize += res.InputSize
			stats.OutputSize += res.OutputSize

			if !p.cfg.Quiet {
				fmt.Printf("Processed %q -> %q\n", res.Input, res.Output) //nolint:forbidigo

				if !p.cfg.Decrypt && res.KeyPath != "" {
					fmt.Printf("Key written to %q\n", res.KeyPath) //nolint:forbidigo
				}
			}

			if p.cfg.Delete {
				p.deleteInputs(res)
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results <- Result{Input: file, Err: err}

				return err
			}

			res := p.processFile(ctx, file)
			results <- res

			return res.Err
		})
	}

	err := group.Wait()

	close(results)

	<-printed

	stats.Duration = time.Since(start)

	if err != nil {
		return stats, fmt.Errorf("processing files: %w", err)
	}

	return stats, nil
}

// processFile encrypts or decrypts one file and logs how it went.
func (p *Processor) processFile(ctx context.Context, filename string) Result {
	start := time.Now()
	outPath := p.outputPath(filename)

	var res Result

	if p.cfg.Decrypt {
		res = p.decryptFile(filename, outPath)
	} else {
		res = p.encryptFile(ctx, filename, outPath)
	}

	entry := p.log.WithFields(logrus.Fields{
		"file":     filename,
		"duration": time.Since(start).Round(time.Microsecond),
	})

	if res.Err != nil {
		entry.WithError(res.Err).Debug("failed")
	} else {
		entry.WithField("output", res.Output).Debug("done")
	}

	return res
}

// deleteInputs removes a successfully processed file and, after decryption, its key file.
func (p *Processor) deleteInputs(res Result) {
	paths := []string{res.Input}
	if p.cfg.Decrypt && res.KeyPath != "" {
		paths = append(paths, res.KeyPath)
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", path, err)
		} else if !p.cfg.Quiet {
			fmt.Printf("Deleted %q\n", path) //nolint:forbidigo
		}
	}
}

// outputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.Suffixes.Encrypt

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.Suffixes.Encrypt)
		ext = p.cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

func printStats(stats Stats) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Processed:  %d\n", stats.Processed)
	fmt.Fprintf(os.Stderr, "  Errors:     %d\n", stats.Errored)
	//nolint:gosec // sizes are sums of file sizes
	fmt.Fprintf(os.Stderr, "  Input:      %s\n", humanize.IBytes(uint64(max(0, stats.InputSize))))
	//nolint:gosec // sizes are sums of file sizes
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", humanize.IBytes(uint64(max(0, stats.OutputSize))))
	fmt.Fprintf(os.Stderr, "  Duration:   %s\n", stats.Duration.Round(time.Millisecond))

	if seconds := stats.Duration.Seconds(); seconds > 0 {
		//nolint:gosec // non-negative
		fmt.Fprintf(os.Stderr, "  Throughput: %s/s\n", humanize.IBytes(uint64(float64(max(0, stats.InputSize))/seconds)))
	}
}
