package logic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/dispatch"
	"github.com/idelchi/gocrypt/internal/encryption"
	"github.com/idelchi/gocrypt/internal/envelope"
	"github.com/idelchi/gocrypt/internal/fileutil"
	"github.com/idelchi/gocrypt/internal/rsa"
)

// encryptFile writes the envelope for filename to outPath, and its key file
// next to it unless an existing public key was supplied.
//
//nolint:funlen,cyclop
func (p *Processor) encryptFile(ctx context.Context, filename, outPath string) (res Result) {
	res = Result{Input: filename, Output: outPath}

	var err error

	defer func() { res.Err = err }()

	tc, err := fileutil.NewTempContext(filename, outPath)
	if err != nil {
		err = fmt.Errorf("preparing atomic write: %w", err)

		return res
	}

	defer tc.CleanupOnError(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		err = fmt.Errorf("opening input file: %w", err)

		return res
	}
	defer inFile.Close()

	writer := bufio.NewWriter(tc.TmpFile)
	header := envelope.Header{Cipher: p.cipher, Executable: tc.IsExec}

	var keyFile *envelope.KeyFile

	switch p.cipher.Algorithm {
	case dispatch.AES:
		keyFile, err = p.encryptAES(inFile, writer, header)
	default:
		keyFile, err = p.encryptRSA(ctx, inFile, writer, header)
	}

	if err != nil {
		err = fmt.Errorf("encrypting file: %w", err)

		return res
	}

	if err = writer.Flush(); err != nil {
		err = fmt.Errorf("writing output: %w", err)

		return res
	}

	if keyFile != nil {
		res.KeyPath = outPath + envelope.KeySuffix

		if err = keyFile.Write(res.KeyPath); err != nil {
			return res
		}
	}

	if err = tc.Commit(tc.IsExec); err != nil {
		if res.KeyPath != "" {
			os.Remove(res.KeyPath) //nolint:errcheck,gosec // best-effort cleanup
		}

		return res
	}

	res.InputSize = tc.SrcInfo.Size()

	res.OutputSize, err = fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, tc.SrcInfo.ModTime())
	if err != nil {
		err = fmt.Errorf("finalizing output: %w", err)
	}

	return res
}

// encryptAES encrypts under a fresh key and IV; GCM authenticates the header
// together with the caller's additional data and appends the tag.
func (p *Processor) encryptAES(reader io.Reader, writer io.Writer, header envelope.Header) (*envelope.KeyFile, error) {
	mode := header.Cipher.Mode

	aesKey, err := encryption.GenerateKey(header.Cipher.KeyBits)
	if err != nil {
		return nil, err
	}

	header.IV, err = encryption.GenerateIV(mode)
	if err != nil {
		return nil, err
	}

	raw, err := header.MarshalBinary()
	if err != nil {
		return nil, err
	}

	if _, err := writer.Write(raw); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	var aad []byte
	if mode == encryption.ModeGCM {
		aad = envelope.AdditionalData(raw, p.aad)
	}

	processor, err := encryption.NewProcessor(mode, aesKey, header.IV, aad)
	if err != nil {
		return nil, err
	}

	tag, err := processor.Encrypt(reader, writer)
	if err != nil {
		return nil, err
	}

	if _, err := writer.Write(tag); err != nil {
		return nil, fmt.Errorf("writing authentication tag: %w", err)
	}

	return envelope.NewAESKeyFile(header.Cipher, aesKey), nil
}

// encryptRSA encrypts under the supplied public key, or under a fresh keypair
// that is returned as the key file.
func (p *Processor) encryptRSA(
	ctx context.Context,
	reader io.Reader,
	writer io.Writer,
	header envelope.Header,
) (*envelope.KeyFile, error) {
	var keyFile *envelope.KeyFile

	pub := p.publicKey
	if pub == nil {
		priv, err := dispatch.RSAGenerateKeypair(ctx, header.Cipher.KeyBits)
		if err != nil {
			return nil, fmt.Errorf("generating keypair: %w", err)
		}

		if keyFile, err = envelope.NewRSAKeyFile(priv); err != nil {
			return nil, err
		}

		pub = priv.Public()
	}

	// The header records the block size k in bits, which is also even for
	// supplied keys whose modulus has an odd bit length.
	header.Cipher.KeyBits = pub.Size() * 8 //nolint:mnd

	raw, err := header.MarshalBinary()
	if err != nil {
		return nil, err
	}

	if _, err := writer.Write(raw); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	if err := rsa.EncryptStream(nil, pub, reader, writer); err != nil {
		return nil, err
	}

	return keyFile, nil
}

// decryptFile reads the envelope at filename and writes the plaintext to outPath.
// Nothing is left at outPath unless decryption and verification succeed.
//
//nolint:funlen
func (p *Processor) decryptFile(filename, outPath string) (res Result) {
	res = Result{Input: filename, Output: outPath}

	var err error

	defer func() { res.Err = err }()

	tc, err := fileutil.NewTempContext(filename, outPath)
	if err != nil {
		err = fmt.Errorf("preparing atomic write: %w", err)

		return res
	}

	defer tc.CleanupOnError(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		err = fmt.Errorf("opening input file: %w", err)

		return res
	}
	defer inFile.Close()

	header, raw, err := envelope.ReadHeader(inFile)
	if err != nil {
		return res
	}

	keyFile, keyPath, err := p.keyFor(filename, header)
	if err != nil {
		return res
	}

	writer := bufio.NewWriter(tc.TmpFile)

	switch header.Cipher.Algorithm {
	case dispatch.AES:
		err = p.decryptAES(inFile, tc.SrcInfo.Size(), writer, header, raw, keyFile)
	default:
		err = p.decryptRSA(inFile, writer, keyFile)
	}

	if err != nil {
		err = fmt.Errorf("decrypting file: %w", err)

		return res
	}

	if err = writer.Flush(); err != nil {
		err = fmt.Errorf("writing output: %w", err)

		return res
	}

	if err = tc.Commit(header.Executable); err != nil {
		return res
	}

	res.KeyPath = keyPath
	res.InputSize = tc.SrcInfo.Size()

	res.OutputSize, err = fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, tc.SrcInfo.ModTime())
	if err != nil {
		err = fmt.Errorf("finalizing output: %w", err)
	}

	return res
}

// keyFor returns the key given on the command line, or else the key file next to filename.
// The returned path is that of the key file read, empty for a command-line key.
func (p *Processor) keyFor(filename string, header envelope.Header) (*envelope.KeyFile, string, error) {
	keyFile, keyPath := p.keyFile, ""

	if keyFile == nil {
		keyPath = filename + envelope.KeySuffix

		var err error

		if keyFile, err = envelope.ReadKeyFile(keyPath); err != nil {
			return nil, "", fmt.Errorf("no --key or --key-file given: %w", err)
		}
	}

	if keyFile.Algorithm != header.Cipher.Algorithm {
		return nil, "", fmt.Errorf("%w: file was encrypted with %s, key is for %s",
			cryptoerr.ErrConfiguration, header.Cipher.Algorithm, keyFile.Algorithm)
	}

	return keyFile, keyPath, nil
}

// decryptAES decrypts the payload that follows the header. For GCM the trailing
// tag is read first, so the tag check completes with the last payload block.
func (p *Processor) decryptAES(
	file io.ReaderAt,
	size int64,
	writer io.Writer,
	header envelope.Header,
	raw []byte,
	keyFile *envelope.KeyFile,
) error {
	aesKey, err := keyFile.AESKey()
	if err != nil {
		return err
	}

	if len(aesKey)*8 != header.Cipher.KeyBits {
		return fmt.Errorf("%w: file needs a %d-bit key, got %d bits",
			cryptoerr.ErrConfiguration, header.Cipher.KeyBits, len(aesKey)*8) //nolint:mnd
	}

	mode := header.Cipher.Mode
	payload := size - int64(header.Size())

	var tag, aad []byte

	if mode == encryption.ModeGCM {
		payload -= encryption.TagSize
		if payload < 0 {
			return fmt.Errorf("%w: missing authentication tag", envelope.ErrFormat)
		}

		tag = make([]byte, encryption.TagSize)
		if _, err := file.ReadAt(tag, size-encryption.TagSize); err != nil {
			return fmt.Errorf("reading authentication tag: %w", err)
		}

		aad = envelope.AdditionalData(raw, p.aad)
	}

	processor, err := encryption.NewProcessor(mode, aesKey, header.IV, aad)
	if err != nil {
		return err
	}

	return processor.Decrypt(io.NewSectionReader(file, int64(header.Size()), payload), writer, tag)
}

func (p *Processor) decryptRSA(reader io.Reader, writer io.Writer, keyFile *envelope.KeyFile) error {
	priv, err := keyFile.RSAKey()
	if err != nil {
		return err
	}

	return rsa.DecryptStream(nil, priv, bufio.NewReader(reader), writer)
}
