package rsa

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

// GeneratePrime returns a random probable prime of exactly bits bits.
// Candidates have their top two bits and lowest bit set, so the product of
// two such primes has exactly twice as many bits. ctx is checked between candidates.
func GeneratePrime(ctx context.Context, bits int) (*big.Int, error) {
	return generatePrime(ctx, rand.Reader, bits)
}

func generatePrime(ctx context.Context, random io.Reader, bits int) (*big.Int, error) {
	if bits < 3 {
		return nil, fmt.Errorf("%w: prime size must be at least 3 bits, got %d", cryptoerr.ErrConfiguration, bits)
	}

	buf := make([]byte, (bits+7)/8)
	excess := uint(len(buf)*8 - bits)
	candidate := new(big.Int)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generating prime: %w", err)
		}

		if _, err := io.ReadFull(random, buf); err != nil {
			return nil, fmt.Errorf("reading random candidate: %w", err)
		}

		buf[0] &= 0xFF >> excess

		// top two bits
		if excess <= 6 {
			buf[0] |= 0xC0 >> excess
		} else {
			buf[0] |= 0x01
			buf[1] |= 0x80
		}

		buf[len(buf)-1] |= 0x01

		candidate.SetBytes(buf)

		prime, err := isProbablePrime(random, candidate, DefaultRounds)
		if err != nil {
			return nil, err
		}

		if prime {
			return new(big.Int).Set(candidate), nil
		}
	}
}

// GenerateKey returns a keypair with a modulus of exactly bits bits and e = 65537.
// The two primes are searched for concurrently; the search stops when ctx is done.
func GenerateKey(ctx context.Context, bits int) (*PrivateKey, error) {
	if bits < MinKeyBits || bits%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrKeyBits, bits)
	}

	e := big.NewInt(PublicExponent)

	for {
		var p, q *big.Int

		group, groupCtx := errgroup.WithContext(ctx)

		group.Go(func() (err error) {
			p, err = GeneratePrime(groupCtx, bits/2)

			return err
		})

		group.Go(func() (err error) {
			q, err = GeneratePrime(groupCtx, bits/2)

			return err
		})

		if err := group.Wait(); err != nil {
			return nil, err
		}

		if p.Cmp(q) == 0 {
			continue
		}

		phi := new(big.Int).Mul(new(big.Int).Sub(p, bigOne), new(big.Int).Sub(q, bigOne))

		d := new(big.Int).ModInverse(e, phi)
		if d == nil {
			// gcd(e, phi) != 1
			continue
		}

		n := new(big.Int).Mul(p, q)
		if n.BitLen() != bits {
			continue
		}

		return &PrivateKey{
			PublicKey: PublicKey{N: n, E: PublicExponent},
			D:         d,
			Primes:    []*big.Int{p, q},
		}, nil
	}
}
