package rsa

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// DefaultRounds is the number of Miller-Rabin rounds used for key generation.
// A composite passes with probability at most 4^-DefaultRounds.
const DefaultRounds = 40

// smallPrimes are the odd primes below 1000, used for trial division.
//
//nolint:gochecknoglobals
var smallPrimes = sieve(1000)

func sieve(limit int) []uint64 {
	composite := make([]bool, limit)
	primes := make([]uint64, 0, limit/4)

	for i := 3; i < limit; i += 2 {
		if composite[i] {
			continue
		}

		primes = append(primes, uint64(i))

		for j := i * i; j < limit; j += 2 * i {
			composite[j] = true
		}
	}

	return primes
}

// IsProbablePrime runs trial division by small primes, then the given number of
// Miller-Rabin rounds with bases drawn from crypto/rand. A prime is never rejected.
// The error is non-nil only if the entropy source fails.
func IsProbablePrime(n *big.Int, rounds int) (bool, error) {
	return isProbablePrime(rand.Reader, n, rounds)
}

func isProbablePrime(random io.Reader, n *big.Int, rounds int) (bool, error) {
	if n.Sign() <= 0 || n.Cmp(bigOne) == 0 {
		return false, nil
	}

	if n.Bit(0) == 0 {
		return n.BitLen() == 2, nil // 2 is the only even prime
	}

	if prime, decided := trialDivide(n); decided {
		return prime, nil
	}

	return millerRabin(random, n, rounds)
}

// trialDivide decides n outright when a small prime divides it or when n is small
// enough that having no small factor proves it prime.
func trialDivide(n *big.Int) (prime, decided bool) {
	largest := smallPrimes[len(smallPrimes)-1]

	if n.IsUint64() && n.Uint64() <= largest*largest {
		v := n.Uint64()

		for _, p := range smallPrimes {
			if p*p > v {
				return true, true
			}

			if v%p == 0 {
				return v == p, true
			}
		}

		return true, true
	}

	divisor, remainder := new(big.Int), new(big.Int)

	for _, p := range smallPrimes {
		if remainder.Mod(n, divisor.SetUint64(p)).Sign() == 0 {
			return false, true
		}
	}

	return false, false
}

// millerRabin tests an odd n > 3 against rounds random bases in [2, n-2].
func millerRabin(random io.Reader, n *big.Int, rounds int) (bool, error) {
	nMinus1 := new(big.Int).Sub(n, bigOne)

	// n-1 = d * 2^s with d odd
	s := nMinus1.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinus1, s)

	// bases are 2 + [0, n-3)
	span := new(big.Int).Sub(n, big.NewInt(3))
	two := big.NewInt(2)
	x := new(big.Int)

	for range rounds {
		a, err := rand.Int(random, span)
		if err != nil {
			return false, fmt.Errorf("drawing witness: %w", err)
		}

		a.Add(a, two)
		x.Exp(a, d, n)

		if x.Cmp(bigOne) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}

		witness := true

		for range s - 1 {
			x.Mul(x, x).Mod(x, n)

			if x.Cmp(nMinus1) == 0 {
				witness = false

				break
			}
		}

		if witness {
			return false, nil
		}
	}

	return true, nil
}
