// Package xrpl provides XRP Ledger primitives used by the facade: classic
// address validation, amount handling, and transaction payload construction.
package xrpl

import (
	"bytes"
	"crypto/sha256"
	"math/big"
)

// alphabet is the ripple base58 dictionary. It differs from the bitcoin one,
// so generic base58 decoders do not apply.
const alphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// accountPrefix is the version byte for classic account addresses.
const accountPrefix = 0x00

var decodeMap [256]int8

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = int8(i)
	}
}

// IsValidClassicAddress reports whether s is a well-formed classic account
// address: base58 with the ripple alphabet, account version byte, a 20-byte
// account ID, and a valid 4-byte double-SHA256 checksum.
func IsValidClassicAddress(s string) bool {
	if len(s) < 25 || len(s) > 35 || s[0] != 'r' {
		return false
	}

	decoded, ok := decodeBase58(s)
	if !ok || len(decoded) != 25 {
		return false
	}
	if decoded[0] != accountPrefix {
		return false
	}

	first := sha256.Sum256(decoded[:21])
	second := sha256.Sum256(first[:])
	return bytes.Equal(second[:4], decoded[21:])
}

func decodeBase58(s string) ([]byte, bool) {
	n := new(big.Int)
	radix := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		d := decodeMap[s[i]]
		if d < 0 {
			return nil, false
		}
		n.Mul(n, radix)
		n.Add(n, big.NewInt(int64(d)))
	}

	decoded := n.Bytes()

	// Leading zero bytes are encoded as repeated first-alphabet characters.
	zeros := 0
	for zeros < len(s) && s[zeros] == alphabet[0] {
		zeros++
	}

	out := make([]byte, zeros+len(decoded))
	copy(out[zeros:], decoded)
	return out, true
}
