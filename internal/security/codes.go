package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	codeEntropyBytes = 16
	codeDigits       = 8
)

var codeModulus = big.NewInt(100_000_000)

// NewVerificationCode returns an 8 digit, zero padded code derived from a
// 128-bit CSPRNG value.
func NewVerificationCode() (string, error) {
	buf := make([]byte, codeEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read code entropy: %w", err)
	}
	n := new(big.Int).SetBytes(buf)
	n.Mod(n, codeModulus)
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

func NewSessionToken() string {
	return uuid.NewString()
}
