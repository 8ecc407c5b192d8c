package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const resetTokenSize = 32

var codeLimit = big.NewInt(1_000_000)

// VerificationCode returns a zero padded 6 digit code
func VerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeLimit)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ResetToken returns 32 random bytes hex encoded
func ResetToken() (string, error) {
	b, err := genRandByt(resetTokenSize)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
