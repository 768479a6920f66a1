package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/growthpods/growthpods/internal/common"
)

const resetTokenBytes = 32

// GenerateResetToken returns a random 64-character hex token for the mail
// and the hash to persist in its place.
func GenerateResetToken() (token, hash string, err error) {
	token, err = common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return "", "", err
	}
	return token, HashResetToken(token), nil
}

// HashResetToken is the lookup key of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
