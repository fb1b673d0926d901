package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
)

// CodeDigits is the length of a one-time code.
const CodeDigits = 6

// GenerateCode generates a CodeDigits long numeric one-time code.
func GenerateCode() (string, error) {
	return GenerateNumeric(CodeDigits)
}

// GenerateNumeric generates a uniformly distributed string of digits.
// Leading zeros are kept.
func GenerateNumeric(digits int) (string, error) {
	if digits <= 0 {
		return "", errors.New("token: digits must be positive")
	}

	var sb strings.Builder
	sb.Grow(digits)
	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// GenerateHex generates length random bytes and returns them upper-case hex
// encoded (2*length characters).
func GenerateHex(length int) (string, error) {
	b, err := GenerateBytes(length)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// GenerateBytes generates random bytes.
func GenerateBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	return bytes, nil
}
