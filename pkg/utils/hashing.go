package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, plainPassword string) error {

	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))

}

func generateDigits(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid code length")
	}

	const digits = "0123456789"
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}

	return string(code), nil
}

// GenerateRefCode returns a referral code such as VT-0381726.
func GenerateRefCode() (string, error) {
	digits, err := generateDigits(7)
	if err != nil {
		return "", err
	}
	return "VT-" + digits, nil
}

// GenerateMembershipCode returns a card code such as VT-9F1C02AB.
func GenerateMembershipCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "VT-" + strings.ToUpper(hex[:8])
}
