package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const otpCodeLength = 8

// GenerateOTPCode returns a random fixed-length numeric code for the
// password recovery flow.
func GenerateOTPCode() (string, error) {
	digits := make([]byte, otpCodeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{7,15}$`)
	otpCodePattern = regexp.MustCompile(`^[0-9]{8}$`)
)

// ValidPhoneNumber reports whether s is an acceptable phone identifier:
// digits only, 7 to 15 of them. Anything looser must not be guessed into
// a phone number.
func ValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

func ValidOTPCode(s string) bool {
	return otpCodePattern.MatchString(s)
}
