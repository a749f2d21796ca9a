package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	referralAlphabet        = "0123456789abcdefghijklmnopqrstuvwxyz"
	temporaryPasswordChars  = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	referralPrefixLength    = 4
	referralRandomLength    = 6
	minimumTemporaryPassLen = 8
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a uniformly distributed string drawn from alphabet
// using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

// ReferralCode builds an uppercase code from up to four alphanumeric
// characters of identifier, the base36 millisecond timestamp and six random
// characters.
func ReferralCode(identifier string, now time.Time) (string, error) {
	prefix := make([]rune, 0, referralPrefixLength)
	for _, char := range identifier {
		if len(prefix) == referralPrefixLength {
			break
		}
		if char < unicode.MaxASCII && (unicode.IsLetter(char) || unicode.IsDigit(char)) {
			prefix = append(prefix, char)
		}
	}

	random, err := RandomString(referralRandomLength, referralAlphabet)
	if err != nil {
		return "", err
	}
	timestamp := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToUpper(string(prefix) + timestamp + random), nil
}

func TemporaryPassword(length int) (string, error) {
	if length < minimumTemporaryPassLen {
		length = minimumTemporaryPassLen
	}
	return RandomString(length, temporaryPasswordChars)
}
