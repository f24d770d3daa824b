package account

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theplant/luhn"
)

var errInvalidNumber = errors.New("account number is not valid")

// normalizeNumber strips spaces and dashes and checks that only digits
// remain.
func normalizeNumber(raw string) (string, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if digits == "" {
		return ``, errInvalidNumber
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ``, errInvalidNumber
		}
	}
	return digits, nil
}

// checkCardNumber validates a card number with the Luhn algorithm.
func checkCardNumber(digits string) error {
	if len(digits) < 12 || len(digits) > 19 {
		return errInvalidNumber
	}
	// Nineteen digits can overflow int. The leading digit sits at an
	// undoubled position, as the check digit does, so adding it to the check
	// digit mod 10 keeps the checksum and leaves eighteen digits.
	if len(digits) == 19 {
		lead := int(digits[0] - '0')
		check := (int(digits[18]-'0') + lead) % 10
		digits = digits[1:18] + strconv.Itoa(check)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return errInvalidNumber
	}
	if !luhn.Valid(n) {
		return errInvalidNumber
	}
	return nil
}

// maskNumber keeps the last four digits.
func maskNumber(digits string) string {
	if len(digits) <= 4 {
		return "**** " + digits
	}
	return "**** " + digits[len(digits)-4:]
}
