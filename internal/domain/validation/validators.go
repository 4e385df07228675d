// internal/domain/validation/validators.go
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Patterns for registrant personal data. They are deployment constants.
var (
	nationalIDPattern = regexp.MustCompile(`^[A-Z][12]\d{8}$`)
	phonePattern      = regexp.MustCompile(`^09\d{8}$`)
	// emailPattern is a liveness check, not RFC 5322 validation
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	localDatePattern = regexp.MustCompile(`^(0[0-9]{2}|1[0-1][0-9])/(0[1-9]|1[0-2])/(0[1-9]|[12][0-9]|3[01])$`)
)

// EraOffset converts a local-calendar year to the Gregorian year.
const EraOffset = 1911

// letterCodes maps the leading letter of a national ID to its two-digit code.
// I, O, W, X, Y and Z are out of alphabetical sequence.
var letterCodes = map[byte]int{
	'A': 10, 'B': 11, 'C': 12, 'D': 13, 'E': 14, 'F': 15, 'G': 16, 'H': 17,
	'I': 34, 'J': 18, 'K': 19, 'L': 20, 'M': 21, 'N': 22, 'O': 35, 'P': 23,
	'Q': 24, 'R': 25, 'S': 26, 'T': 27, 'U': 28, 'V': 29, 'W': 32, 'X': 30,
	'Y': 31, 'Z': 33,
}

var checksumWeights = [11]int{1, 9, 8, 7, 6, 5, 4, 3, 2, 1, 1}

// ValidateNationalID checks the format and the weighted checksum of a national ID.
func ValidateNationalID(id string) bool {
	if !nationalIDPattern.MatchString(id) {
		return false
	}

	code := letterCodes[id[0]]
	digits := [11]int{code / 10, code % 10}
	for i := 1; i < len(id); i++ {
		digits[i+1] = int(id[i] - '0')
	}

	sum := 0
	for i, d := range digits {
		sum += d * checksumWeights[i]
	}
	return sum%10 == 0
}

// ValidatePhone checks for a 10-digit mobile number starting with 09.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateEmail performs a basic shape check of an email address.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateLocalDate checks a YYY/MM/DD local-calendar date and rejects
// dates that do not exist in the Gregorian calendar (e.g. 112/02/29).
func ValidateLocalDate(date string) bool {
	if !localDatePattern.MatchString(date) {
		return false
	}

	_, ok := ParseLocalDate(date)
	return ok
}

// ParseLocalDate converts a YYY/MM/DD local-calendar date to a Gregorian date.
func ParseLocalDate(date string) (time.Time, bool) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}
	year += EraOffset

	// time.Date normalizes overflowing days, so a round trip exposes invalid dates
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
