// Package normalize canonicalizes raw entity identifiers into the keys used for node identity.
//
// Every function here is total: noisy field data never produces an error, it produces the
// best-effort key instead.
package normalize

import (
	"strings"
	"unicode"
)

// CountryCode is the calling code assumed for national numbers.
const CountryCode = "91"

// nationalLength is the digit count of a national subscriber number.
const nationalLength = 10

// Phone converts a raw phone number to E.164 form.
//
//	"98765 43210"    -> "+919876543210"
//	"919876543210"   -> "+919876543210"
//	"+919876543210"  -> "+919876543210"
//	"0091-98765-43210" -> "+919876543210" (last 10 digits)
func Phone(raw string) string {
	digits := digitsOnly(raw)

	switch {
	case len(digits) == nationalLength:
		return "+" + CountryCode + digits
	case len(digits) == nationalLength+len(CountryCode) && strings.HasPrefix(digits, CountryCode):
		return "+" + digits
	}

	// lossy fallback: keep the trailing subscriber digits
	if len(digits) > nationalLength {
		digits = digits[len(digits)-nationalLength:]
	}
	return "+" + CountryCode + digits
}

// Account normalizes a bank account number.
func Account(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// DeviceID normalizes a device identifier.
func DeviceID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IP normalizes an IP address. No format validation is applied.
func IP(raw string) string {
	return strings.TrimSpace(raw)
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
