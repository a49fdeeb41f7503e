package courier

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// NumericOrderRef derives the numeric order reference the courier API
// requires: strip non-digits from the order id and keep the last 10 digits.
// Ids with no digits at all get a synthesized random numeric reference.
func NumericOrderRef(orderID string) string {
	var digits strings.Builder
	for _, r := range orderID {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	ref := digits.String()
	if ref == "" {
		return fmt.Sprintf("%010d", rand.Int63n(1e10))
	}
	if len(ref) > 10 {
		ref = ref[len(ref)-10:]
	}
	return ref
}

// DigitsOnly strips everything but digits from a phone number.
func DigitsOnly(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
