package whatsapp

import "strings"

// countryCode is the Brazilian calling code. The storefront targets a single
// region; the prefix is not configurable.
const countryCode = "55"

// NormalizePhone reduces a store phone number to the digit string WhatsApp
// deep links expect: non-digits stripped, a single leading zero dropped, and
// the country code prepended unless already present.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, countryCode) {
		return digits
	}
	digits = strings.TrimPrefix(digits, "0")
	return countryCode + digits
}
