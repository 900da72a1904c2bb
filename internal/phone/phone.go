package phone

import (
	"fmt"
	"regexp"
	"strings"
)

// CountryCode is the Cameroon dialing code every MSISDN is normalized to.
const CountryCode = "237"

var nonDigits = regexp.MustCompile(`[^\d]`)

// Two-digit carrier prefixes assigned to MTN Cameroon. 69 and 655-659 belong
// to Orange and are rejected.
var mtnPrefixes = map[string]bool{
	"65": true,
	"67": true,
	"68": true,
}

// Normalize rewrites a national mobile number into international MSISDN form:
// strips non-digits, drops the leading trunk 0, prefixes 237 if absent.
func Normalize(raw string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(raw, "")
	if cleaned == "" {
		return "", fmt.Errorf("phone number contains no digits")
	}

	if strings.HasPrefix(cleaned, "0") {
		cleaned = cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, CountryCode) {
		cleaned = CountryCode + cleaned
	}

	if len(cleaned) < 9 {
		return "", fmt.Errorf("phone number too short: expected at least 9 digits, got %d", len(cleaned))
	}

	return cleaned, nil
}

// Validate normalizes raw and checks the subscriber part against the MTN
// carrier prefixes. It returns the MSISDN or a human-readable reason.
func Validate(raw string) (string, error) {
	msisdn, err := Normalize(raw)
	if err != nil {
		return "", err
	}

	subscriber := strings.TrimPrefix(msisdn, CountryCode)
	subscriber = strings.TrimPrefix(subscriber, "0")
	if len(subscriber) < 2 {
		return "", fmt.Errorf("phone number too short after country code")
	}

	prefix := subscriber[:2]
	if !mtnPrefixes[prefix] {
		return "", fmt.Errorf("prefix %s is not an MTN Cameroon number", prefix)
	}

	return msisdn, nil
}
