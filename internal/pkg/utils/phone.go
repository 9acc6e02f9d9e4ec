package utils

import (
	"fmt"
	"regexp"
	"strings"

	"dococlock-service/internal/pkg/constvars"
)

var (
	reDigitsOnly   = regexp.MustCompile(constvars.RegexNumeric)
	phoneSeparator = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// NormalizeZambianPhone converts local (0971234567), bare (971234567) and country coded
// (+260 97 123 4567) forms into the 12 digit country coded form 260971234567.
func NormalizeZambianPhone(input string) (string, error) {
	s := phoneSeparator.Replace(strings.TrimSpace(input))
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return "", fmt.Errorf("phone is required")
	}
	if !reDigitsOnly.MatchString(s) {
		return "", fmt.Errorf("phone must contain digits only")
	}

	switch {
	case len(s) == 12 && strings.HasPrefix(s, constvars.ZambiaCountryCode):
	case len(s) == 10 && strings.HasPrefix(s, "0"):
		s = constvars.ZambiaCountryCode + s[1:]
	case len(s) == 9:
		s = constvars.ZambiaCountryCode + s
	default:
		return "", fmt.Errorf("phone must be a 9 digit national number with an optional 0 or 260 prefix")
	}

	if s[3] != '7' && s[3] != '9' {
		return "", fmt.Errorf("phone must be a mobile number")
	}
	return s, nil
}

// LocalPrefix returns the three digit network prefix (e.g. "097") of a normalized number.
func LocalPrefix(normalizedPhone string) string {
	if len(normalizedPhone) < 5 {
		return ""
	}
	return "0" + normalizedPhone[3:5]
}
