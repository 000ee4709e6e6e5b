package domain

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeTLD turns user input like "COM", ".io" or an IDN suffix into the
// canonical lowercase form with a leading dot used as a store key.
func NormalizeTLD(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.TrimPrefix(s, ".")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", fmt.Errorf("empty TLD")
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("idna: %w", err)
	}

	for _, label := range strings.Split(ascii, ".") {
		if !isValidLabel(label) {
			return "", fmt.Errorf("invalid TLD: %q", input)
		}
	}
	return "." + ascii, nil
}

// NormalizeSuffix validates a label suffix appended before the TLD
// (e.g. "-app"). An empty suffix is valid and means "no suffix".
func NormalizeSuffix(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", nil
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return "", fmt.Errorf("invalid suffix: %q", input)
	}
	if s[len(s)-1] == '-' {
		return "", fmt.Errorf("suffix must not end with a hyphen: %q", input)
	}
	return s, nil
}

func isValidLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return false
	}
	return true
}
