package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	caseNumberRegex = regexp.MustCompile(`^[A-Z]{2,5}-\d{4}-\d{1,6}$`)
	controlChars    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateCaseNumber validates a police case number (e.g. CAN-2026-0042)
func ValidateCaseNumber(caseNumber string) error {
	if !caseNumberRegex.MatchString(caseNumber) {
		return fmt.Errorf("invalid case number format: %s", caseNumber)
	}
	return nil
}

// SanitizeString removes control characters from free-text input
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
