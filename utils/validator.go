// utils/validator.go - Input format validation
package utils

import (
	"regexp"
	"strings"
)

// PhonePattern matches exactly 10 decimal digits.
const PhonePattern = `^[0-9]{10}$`

// AadharPattern matches exactly 12 decimal digits.
const AadharPattern = `^[0-9]{12}$`

// EmailPattern matches a basic local@domain.tld shape.
const EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

var (
	phoneRegex  = regexp.MustCompile(PhonePattern)
	aadharRegex = regexp.MustCompile(AadharPattern)
	emailRegex  = regexp.MustCompile(EmailPattern)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone checks for a 10-digit phone number
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidateAadhar checks for a 12-digit national id number
func ValidateAadhar(aadhar string) bool {
	return aadharRegex.MatchString(aadhar)
}

// IsImageMime reports whether a declared content type is an image type.
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
