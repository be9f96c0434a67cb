package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// strict strips every tag; used for single-line profile fields.
var strict = bluemonday.StrictPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizePlain strips all markup and surrounding whitespace.
func SanitizePlain(input string) string {
	return strings.TrimSpace(strict.Sanitize(input))
}
