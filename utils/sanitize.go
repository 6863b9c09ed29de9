package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks while keeping basic markup.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// StripTags removes all markup from plain-text fields such as titles and alt text.
func StripTags(input string) string {
	return stripper.Sanitize(input)
}
