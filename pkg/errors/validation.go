package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPageIDLength bounds page identifiers used in storage keys and URLs.
const maxPageIDLength = 128

// pageIDRegex matches page identifiers safe for cache keys and URL paths.
var pageIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePageID validates a page identifier before it is used as a storage key.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - Letters, digits, dot, dash and underscore only
//   - No path traversal sequences (..)
func ValidatePageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "page id cannot be empty")
	}
	if len(id) > maxPageIDLength {
		return New(ErrCodeInvalidInput, "page id too long (max %d characters)", maxPageIDLength)
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "page id cannot contain path traversal sequences (..)")
	}
	if !pageIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid page id: %q", id)
	}
	return nil
}

// ValidateNodeID validates a component node identifier.
// Node ids are opaque, but must be non-empty and free of control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "node id cannot be empty")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates an asset URL string for safety.
// It accepts http(s) URLs and root-relative paths served by the host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid characters")
		}
	}

	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		return nil
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
