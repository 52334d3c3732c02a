package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a hierarchy node ID such as "0" or "0.3.1".
// IDs are dotted index paths, so anything outside digits and single dots is rejected.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	const maxIDLength = 256
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}

	prevDot := true
	for _, r := range id {
		switch {
		case r == '.':
			if prevDot {
				return New(ErrCodeInvalidInput, "malformed node id: %q", id)
			}
			prevDot = true
		case r >= '0' && r <= '9':
			prevDot = false
		default:
			return New(ErrCodeInvalidInput, "node id contains invalid characters: %q", id)
		}
	}
	if prevDot {
		return New(ErrCodeInvalidInput, "malformed node id: %q", id)
	}
	return nil
}

// ValidatePath validates a dataset file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
