package errors

import (
	"strings"
	"unicode"
)

// ValidateData validates a QR payload string.
//
// The encoder owns the authoritative capacity check (DATA_TOO_LARGE); this
// validator only rejects inputs that can never form a meaningful symbol:
//   - empty payloads
//   - payloads containing null bytes
//
// Everything else (arbitrary text, binary-ish content, very long strings)
// is passed through to the encoder.
func ValidateData(data string) error {
	if data == "" {
		return New(ErrCodeInvalidInput, "data cannot be empty")
	}
	if strings.ContainsRune(data, '\x00') {
		return New(ErrCodeInvalidInput, "data contains null bytes")
	}
	return nil
}

// ValidateBoxSize validates the pixel edge length of one module.
// Zero is allowed at this layer (it means "use the default"); negative
// values are rejected.
func ValidateBoxSize(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidSize, "box size must be positive, got %d", n)
	}
	return nil
}

// ValidateBorder validates the quiet-zone width in module units.
func ValidateBorder(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidSize, "border cannot be negative, got %d", n)
	}
	return nil
}

// ValidateOutputPath validates a destination file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}
