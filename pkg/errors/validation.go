package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// supportedImageExts lists the file extensions the sampler can decode.
var supportedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// ValidateImagePath validates a source image path for safety and support.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be a decodable image format
func ValidateImagePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "image path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedImageExts[ext] {
		return New(ErrCodeUnsupportedImage, "unsupported image format %q (want png, jpeg, gif, webp or bmp)", ext)
	}

	return nil
}

// ValidatePowerOfTwo checks that n is a positive power of two.
// The name is used in the error message.
func ValidatePowerOfTwo(name string, n int) error {
	if n <= 0 || n&(n-1) != 0 {
		return New(ErrCodeInvalidDimension, "%s must be a positive power of two, got %d", name, n)
	}
	return nil
}

// ValidateThreshold checks that a completion threshold is a percentage in [1, 100].
func ValidateThreshold(threshold int) error {
	if threshold < 1 || threshold > 100 {
		return New(ErrCodeInvalidConfig, "threshold must be between 1 and 100, got %d", threshold)
	}
	return nil
}
