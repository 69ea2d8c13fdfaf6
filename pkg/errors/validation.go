package errors

import (
	"strings"
	"unicode"
)

// ValidateTitle checks a document title. The title doubles as the default
// output file name, so it must not contain path separators.
func ValidateTitle(title string) error {
	if title == "" {
		return New(ErrCodeInvalidInput, "title cannot be empty")
	}
	if len(title) > 200 {
		return New(ErrCodeInvalidInput, "title too long (max 200 characters)")
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	if strings.ContainsAny(title, `/\`) {
		return New(ErrCodeInvalidInput, "title cannot contain path separators")
	}
	if title == "." || title == ".." {
		return New(ErrCodeInvalidInput, "title %q is not a valid file name", title)
	}
	return nil
}

// ValidateImagePath checks a local image path before it is opened.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateImagePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "image path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateProjectName checks a human-readable project name.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "project name cannot be empty")
	}
	if len(name) > 100 {
		return New(ErrCodeInvalidInput, "project name too long (max 100 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "project name contains invalid control characters")
		}
	}
	return nil
}
