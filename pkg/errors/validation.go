package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateEntityID validates an entity identifier.
// IDs end up as SVG element ids and GeoJSON feature ids, so they are kept
// free of control characters and reasonably short.
func ValidateEntityID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "entity id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "entity id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "entity id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateColumnName validates a column or property name used to look up
// entity attributes in an input file.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidColumn, "column name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidColumn, "column name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumn, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
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

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// namedColorRegex matches CSS color keywords such as "steelblue".
var namedColorRegex = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)

// ValidateColor validates a fill or font color.
// Colors are interpolated into SVG style attributes, so only hex notation
// and plain CSS keywords are accepted.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}

	if hexColorRegex.MatchString(color) || namedColorRegex.MatchString(color) {
		return nil
	}

	return New(ErrCodeInvalidColor, "invalid color: %q (use #rrggbb, #rgb or a CSS color name)", color)
}
