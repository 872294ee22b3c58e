package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// validateName applies the safety rules shared by every user-supplied name
// (wall names, object labels). Names travel into filenames, cache keys, and
// log lines, so the rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - No null bytes
//   - Maximum length of 256 characters
func validateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "%s name too long (max 256 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s name contains invalid control characters", kind)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "%s name contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateWallName validates a wall name supplied on the CLI or API.
func ValidateWallName(name string) error {
	return validateName("wall", name)
}

// ValidateObjectName validates an anchored object's display name.
func ValidateObjectName(name string) error {
	return validateName("object", name)
}

// ValidateManifestFilename validates a wall manifest filename for safety.
// It ensures the filename is a simple basename without path components and
// carries the expected extension.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	if !strings.HasSuffix(filename, ".toml") {
		return New(ErrCodeInvalidManifest, "manifest filename must end in .toml")
	}

	return nil
}

// recordIDRegex matches the canonical UUID form used for wall record IDs.
var recordIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRecordID validates a wall record ID before it is used as a store
// key. Backends embed the ID in filenames and database keys, so anything
// that is not a lowercase canonical UUID is rejected.
func ValidateRecordID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "record ID cannot be empty")
	}

	if !recordIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid record ID: %q", id)
	}

	return nil
}
