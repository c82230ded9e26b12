package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLanguageLength bounds a language name; GitHub's longest linguist names
// are well under this.
const maxLanguageLength = 64

// ValidateLanguage validates a language name used in a search qualifier.
//
// The rules are conservative:
//   - No empty names (after trimming)
//   - No control characters
//   - No quotes or colons, which would break the search qualifier
//   - Maximum length of 64 characters
func ValidateLanguage(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidLanguage, "language name cannot be empty")
	}
	if len(name) > maxLanguageLength {
		return New(ErrCodeInvalidLanguage, "language name too long (max %d characters)", maxLanguageLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLanguage, "language name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, `":`) {
		return New(ErrCodeInvalidLanguage, "language name contains invalid characters: %q", name)
	}
	return nil
}

// ValidateLanguages validates an ordered language list: it must be non-empty,
// every entry must pass [ValidateLanguage], and no name may repeat
// (case-insensitively, since GitHub treats qualifiers that way).
func ValidateLanguages(names []string) error {
	if len(names) == 0 {
		return New(ErrCodeInvalidLanguage, "language list cannot be empty")
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := ValidateLanguage(name); err != nil {
			return err
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return New(ErrCodeInvalidLanguage, "duplicate language: %q", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// usernameRegex matches GitHub logins: alphanumerics and single hyphens,
// not starting or ending with a hyphen, at most 39 characters.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-(?:[A-Za-z0-9])){0,38}$`)

// ValidateUsername validates a GitHub username before it is put in a URL path.
func ValidateUsername(login string) error {
	if login == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}
	if len(login) > 39 {
		return New(ErrCodeInvalidUsername, "username too long (max 39 characters)")
	}
	if !usernameRegex.MatchString(login) {
		return New(ErrCodeInvalidUsername, "invalid GitHub username: %q", login)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
