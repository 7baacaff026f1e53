// Package sanitizer cleans submitted values before they reach the engine.
package sanitizer

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB per string value.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "WEBFORM_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput cleans a string value by enforcing the size limit,
// validating UTF-8, and stripping control characters other than
// newline, tab and carriage return.
func SanitizeInput(input string) (string, error) {
	limit := getMaxInputSize()
	if len(input) > limit {
		// Oversized values are rejected, never truncated.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// SanitizeSubmission returns a copy of sub with every string value sanitized,
// including values nested in composite maps and multi-value lists.
func SanitizeSubmission(sub domain.Submission) (domain.Submission, error) {
	data, err := sanitizeMap(sub.Data, "")
	if err != nil {
		return domain.Submission{}, err
	}
	input, err := sanitizeMap(sub.Input, "")
	if err != nil {
		return domain.Submission{}, err
	}
	return domain.Submission{Data: data, Input: input}, nil
}

func sanitizeMap(m map[string]any, prefix string) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		clean, err := sanitizeValue(v, prefix+k)
		if err != nil {
			return nil, err
		}
		out[k] = clean
	}
	return out, nil
}

func sanitizeValue(v any, path string) (any, error) {
	switch v := v.(type) {
	case string:
		clean, err := SanitizeInput(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return clean, nil
	case map[string]any:
		return sanitizeMap(v, path+".")
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			clean, err := sanitizeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = clean
		}
		return out, nil
	}
	return v, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
