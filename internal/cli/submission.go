package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// ReadSubmission decodes submitted values from a JSON or YAML document.
// The document is either {data: {...}, input: {...}} or a plain mapping of values.
// Path "-" reads from stdin; an empty path yields an empty submission.
func ReadSubmission(path string, stdin io.Reader) (domain.Submission, error) {
	var (
		raw []byte
		err error
	)
	switch path {
	case "":
		return domain.NewSubmission(map[string]any{}), nil
	case "-":
		raw, err = io.ReadAll(stdin)
	default:
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("failed to read submission: %w", err)
	}
	return ParseSubmission(raw)
}

// ParseSubmission decodes a submission document.
func ParseSubmission(raw []byte) (domain.Submission, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.Submission{}, fmt.Errorf("failed to parse submission: %w", err)
	}
	if doc == nil {
		return domain.NewSubmission(map[string]any{}), nil
	}

	data, hasData := doc["data"].(map[string]any)
	input, hasInput := doc["input"].(map[string]any)
	if !hasData && !hasInput {
		return domain.NewSubmission(doc), nil
	}
	if data == nil {
		data = map[string]any{}
	}
	return domain.Submission{Data: data, Input: input}, nil
}
