package tui

import (
	"fmt"
	"strings"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// ResultMarkdown summarizes a build or submit result as markdown.
func ResultMarkdown(res *domain.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", formTitle(res.Form))
	fmt.Fprintf(&sb, "Request `%s`\n\n", res.RequestID)

	sb.WriteString("## Elements\n\n")
	sb.WriteString("| Element | Visible | Required | Disabled | Readonly |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, el := range res.Form.Elements() {
		if !el.IsInput() {
			continue
		}
		a := el.Attributes
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			el.Key, mark(res.Form.Accessible(el.Key)), mark(a.Required), mark(a.Disabled), mark(a.Readonly))
	}

	if len(res.Changes) > 0 {
		sb.WriteString("\n## Changes\n\n")
		for _, c := range res.Changes {
			fmt.Fprintf(&sb, "- `%s.%s`: %v → %v\n", c.ElementKey, c.Attribute, c.From, c.To)
		}
	}

	if len(res.Errors) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, e := range res.Errors {
			if e.ElementKey == "" {
				fmt.Fprintf(&sb, "- %s\n", e.Message)
				continue
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", e.ElementKey, e.Message)
		}
	}

	return sb.String()
}

// LintMarkdown reports the outcome of linting a set of forms.
// Forms without issues map to a nil error.
func LintMarkdown(results map[string]error, order []string) string {
	var sb strings.Builder
	sb.WriteString("# Lint\n\n")
	for _, id := range order {
		err := results[id]
		if err == nil {
			fmt.Fprintf(&sb, "- ✅ `%s`\n", id)
			continue
		}
		fmt.Fprintf(&sb, "- ❌ `%s`\n", id)
		for _, line := range strings.Split(err.Error(), "\n")[1:] {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&sb, "  %s\n", line)
			}
		}
	}
	return sb.String()
}

func formTitle(f *domain.Form) string {
	if f.Title != "" {
		return f.Title
	}
	return f.ID
}

func mark(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
