package graph

import (
	"fmt"
	"strings"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/selector"
)

// GraphOverlay contains the outcome of a build to visualize on the graph.
type GraphOverlay struct {
	Hidden  []string
	Changed []string
}

// OverlayFromResult marks hidden elements and elements whose attributes changed.
func OverlayFromResult(res *domain.Result) *GraphOverlay {
	overlay := &GraphOverlay{}
	if res == nil || res.Form == nil {
		return overlay
	}
	for _, key := range res.Form.Keys() {
		if !res.Form.Accessible(key) {
			overlay.Hidden = append(overlay.Hidden, key)
		}
	}
	seen := make(map[string]bool)
	for _, c := range res.Changes {
		if !seen[c.ElementKey] {
			seen[c.ElementKey] = true
			overlay.Changed = append(overlay.Changed, c.ElementKey)
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of a form: containment and
// conditional state dependencies.
// It applies semantic styling:
// - Layout (non-input): [[Subroutine]]
// - Multiple-valued input: [/Parallelogram/]
// - Composite input: {{Hexagon}}
// - Default: [Rectangle]
// Dependency edges run from the dependee to the dependent element, labelled with
// the state. Selectors that cannot be parsed are left out.
func GenerateMermaid(form *domain.Form, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, el := range form.Elements() {
		safeID := sanitizeMermaidID(el.Key)

		opener, closer := "[", "]"
		switch {
		case !el.Capabilities.Input:
			opener, closer = "[[", "]]"
		case el.Capabilities.Multiple:
			opener, closer = "[/", "/]"
		case el.Capabilities.Composite:
			opener, closer = "{{", "}}"
		}

		label := el.Key
		if el.Title != "" {
			label = fmt.Sprintf("%s <br/> %s", el.Title, el.Key)
		}
		if el.Required {
			label += " *"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, strings.ReplaceAll(label, "\"", "'"), closer))

		if el.ParentKey != "" {
			sb.WriteString(fmt.Sprintf("    %s --- %s\n", sanitizeMermaidID(el.ParentKey), safeID))
		}
	}

	for _, el := range form.Elements() {
		for _, rule := range el.States {
			seen := make(map[string]bool)
			for _, sel := range rule.Conditions.Selectors() {
				ref, ok := selector.Parse(sel)
				if !ok || seen[ref.ElementKey] {
					continue
				}
				if _, exists := form.Element(ref.ElementKey); !exists {
					continue
				}
				seen[ref.ElementKey] = true
				sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", sanitizeMermaidID(ref.ElementKey), rule.Name, sanitizeMermaidID(el.Key)))
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef hidden fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef changed fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		for _, key := range overlay.Hidden {
			sb.WriteString(fmt.Sprintf("    class %s hidden;\n", sanitizeMermaidID(key)))
		}
		for _, key := range overlay.Changed {
			sb.WriteString(fmt.Sprintf("    class %s changed;\n", sanitizeMermaidID(key)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
