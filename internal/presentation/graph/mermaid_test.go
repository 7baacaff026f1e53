package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/internal/presentation/graph"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

func checked(key string) domain.ConditionSet {
	return domain.ConditionSet{domain.Condition{
		Selector: `:input[name="` + key + `"]`,
		Triggers: []domain.Trigger{{State: "checked", Value: true}},
	}}
}

func TestGenerateMermaid(t *testing.T) {
	form, err := domain.NewForm("f",
		domain.Element{Key: "opt-in", Title: "Opt in", Capabilities: domain.Capabilities{Input: true}},
		domain.Element{Key: "box", Type: "fieldset"},
		domain.Element{Key: "topics", ParentKey: "box", Capabilities: domain.Capabilities{Input: true, Multiple: true}},
		domain.Element{Key: "address", ParentKey: "box", Required: true, Capabilities: domain.Capabilities{Input: true, Composite: true}},
		domain.Element{Key: "email", Capabilities: domain.Capabilities{Input: true}, States: domain.StatesMap{
			{Name: "required", Conditions: checked("opt-in")},
			{Name: "visible", Conditions: append(checked("opt-in"), domain.Condition{Selector: "#bogus"})},
			{Name: "disabled", Conditions: checked("ghost")},
		}},
	)
	require.NoError(t, err)

	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`opt_in["Opt in <br/> opt-in"]`,
				`box[["box"]]`,
				`topics[/"topics"/]`,
				`address{{"address *"}}`,
			},
		},
		{
			name: "Edges",
			contains: []string{
				"box --- topics",
				`opt_in -. "required" .-> email`,
				`opt_in -. "visible" .-> email`,
			},
			excludes: []string{"bogus", "ghost"},
		},
		{
			name:    "Overlay",
			overlay: &graph.GraphOverlay{Hidden: []string{"email"}, Changed: []string{"topics"}},
			contains: []string{
				"class email hidden;",
				"class topics changed;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(form, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.False(t, strings.Contains(got, unwanted), "unexpected %q in\n%s", unwanted, got)
			}
		})
	}
}

func TestOverlayFromResult(t *testing.T) {
	form, err := domain.NewForm("f",
		domain.Element{Key: "a", Hidden: true},
		domain.Element{Key: "b"},
	)
	require.NoError(t, err)

	overlay := graph.OverlayFromResult(&domain.Result{
		Form: form,
		Changes: []domain.AttributeChange{
			{ElementKey: "b", Attribute: "required"},
			{ElementKey: "b", Attribute: "disabled"},
		},
	})
	assert.Equal(t, []string{"a"}, overlay.Hidden)
	assert.Equal(t, []string{"b"}, overlay.Changed)
}
