/*
Package webform is a conditional states engine for form definitions.

Each element of a form may carry "#states": rules such as "required when the
newsletter box is checked" or "visible unless the country is PT". The engine applies
those rules in two phases:

  - Build (render time): every rule is evaluated against the current values and
    written to the element's render attributes (required, disabled, readonly,
    accessible, open, default value). Rules that cannot be decided right now are kept
    for the client.
  - Submit: the same rules are applied again and every required field in the visible
    tree is checked. Empty required fields produce validation errors.

# Conditions

A condition set is an ordered list of selector checks, optionally separated by logic
tokens ("and", "or", "xor"; "and" by default):

	'#states':
	  required:
	    - ':input[name="subscribe"]': {checked: true}
	    - or
	    - ':input[name="topics"]': {value: [news, offers]}

Selectors must have the exact shape :input[name="a[b][c]"]. Trigger and state names
may be aliased ("filled", "enabled", "invisible") and negated with a leading "!".
Evaluation is three-valued: anything that cannot be resolved (an unparsable selector,
an unknown element, an unsupported trigger) makes the whole set indeterminate and the
rule is left alone. It is never an error.

# Usage

	eng, err := webform.New("./forms")
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Submit(ctx, "contact", domain.NewSubmission(map[string]any{
		"subscribe": true,
		"email":     "",
	}))
	if err != nil {
		log.Fatal(err)
	}
	for _, verr := range res.Errors {
		fmt.Println(verr.ElementKey, verr.Message)
	}

Definitions can also come from memory, Redis (see pkg/adapters) or be built in Go with
pkg/dsl. The same engine is exposed over HTTP and MCP by cmd/webform.
*/
package webform
