/*
Package dsl provides a Go DSL for programmatically constructing form definitions.

It allows developers to define elements and their conditional states using a fluent
builder instead of YAML or JSON files. This is particularly useful for tests, for
forms generated at runtime, and for publishing definitions to a loader.

Example usage:

	b := dsl.New("contact").Title("Contact")

	b.Add("subscribe").Type("checkbox").Title("Subscribe")

	b.Add("email").Type("email").Title("Email").
		Required().
		When(domain.StateVisible, dsl.Checked("subscribe"))

	// Compile directly...
	form, err := b.Form()

	// ...or serve the YAML document through a loader.
	loader, err := b.Loader()
	eng, err := webform.New("", webform.WithLoader(loader))
*/
package dsl
