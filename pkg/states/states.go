// Package states canonicalises state and trigger names.
//
// Authors may write human names such as "enabled" or "invisible"; the engine only
// understands canonical names plus a negation flag. A leading "!" negates any name and
// composes with the negation implied by the alias table, so "!enabled" is "disabled".
package states

import "strings"

type alias struct {
	canonical string
	negate    bool
}

var aliases = map[string]alias{
	"enabled":   {"disabled", true},
	"invisible": {"visible", true},
	"invalid":   {"valid", true},
	"optional":  {"required", true},
	"filled":    {"empty", true},
	"unchecked": {"checked", true},
	"expanded":  {"collapsed", true},
	"open":      {"collapsed", true},
	"closed":    {"collapsed", false},
	"readwrite": {"readonly", true},
}

var canonical = map[string]bool{
	"disabled":  true,
	"visible":   true,
	"valid":     true,
	"required":  true,
	"empty":     true,
	"checked":   true,
	"collapsed": true,
	"readonly":  true,
	"value":     true,
}

// Resolve returns the canonical name of a state and whether it is negated.
// Unknown names are returned unchanged (after stripping "!").
func Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	negate := false
	if strings.HasPrefix(name, "!") {
		negate = true
		name = strings.TrimPrefix(name, "!")
	}
	if a, ok := aliases[name]; ok {
		return a.canonical, negate != a.negate
	}
	return name, negate
}

// Known reports whether name resolves to a state or trigger the engine understands.
func Known(name string) bool {
	c, _ := Resolve(name)
	return canonical[c]
}

// IsTrigger reports whether name resolves to a trigger the evaluator supports.
func IsTrigger(name string) bool {
	c, _ := Resolve(name)
	switch c {
	case "empty", "checked", "value":
		return true
	}
	return false
}

// Applicable reports whether name resolves to a state that drives a render attribute.
// "valid" is understood but only exists client side.
func Applicable(name string) bool {
	c, _ := Resolve(name)
	switch c {
	case "required", "disabled", "visible", "collapsed", "checked", "readonly":
		return true
	}
	return false
}
