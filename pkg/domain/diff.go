package domain

import (
	"reflect"
)

// AttributeChange describes a render attribute that differs between two snapshots of a form.
// It is designed to be serialized to JSON for partial updates on the client.
type AttributeChange struct {
	ElementKey string `json:"element_key"`
	Attribute  string `json:"attribute"`
	From       any    `json:"from"`
	To         any    `json:"to"`
}

// DiffAttributes lists the attribute changes between before and after, in tree order of after.
// If before is nil, every attribute of after that differs from its zero value is reported.
func DiffAttributes(before, after *Form) []AttributeChange {
	if after == nil {
		return nil
	}

	var changes []AttributeChange
	for _, key := range after.Keys() {
		next, _ := after.Element(key)

		var prev Attributes
		if before != nil {
			if el, ok := before.Element(key); ok {
				prev = el.Attributes
			}
		}

		changes = append(changes, diffAttributes(key, prev, next.Attributes)...)
	}
	return changes
}

func diffAttributes(key string, old, new Attributes) []AttributeChange {
	var out []AttributeChange
	add := func(name string, from, to any) {
		if !reflect.DeepEqual(from, to) {
			out = append(out, AttributeChange{ElementKey: key, Attribute: name, From: from, To: to})
		}
	}

	add("required", old.Required, new.Required)
	add("disabled", old.Disabled, new.Disabled)
	add("readonly", old.Readonly, new.Readonly)
	add("accessible", old.Accessible, new.Accessible)
	add("open", old.Open, new.Open)
	add("default_value", old.DefaultValue, new.DefaultValue)
	return out
}
