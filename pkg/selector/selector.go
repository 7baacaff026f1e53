// Package selector resolves dependee references of the form :input[name="a[b][c]"].
//
// A selector names where a dependee's value lives in the submission. The first path
// segment is the element key, the remaining segments address values nested inside
// composite or multi-valued elements. Anything that does not match the exact shape is
// unparsable; callers treat that as "cannot decide", never as an error.
package selector

import (
	"regexp"
	"strings"
)

var inputPattern = regexp.MustCompile(`^:input\[name="([^"]+)"\]$`)

// Ref is a parsed selector.
type Ref struct {
	Selector   string
	ElementKey string
	SubPath    []string
}

// Path returns the full path, element key first.
func (r Ref) Path() []string {
	return append([]string{r.ElementKey}, r.SubPath...)
}

// Parse resolves a selector string. It reports false for any shape other than
// :input[name="..."].
func Parse(s string) (Ref, bool) {
	m := inputPattern.FindStringSubmatch(s)
	if m == nil {
		return Ref{}, false
	}
	path := ParseInputPath(m[1])
	if len(path) == 0 || path[0] == "" {
		return Ref{}, false
	}
	return Ref{
		Selector:   s,
		ElementKey: path[0],
		SubPath:    path[1:],
	}, true
}

// ParseInputPath desugars bracketed input names: a[b][c] becomes [a b c].
// A trailing [] (multi-value inputs such as colors[]) addresses the whole value.
func ParseInputPath(name string) []string {
	name = strings.ReplaceAll(name, "][", "|")
	name = strings.ReplaceAll(name, "[", "|")
	name = strings.ReplaceAll(name, "]", "")
	if name == "" {
		return nil
	}
	path := strings.Split(name, "|")
	for len(path) > 1 && path[len(path)-1] == "" {
		path = path[:len(path)-1]
	}
	return path
}

// Format builds the selector for a path. It is the inverse of Parse.
func Format(path ...string) string {
	if len(path) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`:input[name="`)
	sb.WriteString(path[0])
	for _, segment := range path[1:] {
		sb.WriteString("[")
		sb.WriteString(segment)
		sb.WriteString("]")
	}
	sb.WriteString(`"]`)
	return sb.String()
}
