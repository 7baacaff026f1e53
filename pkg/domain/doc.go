/*
Package domain contains the core models of the webform conditional logic engine.

It defines the element tree of a form, the conditional states attached to each element,
and the submission data conditions are evaluated against. This package is kept pure and
free of I/O, following the same hexagonal layout as the rest of the module: loaders and
transports live under pkg/adapters, evaluation lives in pkg/conditions and internal/runtime.

# Key Entities

  - Form: an arena of Elements stored in tree (pre-)order, immutable once built.
  - Element: a node of the tree with its capability descriptor, static flags and render Attributes.
  - StatesMap: the ordered list of conditional states (required, visible, ...) of an element.
  - ConditionSet: an ordered list of Entries, each either a LogicToken or a Condition.
  - Submission: request-scoped values keyed by element key.
*/
package domain
