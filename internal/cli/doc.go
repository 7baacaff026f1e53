// Package cli holds the plumbing shared by the webform commands: engine
// construction from configuration, submission input, and report output.
package cli
