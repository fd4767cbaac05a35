// Package diagfmt renders parse failures and parsed layouts for
// terminal consumption.
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
}
