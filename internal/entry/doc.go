// Package entry holds the rules of the cab-data entry form: which fields each
// category shows, how raw input is parsed, how additional amounts merge into
// a stored entry, and how expense comments accumulate.
//
// The package is independent of any UI. The interactive form and the
// non-interactive CLI commands both build a Draft and call Compose.
package entry
