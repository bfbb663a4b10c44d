// Package pages reads the newline-delimited list of page titles that
// the run operates on.
package pages
