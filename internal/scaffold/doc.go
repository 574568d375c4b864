// Package scaffold generates a new extension directory from embedded
// templates.
package scaffold
