// Package platform hides the permission differences between Unix and
// Windows. Windows has no Unix permission bits, so mode changes are no-ops
// there and every file counts as executable.
package platform
