// Package builder runs the extension pipeline end to end: discovery,
// validation, cleanup of the previous build, compilation in a fixed order,
// and the build manifest write. It also implements clean and a
// content-aware diff between the tree on disk and what a build would
// produce.
package builder
