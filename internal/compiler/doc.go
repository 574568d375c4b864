// Package compiler turns a validated extension set into the merged output
// tree. Each compiler handles one kind of artifact and reports the output
// paths it produced, keyed relative to the build root with forward slashes,
// together with the extension (or synthetic source tag) responsible.
//
// With Options.DryRun nothing is written. When Options.Content is non-nil
// every compiler also records the bytes it would write, which is how diff
// compares a prospective build with the tree on disk.
package compiler
