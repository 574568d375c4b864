// Package manifest defines the documents the build pipeline reads and writes:
// the per-extension manifest (extension.yaml or extension.toml), the
// enable/disable registry, and the build manifest that records which
// extension produced every compiled output path.
//
// Manifests are structurally checked against an embedded JSON Schema before
// they are decoded, so a malformed document surfaces as a *ParseError that
// lists every offending field instead of a single decoder message.
package manifest
