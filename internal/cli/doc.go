// Package cli defines the Cobra command tree for claude-ext. Each file
// registers one top-level command (build, validate, diff, ...) with the root
// command. Commands delegate to the builder, discovery and validator packages
// and only handle flag parsing and output formatting.
package cli
