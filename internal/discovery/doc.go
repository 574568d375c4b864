// Package discovery finds extension directories under an extensions root and
// parses their manifests. Directories whose names start with an underscore
// are reserved for tooling and never treated as extensions.
package discovery
