package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Manifest encodings.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ErrEmptyManifest is wrapped by a ParseError when the manifest has no content.
var ErrEmptyManifest = errors.New("manifest is empty")

// ParseError reports a manifest or registry document that exists but cannot
// be decoded, or a manifest that fails the schema.
type ParseError struct {
	Path   string
	Issues []ValidationIssue
	Err    error
}

func (e *ParseError) Error() string {
	if len(e.Issues) > 0 {
		parts := make([]string, len(e.Issues))
		for i, issue := range e.Issues {
			parts[i] = issue.String()
		}
		return fmt.Sprintf("invalid manifest %s: %s", e.Path, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseManifest reads the manifest at path, validates it against the schema,
// and returns it with defaults applied. The encoding is chosen by extension:
// .toml is TOML, anything else is YAML.
func ParseManifest(path string) (*ExtensionManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseManifest(data, formatOf(path), path)
}

// ParseManifestBytes parses manifest content that did not come from disk.
// source is only used in error messages.
func ParseManifestBytes(data []byte, format, source string) (*ExtensionManifest, error) {
	return parseManifest(data, format, source)
}

func parseManifest(data []byte, format, source string) (*ExtensionManifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Path: source, Err: ErrEmptyManifest}
	}

	tree, err := decodeTree(data, format)
	if err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}
	if tree == nil {
		return nil, &ParseError{Path: source, Err: ErrEmptyManifest}
	}

	result, err := validateTree(tree)
	if err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}
	if !result.Valid {
		return nil, &ParseError{
			Path:   source,
			Issues: result.Issues,
			Err:    errors.New("schema validation failed"),
		}
	}

	jsonData, err := json.Marshal(tree)
	if err != nil {
		return nil, &ParseError{Path: source, Err: fmt.Errorf("converting to JSON: %w", err)}
	}
	m := NewExtensionManifest()
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, &ParseError{Path: source, Err: fmt.Errorf("decoding manifest: %w", err)}
	}
	m.applyDefaults()
	return m, nil
}

// decodeTree decodes YAML or TOML into JSON-compatible generic values.
func decodeTree(data []byte, format string) (interface{}, error) {
	var raw interface{}
	switch format {
	case FormatTOML:
		var doc map[string]interface{}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		raw = doc
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}
	return normalize(raw), nil
}

// normalize recursively converts map[interface{}]interface{} (which some YAML
// documents produce) to map[string]interface{} so the tree marshals as JSON.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, v := range val {
			val[k] = normalize(v)
		}
		return val
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalize(v)
		}
		return m
	case []interface{}:
		for i, v := range val {
			val[i] = normalize(v)
		}
		return val
	default:
		return v
	}
}

// formatOf picks the decoder for a manifest path.
func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return data, nil
}
