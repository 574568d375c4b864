package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/extension.schema.json
var schemaBytes []byte

// schemaID names the embedded schema inside the compiler.
const schemaID = "extension.schema.json"

var printer = message.NewPrinter(language.English)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue // sorted by Path
}

// ValidationIssue is one leaf failure reported by the schema.
type ValidationIssue struct {
	Path    string // JSON pointer into the manifest, e.g. "/routing/0/skill"; empty for the root
	Message string
	Keyword string // failing schema keyword, e.g. "required"
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// loadSchema compiles the embedded extension schema on first use.
var loadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", schemaID, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaID, doc); err != nil {
		return nil, fmt.Errorf("registering %s: %w", schemaID, err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", schemaID, err)
	}
	return sch, nil
})

// Validate checks raw manifest bytes against the extension schema. format is
// FormatYAML or FormatTOML. Decode and schema-compilation failures come back
// as errors; schema issues come back in the result.
func Validate(data []byte, format string) (*ValidationResult, error) {
	tree, err := decodeTree(data, format)
	if err != nil {
		return nil, err
	}
	return validateTree(tree)
}

// ValidateFile validates the manifest at path, picking the format from its
// extension.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data, formatOf(path))
}

// validateTree validates a decoded YAML or TOML document. The document is
// re-read through the schema library's JSON decoder so numbers arrive as
// json.Number regardless of the source format.
func validateTree(tree interface{}) (*ValidationResult, error) {
	sch, err := loadSchema()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest for validation: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding manifest for validation: %w", err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating manifest: %w", err)
	}

	issues := leafIssues(ve, map[string]bool{}, nil)
	if len(issues) == 0 {
		issues = []ValidationIssue{{Message: ve.Error()}}
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return &ValidationResult{Issues: issues}, nil
}

// leafIssues flattens the cause tree into its leaves, dropping container
// keywords and exact duplicates.
func leafIssues(ve *jsonschema.ValidationError, seen map[string]bool, out []ValidationIssue) []ValidationIssue {
	for _, cause := range ve.Causes {
		out = leafIssues(cause, seen, out)
	}
	if len(ve.Causes) > 0 || ve.ErrorKind == nil {
		return out
	}

	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return out
	}
	keyword := kw[len(kw)-1]
	if keyword == "allOf" || keyword == "$ref" {
		return out
	}

	issue := ValidationIssue{Keyword: keyword, Message: ve.ErrorKind.LocalizedString(printer)}
	if len(ve.InstanceLocation) > 0 {
		issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	key := issue.Path + "\x00" + issue.Keyword + "\x00" + issue.Message
	if seen[key] {
		return out
	}
	seen[key] = true
	return append(out, issue)
}
