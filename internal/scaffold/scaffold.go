package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/666666ma999999/claudecode/internal/branding"
	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/validator"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// subdirs are created empty in every new extension.
var subdirs = []string{"rules", "skills", "hooks", "commands"}

// Data holds the template variables.
type Data struct {
	Name         string
	Description  string
	Author       string
	Version      string
	RuleStart    int
	RuleEnd      int
	HasRuleRange bool
	CLIName      string
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData returns template data with defaults filled in.
func NewData(name string) *Data {
	return &Data{
		Name:        name,
		Description: fmt.Sprintf("%s extension", name),
		Version:     "0.1.0",
		CLIName:     branding.CLIName(),
	}
}

// SetRuleRange parses "START-END" (for example "40-49").
func (d *Data) SetRuleRange(value string) error {
	start, end, ok := strings.Cut(value, "-")
	if !ok {
		return fmt.Errorf("rule range %q: expected START-END", value)
	}
	s, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return fmt.Errorf("rule range start %q: %w", start, err)
	}
	e, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return fmt.Errorf("rule range end %q: %w", end, err)
	}
	if s > e {
		return fmt.Errorf("rule range %q: start is greater than end", value)
	}
	d.RuleStart, d.RuleEnd, d.HasRuleRange = s, e, true
	return nil
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
}

// Generate creates <extensionsDir>/<data.Name> with a manifest, a README and
// the empty content directories. It refuses invalid names and existing
// directories. Schema issues in the generated manifest come back as
// warnings.
func Generate(extensionsDir string, data *Data) (*Result, error) {
	if !validator.ValidName(data.Name) {
		return nil, fmt.Errorf("invalid extension name %q: use lowercase words joined by hyphens", data.Name)
	}

	outputDir := filepath.Join(extensionsDir, data.Name)
	if _, err := os.Stat(outputDir); err == nil {
		return nil, fmt.Errorf("extension directory %s already exists", outputDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", outputDir, err)
	}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	for _, dir := range subdirs {
		if err := os.MkdirAll(filepath.Join(outputDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	result := &Result{OutputDir: outputDir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplBytes, err := fs.ReadFile(templateFS, "templates/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", entry.Name(), err)
		}

		tmpl, err := template.New(entry.Name()).Funcs(funcs).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		if err := os.WriteFile(filepath.Join(outputDir, outName), buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outName, err)
		}
		result.Files = append(result.Files, outName)
	}

	manifestFile := filepath.Join(outputDir, manifest.ManifestFileNames[0])
	valResult, err := manifest.ValidateFile(manifestFile)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate manifest: %v", err))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}
