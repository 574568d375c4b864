package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/666666ma999999/claudecode/internal/discovery"
)

// Placeholder is replaced by the joined extension sections.
const Placeholder = "{extension_sections}"

const defaultContextTemplate = `# Agent Operating Guidelines

You are a manager and agent orchestrator. Do not do the work yourself; delegate every task to subagents or task agents. Break tasks down finely and run a plan-do-check-act cycle.

` + Placeholder + `
`

// Context renders the top-level context document from the template under
// the build tool directory, or a built-in default when it is absent.
type Context struct{}

func (Context) Name() string { return "context" }

func (Context) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	tmpl, err := loadTemplate(opts.abs(TemplateFile))
	if err != nil {
		return nil, err
	}

	var sections []string
	for _, ext := range exts {
		if s := strings.TrimRight(ext.Manifest.ContextSection, " \t\r\n"); s != "" {
			sections = append(sections, s)
		}
	}

	content := strings.ReplaceAll(tmpl, Placeholder, strings.Join(sections, "\n\n"))
	if err := opts.emit(ContextFile, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return FileMap{ContextFile: SourceContext}, nil
}

func loadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultContextTemplate, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}
	return string(data), nil
}
