package compiler

import (
	"fmt"
	"strings"

	"github.com/666666ma999999/claudecode/internal/discovery"
)

const routingHeader = `# Skill Routing & Additional Rules

## Skill Routing

Before answering or starting work, check this mapping and consult the matching skill:

| Triggers | Skill |
|----------|-------|
`

// Routing generates the trigger-to-skill index as a rule file. Supplemental
// context sections are appended after the table.
type Routing struct{}

func (Routing) Name() string { return "routing" }

func (Routing) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	var rows, sections []string
	for _, ext := range exts {
		for _, entry := range ext.Manifest.Routing {
			rows = append(rows, fmt.Sprintf("| %s | `%s` |", strings.Join(entry.Triggers, ", "), entry.Skill))
		}
		if ext.Manifest.ContextSection != "" {
			sections = append(sections, strings.TrimRight(ext.Manifest.ContextSection, " \t\r\n"))
		}
	}

	fm := FileMap{}
	if len(rows) == 0 && len(sections) == 0 {
		return fm, nil
	}

	var b strings.Builder
	b.WriteString(routingHeader)
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	for _, s := range sections {
		b.WriteByte('\n')
		b.WriteString(s)
		b.WriteByte('\n')
	}

	if err := opts.emit(RoutingFile, []byte(b.String()), 0o644); err != nil {
		return nil, err
	}
	fm[RoutingFile] = SourceRouting
	return fm, nil
}
