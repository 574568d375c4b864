package manifest

import "sort"

// File names recognized by the pipeline.
const (
	RegistryFileName      = "extension-registry.yaml"
	BuildManifestFileName = ".build-manifest.json"
)

// ManifestFileNames lists the accepted manifest names in lookup order.
var ManifestFileNames = []string{
	"extension.yaml",
	"extension.yml",
	"extension.toml",
}

// DefaultVersion is assigned to manifests that omit the version field.
const DefaultVersion = "1.0.0"

// HookEvent is a lifecycle event name a hook can bind to.
type HookEvent string

// Supported hook lifecycle events.
const (
	EventSessionStart     HookEvent = "SessionStart"
	EventSessionEnd       HookEvent = "SessionEnd"
	EventUserPromptSubmit HookEvent = "UserPromptSubmit"
	EventPreToolUse       HookEvent = "PreToolUse"
	EventPostToolUse      HookEvent = "PostToolUse"
	EventNotification     HookEvent = "Notification"
	EventStop             HookEvent = "Stop"
	EventSubagentStop     HookEvent = "SubagentStop"
	EventPreCompact       HookEvent = "PreCompact"
)

var hookEvents = []HookEvent{
	EventSessionStart,
	EventSessionEnd,
	EventUserPromptSubmit,
	EventPreToolUse,
	EventPostToolUse,
	EventNotification,
	EventStop,
	EventSubagentStop,
	EventPreCompact,
}

// HookEvents returns every supported event in canonical order. All output
// that iterates over hook events uses this order so builds are deterministic.
func HookEvents() []HookEvent {
	out := make([]HookEvent, len(hookEvents))
	copy(out, hookEvents)
	return out
}

// HookDef is a single hook script bound to an event.
type HookDef struct {
	Matcher string `yaml:"matcher" json:"matcher" toml:"matcher"`
	Script  string `yaml:"script" json:"script" toml:"script"` // relative to the extension dir, e.g. hooks/check.sh
}

// RoutingEntry maps trigger keywords to a skill name.
type RoutingEntry struct {
	Triggers []string `yaml:"triggers" json:"triggers" toml:"triggers"`
	Skill    string   `yaml:"skill" json:"skill" toml:"skill"`
}

// Permissions lists tool permission patterns merged into settings.json.
type Permissions struct {
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty" toml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty" json:"deny,omitempty" toml:"deny,omitempty"`
}

// ExtensionManifest is the parsed content of an extension manifest.
type ExtensionManifest struct {
	Name            string                  `yaml:"name" json:"name" toml:"name"`
	Version         string                  `yaml:"version" json:"version" toml:"version"`
	Description     string                  `yaml:"description" json:"description" toml:"description"`
	Author          string                  `yaml:"author" json:"author" toml:"author"`
	Enabled         bool                    `yaml:"enabled" json:"enabled" toml:"enabled"`
	RuleNumberRange []int                   `yaml:"rule_number_range,omitempty" json:"rule_number_range,omitempty" toml:"rule_number_range,omitempty"`
	Routing         []RoutingEntry          `yaml:"routing" json:"routing" toml:"routing"`
	Hooks           map[HookEvent][]HookDef `yaml:"hooks" json:"hooks" toml:"hooks"`
	Permissions     *Permissions            `yaml:"permissions,omitempty" json:"permissions,omitempty" toml:"permissions,omitempty"`
	Tags            []string                `yaml:"tags" json:"tags" toml:"tags"`
	ContextSection  string                  `yaml:"claude_md_section,omitempty" json:"claude_md_section,omitempty" toml:"claude_md_section,omitempty"`
}

// NewExtensionManifest returns a manifest populated with the documented
// defaults: version 1.0.0, enabled, and empty (non-nil) collections.
// RuleNumberRange and Permissions stay nil because absence is meaningful.
func NewExtensionManifest() *ExtensionManifest {
	return &ExtensionManifest{
		Version: DefaultVersion,
		Enabled: true,
		Routing: []RoutingEntry{},
		Hooks:   map[HookEvent][]HookDef{},
		Tags:    []string{},
	}
}

// applyDefaults restores defaults that a decoder may have cleared with
// explicit nulls.
func (m *ExtensionManifest) applyDefaults() {
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	if m.Routing == nil {
		m.Routing = []RoutingEntry{}
	}
	if m.Hooks == nil {
		m.Hooks = map[HookEvent][]HookDef{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	for i := range m.Routing {
		if m.Routing[i].Triggers == nil {
			m.Routing[i].Triggers = []string{}
		}
	}
}

// RuleRange returns the declared [start, end] interval. ok is false when no
// range is declared or the declaration is not exactly two numbers.
func (m *ExtensionManifest) RuleRange() (start, end int, ok bool) {
	if len(m.RuleNumberRange) != 2 {
		return 0, 0, false
	}
	return m.RuleNumberRange[0], m.RuleNumberRange[1], true
}

// HasRuleRange reports whether the manifest declares a rule number range at all.
func (m *ExtensionManifest) HasRuleRange() bool {
	return m.RuleNumberRange != nil
}

// EachHook calls fn for every hook definition, events in canonical order and
// definitions in declaration order.
func (m *ExtensionManifest) EachHook(fn func(event HookEvent, hook HookDef)) {
	for _, event := range hookEvents {
		for _, h := range m.Hooks[event] {
			fn(event, h)
		}
	}
}

// HookCount returns the total number of hook definitions.
func (m *ExtensionManifest) HookCount() int {
	n := 0
	for _, defs := range m.Hooks {
		n += len(defs)
	}
	return n
}

// Registry holds explicit enable/disable overrides keyed by extension name.
type Registry struct {
	Extensions map[string]bool `yaml:"extensions" json:"extensions"`
}

// IsEnabled reports whether m takes part in a build. An explicit registry
// entry wins; otherwise the manifest's own enabled flag applies. A nil
// registry defers to the manifest.
func (r *Registry) IsEnabled(m *ExtensionManifest) bool {
	if r != nil {
		if enabled, ok := r.Extensions[m.Name]; ok {
			return enabled
		}
	}
	return m.Enabled
}

// SetEnabled records an explicit override for name.
func (r *Registry) SetEnabled(name string, enabled bool) {
	if r.Extensions == nil {
		r.Extensions = make(map[string]bool)
	}
	r.Extensions[name] = enabled
}

// BuildManifest records the most recent successful build.
type BuildManifest struct {
	BuiltAt    string            `json:"built_at"`
	Extensions []string          `json:"extensions"`
	Files      map[string]string `json:"files"` // output path (relative to the build root) -> source extension
}

// Paths returns every tracked output path in sorted order.
func (b *BuildManifest) Paths() []string {
	paths := make([]string, 0, len(b.Files))
	for p := range b.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
