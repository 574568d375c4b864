package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/manifest"
)

// Settings merges extension permissions and hooks into the base settings
// document and writes the result as settings.json.
type Settings struct{}

func (Settings) Name() string { return "settings" }

func (Settings) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	settings, err := loadBaseSettings(opts.abs(BaseSettingsFile))
	if err != nil {
		return nil, err
	}

	perms, err := objectAt(settings, "permissions")
	if err != nil {
		return nil, err
	}
	allow, err := stringListAt(perms, "allow")
	if err != nil {
		return nil, err
	}
	deny, err := stringListAt(perms, "deny")
	if err != nil {
		return nil, err
	}

	for _, ext := range exts {
		if p := ext.Manifest.Permissions; p != nil {
			allow = union(allow, p.Allow)
			deny = union(deny, p.Deny)
		}
	}
	perms["allow"] = allow
	perms["deny"] = deny

	prefix := strings.TrimRight(opts.HookCommandPrefix, "/")
	if opts.HookCommandPrefix == "" {
		prefix = DefaultHookCommandPrefix
	}

	hooks, err := objectAt(settings, "hooks")
	if err != nil {
		return nil, err
	}
	added := map[string][]interface{}{}
	for _, ext := range exts {
		ext.Manifest.EachHook(func(event manifest.HookEvent, hook manifest.HookDef) {
			added[string(event)] = append(added[string(event)], map[string]interface{}{
				"matcher": hook.Matcher,
				"hooks": []interface{}{
					map[string]interface{}{
						"type":    "command",
						"command": prefix + "/" + hook.Script,
					},
				},
			})
		})
	}

	for _, event := range manifest.HookEvents() {
		entries, ok := added[string(event)]
		if !ok {
			continue
		}
		var existing []interface{}
		if v, ok := hooks[string(event)]; ok && v != nil {
			existing, ok = v.([]interface{})
			if !ok {
				return nil, fmt.Errorf("base settings: hooks.%s is not a list", event)
			}
		}
		hooks[string(event)] = append(existing, entries...)
	}

	content, err := encodeSettings(settings)
	if err != nil {
		return nil, err
	}
	if err := opts.emit(SettingsFile, content, 0o644); err != nil {
		return nil, err
	}
	return FileMap{SettingsFile: SourceSettings}, nil
}

// loadBaseSettings reads settings.local.json, or starts from an empty
// document when it does not exist.
func loadBaseSettings(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading base settings %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var settings map[string]interface{}
	if err := dec.Decode(&settings); err != nil {
		return nil, fmt.Errorf("parsing base settings %s: %w", path, err)
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return settings, nil
}

// objectAt returns parent[key] as an object, creating it if absent.
func objectAt(parent map[string]interface{}, key string) (map[string]interface{}, error) {
	v, ok := parent[key]
	if !ok || v == nil {
		obj := map[string]interface{}{}
		parent[key] = obj
		return obj, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("base settings: %s is not an object", key)
	}
	return obj, nil
}

// stringListAt returns parent[key] as a list, creating it if absent.
func stringListAt(parent map[string]interface{}, key string) ([]interface{}, error) {
	v, ok := parent[key]
	if !ok || v == nil {
		return []interface{}{}, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("base settings: permissions.%s is not a list", key)
	}
	return list, nil
}

// union appends each item not already present, preserving order.
func union(list []interface{}, items []string) []interface{} {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if s, ok := existing.(string); ok && s == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}

func encodeSettings(settings map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return buf.Bytes(), nil
}
