// Package desktop reads and writes the Claude Desktop configuration entry
// that launches the stdio MCP server.
package desktop

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/titanous/json5"
)

// ServerName is the key of our entry under mcpServers.
const ServerName = "scrapedo"

const (
	configFile        = "claude_desktop_config.json"
	placeholderAPIKey = "your_api_key_here"
)

// ErrAlreadyConfigured is returned by Install when an entry exists and
// overwriting was not requested.
var ErrAlreadyConfigured = errors.New("desktop: scrapedo server already configured")

// ServerEntry is one mcpServers entry.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ConfigPath returns the Claude Desktop config location for goos.
// appData is only consulted on Windows and falls back to the roaming
// profile under home.
func ConfigPath(goos, home, appData string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", configFile)
	case "windows":
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Claude", configFile)
	default:
		return filepath.Join(home, ".config", "Claude", configFile)
	}
}

// DefaultConfigPath returns ConfigPath for the running platform.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("desktop: home dir: %w", err)
	}
	return ConfigPath(runtime.GOOS, home, os.Getenv("APPDATA")), nil
}

// NewEntry builds the entry that runs `<executable> mcp`. An empty apiKey
// is written as a placeholder the user must replace.
func NewEntry(executable, apiKey, logLevel string) ServerEntry {
	if apiKey == "" {
		apiKey = placeholderAPIKey
	}
	if logLevel == "" {
		logLevel = "info"
	}
	return ServerEntry{
		Command: executable,
		Args:    []string{"mcp"},
		Env: map[string]string{
			"SCRAPEDO_API_KEY": apiKey,
			"LOG_LEVEL":        logLevel,
		},
	}
}

// HasPlaceholderKey reports whether the entry still needs a real token.
func (e ServerEntry) HasPlaceholderKey() bool {
	return e.Env["SCRAPEDO_API_KEY"] == placeholderAPIKey
}

// load reads the whole config document. A missing file is an empty
// document. The file is parsed as JSON5 so hand-edited configs with
// comments or trailing commas still load.
func load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("desktop: read %s: %w", path, err)
	}

	doc := map[string]any{}
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("desktop: parse %s: %w", path, err)
	}
	return doc, nil
}

// servers returns the mcpServers object, adding an empty one when the key
// is missing or null. Any other value is an error so it is never replaced.
func servers(doc map[string]any, path string) (map[string]any, error) {
	raw, ok := doc["mcpServers"]
	if !ok || raw == nil {
		s := map[string]any{}
		doc["mcpServers"] = s
		return s, nil
	}
	s, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("desktop: %s: mcpServers is %T, not an object", path, raw)
	}
	return s, nil
}

// Entry returns the configured scrapedo entry, or nil when there is none.
func Entry(path string) (*ServerEntry, error) {
	doc, err := load(path)
	if err != nil {
		return nil, err
	}
	srv, err := servers(doc, path)
	if err != nil {
		return nil, err
	}
	raw, ok := srv[ServerName]
	if !ok {
		return nil, nil
	}
	return toEntry(raw)
}

// Install writes entry into the config at path, creating the file and its
// directory when needed. Other servers and top-level keys are preserved.
// An existing entry is only replaced when force is set; otherwise it is
// returned together with ErrAlreadyConfigured.
func Install(path string, entry ServerEntry, force bool) (*ServerEntry, error) {
	doc, err := load(path)
	if err != nil {
		return nil, err
	}

	srv, err := servers(doc, path)
	if err != nil {
		return nil, err
	}
	if raw, ok := srv[ServerName]; ok && !force {
		existing, err := toEntry(raw)
		if err != nil {
			return nil, err
		}
		return existing, ErrAlreadyConfigured
	}
	srv[ServerName] = entry

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("desktop: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("desktop: create dir: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o600); err != nil {
		return nil, fmt.Errorf("desktop: write %s: %w", path, err)
	}
	return &entry, nil
}

func toEntry(raw any) (*ServerEntry, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("desktop: encode entry: %w", err)
	}
	var e ServerEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("desktop: malformed %s entry: %w", ServerName, err)
	}
	return &e, nil
}
