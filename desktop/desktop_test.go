package desktop

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	home := "/home/u"
	tests := []struct {
		goos, appData, want string
	}{
		{"darwin", "", filepath.Join(home, "Library", "Application Support", "Claude", configFile)},
		{"linux", "", filepath.Join(home, ".config", "Claude", configFile)},
		{"windows", "/appdata", filepath.Join("/appdata", "Claude", configFile)},
		{"windows", "", filepath.Join(home, "AppData", "Roaming", "Claude", configFile)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfigPath(tt.goos, home, tt.appData), tt.goos)
	}
}

func TestNewEntryPlaceholder(t *testing.T) {
	e := NewEntry("/bin/scrapedo", "", "")
	assert.True(t, e.HasPlaceholderKey())
	assert.Equal(t, "info", e.Env["LOG_LEVEL"])
	assert.Equal(t, []string{"mcp"}, e.Args)

	assert.False(t, NewEntry("/bin/scrapedo", "tok", "debug").HasPlaceholderKey())
}

func TestInstallCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Claude", configFile)
	entry := NewEntry("/bin/scrapedo", "tok", "info")

	_, err := Install(path, entry, false)
	require.NoError(t, err)

	got, err := Entry(path)
	require.NoError(t, err)
	if diff := cmp.Diff(&entry, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallPreservesOtherServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	existing := `{
  // hand edited
  "theme": "dark",
  "mcpServers": {
    "files": {"command": "files-mcp", "args": ["/tmp"],},
  },
}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	_, err := Install(path, NewEntry("/bin/scrapedo", "tok", "info"), false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dark", doc["theme"])
	srv := doc["mcpServers"].(map[string]any)
	assert.Contains(t, srv, "files")
	assert.Contains(t, srv, ServerName)
}

func TestInstallRespectsExistingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	first := NewEntry("/old/scrapedo", "old", "info")
	_, err := Install(path, first, false)
	require.NoError(t, err)

	existing, err := Install(path, NewEntry("/new/scrapedo", "new", "info"), false)
	assert.ErrorIs(t, err, ErrAlreadyConfigured)
	assert.Equal(t, "/old/scrapedo", existing.Command)

	_, err = Install(path, NewEntry("/new/scrapedo", "new", "info"), true)
	require.NoError(t, err)
	got, err := Entry(path)
	require.NoError(t, err)
	assert.Equal(t, "/new/scrapedo", got.Command)
	assert.Equal(t, "new", got.Env["SCRAPEDO_API_KEY"])
}

func TestEntryMissing(t *testing.T) {
	dir := t.TempDir()

	got, err := Entry(filepath.Join(dir, "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, got)

	path := filepath.Join(dir, configFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{}}`), 0o600))
	got, err = Entry(path)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := Entry(path)
	assert.Error(t, err)
	_, err = Install(path, NewEntry("/bin/scrapedo", "tok", "info"), true)
	assert.Error(t, err)
}

func TestInstallRejectsNonObjectServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	original := []byte(`{"mcpServers":["keep-me"]}`)
	require.NoError(t, os.WriteFile(path, original, 0o600))

	_, err := Install(path, NewEntry("/bin/scrapedo", "tok", "info"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcpServers")

	_, err = Entry(path)
	assert.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(string(original), string(after)); diff != "" {
		t.Errorf("config changed (-want +got):\n%s", diff)
	}
}

func TestInstallNullServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":null,"theme":"dark"}`), 0o600))

	_, err := Install(path, NewEntry("/bin/scrapedo", "tok", "info"), false)
	require.NoError(t, err)

	got, err := Entry(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/bin/scrapedo", got.Command)
}
