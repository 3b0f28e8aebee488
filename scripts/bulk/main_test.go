package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/scrapedo-mcp/models"
)

func TestCheckFlags(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		retries     int
		wantErr     bool
	}{
		{"defaults", 3, 0, false},
		{"single worker", 1, 2, false},
		{"zero concurrency", 0, 0, true},
		{"negative concurrency", -1, 0, true},
		{"negative retries", 3, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFlags(tt.concurrency, tt.retries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCollectURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://a.example\n\n# skipped\n  https://b.example  \n"), 0o600))

	urls, err := collectURLs(path, []string{"https://c.example"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://c.example", "https://a.example", "https://b.example"}, urls)

	_, err = collectURLs(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestRetryDelay(t *testing.T) {
	se := &models.ScrapedoError{Details: map[string]any{"retryAfter": "7"}}
	assert.Equal(t, 7*time.Second, retryDelay(se))
	assert.Equal(t, defaultRetryDelay, retryDelay(&models.ScrapedoError{}))
}
