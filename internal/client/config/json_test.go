package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_endpoint_addr": "www.example:9000",
		"request_timeout":      "2s",
		"log_level":            "info",
		"session_file":         "/var/lib/nk.db",
	})

	var c Config
	c.LoadDefaults()
	parseJson(&c, []string{"-c", path})

	assert.Equal(t, "www.example:9000", c.ServerEndpointAddr)
	assert.Equal(t, 2*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval, "absent keys keep their value")
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "/var/lib/nk.db", c.SessionFile)
}

func Test_parseJson_NoPathIsNoop(t *testing.T) {
	var c Config
	c.LoadDefaults()
	want := c

	parseJson(&c, []string{"-a", "x:1"})
	assert.Equal(t, want, c)
}

func Test_parseJson_Panics(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	var c Config
	require.Panics(t, func() { parseJson(&c, []string{"-c", bad}) })
	require.Panics(t, func() { parseJson(&c, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}) })
}
