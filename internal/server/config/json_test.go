package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJson_NoFileFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, c.EndpointAddr, ":8080")
	assert.Equal(t, c.TokenValidityDuration, 60*time.Minute)
}

func TestParseJson_OverlaysValues(t *testing.T) {
	path := writeTempConfig(t, `{
		"endpoint_addr": ":9090",
		"database_dsn": "postgres://u:p@db:5432/snaplist",
		"secret_key": "json-secret",
		"token_validity_duration": "30m",
		"cors_allowed_origins": ["https://snaplist.example"],
		"auth_rate_limit_rps": 2,
		"auth_rate_limit_burst": 4
	}`)

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, c.EndpointAddr, ":9090")
	assert.Equal(t, c.DatabaseDSN, "postgres://u:p@db:5432/snaplist")
	assert.Equal(t, c.SecretKey, "json-secret")
	assert.Equal(t, c.TokenValidityDuration, 30*time.Minute)
	assert.Equal(t, c.CORSAllowedOrigins, []string{"https://snaplist.example"})
	assert.Equal(t, c.AuthRateLimitRPS, float64(2))
	assert.Equal(t, c.AuthRateLimitBurst, 4)
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `{"database_dsn": "postgres://u:p@db:5432/snaplist"}`)

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, c.DatabaseDSN, "postgres://u:p@db:5432/snaplist")
	assert.Equal(t, c.EndpointAddr, ":8080")
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.TokenValidityDuration, 60*time.Minute)
}

func TestParseJson_InvalidJSONPanics(t *testing.T) {
	path := writeTempConfig(t, `{not json`)

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()

	require.Panics(t, func() { parseJson(c) })
}
