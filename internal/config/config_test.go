package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /var/lib/proxyconf/profiles.db
geoip:
  asn_path: GeoLite2-ASN.mmdb
  country_path: GeoLite2-Country.mmdb
import:
  http_timeout: 10s
export:
  format: xray
check:
  timeout: 3s
  retries: 2
  worker_count: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/proxyconf/profiles.db", cfg.Database.Path)
	assert.Equal(t, "GeoLite2-ASN.mmdb", cfg.GeoIP.ASNPath)
	assert.Equal(t, "GeoLite2-Country.mmdb", cfg.GeoIP.CountryPath)
	assert.Equal(t, 10*time.Second, cfg.Import.HTTPTimeout)
	assert.Equal(t, "xray", cfg.Export.Format)
	assert.Equal(t, 3*time.Second, cfg.Check.Timeout)
	assert.Equal(t, 2, cfg.Check.Retries)
	assert.Equal(t, 8, cfg.Check.WorkerCount)
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := writeConfig(t, "check:\n  retries: -3\n  worker_count: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "proxyconf.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.Import.HTTPTimeout)
	assert.Equal(t, "uri", cfg.Export.Format)
	assert.Equal(t, 5*time.Second, cfg.Check.Timeout)
	assert.Equal(t, 0, cfg.Check.Retries)
	assert.Equal(t, 16, cfg.Check.WorkerCount)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaults(), *cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "database: [unclosed"))
	assert.Error(t, err)
}
