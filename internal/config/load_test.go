package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `platform_domain: example-saas.com
cloudflare:
  account_id: acct-1
  zone_id: zone-1
  worker_script: router
r2:
  bucket: tenant-sites
  access_key: ak
  secret_key: sk
d1:
  database_id: db-1
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "token-from-env")
	path := writeTempConfig(t, validYAML)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "example-saas.com", cfg.PlatformDomain)
	assert.Equal(t, "acct-1", cfg.Cloudflare.AccountID)
	assert.Equal(t, "token-from-env", cfg.Cloudflare.APIToken)
	assert.Equal(t, "tenant-sites", cfg.R2.Bucket)
	assert.Equal(t, "db-1", cfg.D1.DatabaseID)
}

func TestEnvOverridesFileValues(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "env-token")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "env-acct")
	t.Setenv("D1_DATABASE_ID", "env-db")
	path := writeTempConfig(t, validYAML+"\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "env-acct", cfg.Cloudflare.AccountID)
	assert.Equal(t, "env-db", cfg.D1.DatabaseID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, ":\n  - not yaml")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "")

	cfg := &Config{R2: R2Config{Bucket: "b"}}
	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform_domain is required")
	assert.Contains(t, err.Error(), "cloudflare.account_id is required")
	assert.Contains(t, err.Error(), "cloudflare.zone_id is required")
	assert.Contains(t, err.Error(), "cloudflare.worker_script is required")
	assert.Contains(t, err.Error(), "R2_ACCESS_KEY_ID")
	assert.Contains(t, err.Error(), "d1.database_id is required")
}

func TestValidateMissingToken(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", "")
	path := writeTempConfig(t, validYAML)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLOUDFLARE_API_TOKEN")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := &Config{
		PlatformDomain: "example-saas.com",
		Cloudflare:     CloudflareConfig{AccountID: "a", ZoneID: "z", WorkerScript: "w"},
		R2:             R2Config{Bucket: "b"},
		D1:             D1Config{DatabaseID: "d"},
	}

	require.NoError(t, Save(cfg, path))

	loaded, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.PlatformDomain, loaded.PlatformDomain)
	assert.Equal(t, cfg.Cloudflare.ZoneID, loaded.Cloudflare.ZoneID)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultConfigFilename), []byte("platform_domain: x\n"), 0600))

	t.Chdir(nested)

	path, err := FindConfigFile()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultConfigFilename), path)
}
