package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rms.yaml")
	yml := "port: \"9090\"\ndb_driver: mysql\ndb_dsn: \"root:pw@tcp(localhost:3306)/rms_db\"\ntax_rate: 0.05\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := LoadFile(path, Defaults())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "root:pw@tcp(localhost:3306)/rms_db", cfg.DBDSN)
	assert.InDelta(t, 0.05, cfg.TaxRate, 1e-9)
	// untouched keys keep defaults
	assert.Equal(t, "admin", cfg.AdminUser)
	assert.Equal(t, 5, cfg.DBConnectRetries)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), Defaults())
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "7000",
		"TAX_RATE":           "0.1",
		"DB_CONNECT_RETRIES": "not-a-number",
		"ADMIN_USER":         "clerk",
		"SEED_DEMO":          "false",
	}
	cfg := applyEnv(Defaults(), func(k string) string { return env[k] })

	assert.Equal(t, "7000", cfg.Port)
	assert.InDelta(t, 0.1, cfg.TaxRate, 1e-9)
	assert.Equal(t, 5, cfg.DBConnectRetries)
	assert.Equal(t, "clerk", cfg.AdminUser)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.False(t, cfg.SeedDemo)
}

func TestApplyEnvRejectsNegativeTax(t *testing.T) {
	cfg := applyEnv(Defaults(), func(k string) string {
		if k == "TAX_RATE" {
			return "-0.2"
		}
		return ""
	})
	assert.InDelta(t, 0.08, cfg.TaxRate, 1e-9)
}
