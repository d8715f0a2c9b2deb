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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "jwt_secret_key: secret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultPropagationParallelism, cfg.PropagationParallelism)
	assert.Equal(t, DefaultIntrospectionTimeout, cfg.IntrospectionTimeout)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoad_ReadsFileValues(t *testing.T) {
	path := writeConfig(t, `
jwt_secret_key: secret
api_port: 9000
db_path: /tmp/clustercalm.db
log_format: text
propagation_parallelism: 2
introspection_timeout: 3s
cors_origins:
  - https://a.example
  - https://b.example
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "/tmp/clustercalm.db", cfg.DBPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 2, cfg.PropagationParallelism)
	assert.Equal(t, 3*time.Second, cfg.IntrospectionTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "jwt_secret_key: secret\napi_port: 9000\n")
	t.Setenv("CLUSTERCALM_API_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.APIPort)
}

func TestLoad_RequiresSecret(t *testing.T) {
	path := writeConfig(t, "api_port: 9000\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt_secret_key is required")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecretKey:           "secret",
			JWTAlgorithm:           "HS256",
			APIPort:                8336,
			DBPath:                 ":memory:",
			LogFormat:              "json",
			PropagationParallelism: 1,
			IntrospectionTimeout:   time.Second,
		}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.JWTAlgorithm = "RS256"
	assert.Error(t, c.Validate())

	c = valid()
	c.PropagationParallelism = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.SSLCert = "/nonexistent/cert.pem"
	assert.ErrorContains(t, c.Validate(), "both ssl_cert and ssl_key")
}
