package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("VENCIMENTO_CRON", "")
	t.Setenv("AUTH_RSA_PRIVATE_PATH", "")

	c := FromEnv()
	assert.Equal(t, "8080", c.Porta)
	assert.Equal(t, uint(5432), c.DBPort)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CorsOrigins)
	assert.Equal(t, "@every 1h", c.VencimentoCron)
	assert.False(t, c.AuthHabilitada())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_SSL_MODE_DISABLE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local,")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_RSA_PRIVATE_PATH", "/run/keys/priv.pem")

	c := FromEnv()
	assert.Equal(t, uint(6543), c.DBPort)
	assert.True(t, c.DBSSLDisable)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, c.CorsOrigins)
	assert.True(t, c.Producao())
	assert.True(t, c.AuthHabilitada())
}

func TestGetEnvIntInvalido(t *testing.T) {
	t.Setenv("DB_PORT", "abc")
	assert.Equal(t, 5432, getEnvInt("DB_PORT", 5432))
}
