package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsToBuildSecret(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	c, err := New()
	assert.NoError(t, err)
	assert.Equal(t, EnvBuild, c.Env)
	assert.Equal(t, buildSecret, c.JWTSecret)
}

func TestNew_TestEnvSecret(t *testing.T) {
	t.Setenv("APP_ENV", EnvTest)
	t.Setenv("JWT_SECRET", "")

	c, err := New()
	assert.NoError(t, err)
	assert.Equal(t, testSecret, c.JWTSecret)
}

func TestNew_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "")

	_, err := New()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SecretNotFound")
}

func TestNew_ExplicitSecretWins(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "super-secret")

	c, err := New()
	assert.NoError(t, err)
	assert.Equal(t, "super-secret", c.JWTSecret)
}

func TestNew_ParsesAllowedOrigins(t *testing.T) {
	t.Setenv("APP_ENV", EnvTest)
	t.Setenv("ALLOWED_ORIGINS", "https://app.mindhaven.example, https://staging.mindhaven.example")

	c, err := New()
	assert.NoError(t, err)
	assert.Equal(t, []string{"https://app.mindhaven.example", "https://staging.mindhaven.example"}, c.AllowedOrigins)
}
