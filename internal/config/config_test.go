package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("app:\n  version: 1.2.0\nauth:\n  jwt_secret: " + testSecret + "\n"))
	require.NoError(t, err)

	assert.Equal(t, "school-management-api", cfg.App.Name)
	assert.Equal(t, "1.2.0", cfg.App.Version)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "email-queue", cfg.Redis.EmailQueue)
	assert.Equal(t, ":dlq", cfg.Redis.DLQSuffix)
	assert.Equal(t, "password123", cfg.Import.DefaultParentPassword)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes)
	assert.Equal(t, 3, cfg.Email.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Email.BackoffBase)
	assert.Equal(t, "console", cfg.Email.Provider)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	raw := `
server:
  port: 9000
  read_timeout: 5s
redis:
  host: cache
  port: 6380
  email_queue: mail
database:
  host: db
  port: 3306
  user: app
  password: secret
  name: school
import:
  default_parent_password: changeme
auth:
  jwt_secret: 0123456789abcdef0123456789abcdef
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "mail", cfg.Redis.EmailQueue)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, "changeme", cfg.Import.DefaultParentPassword)
	assert.Equal(t,
		"app:secret@tcp(db:3306)/school?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true",
		cfg.DatabaseDSN())
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_PASSWORD", "db-env")

	cfg, err := Parse([]byte("auth:\n  jwt_secret: short\n"))
	require.NoError(t, err)

	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "db-env", cfg.Database.Password)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	assert.Error(t, err)
}

func TestParseRejectsWeakJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	for _, raw := range []string{
		"app:\n  name: api\n",
		"auth:\n  jwt_secret: \"\"\n",
		"auth:\n  jwt_secret: too-short\n",
	} {
		cfg, err := Parse([]byte(raw))
		assert.Nil(t, cfg, raw)
		if assert.Error(t, err, raw) {
			assert.Contains(t, err.Error(), "jwt_secret")
		}
	}
}
