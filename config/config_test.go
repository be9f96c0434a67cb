package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyJSONSections(t *testing.T) {
	raw := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"app": {"AppPort": "9000", "JWTSecret": "s3cret", "TokenTTLHours": 12, "AllowedOrigins": ["http://a", "http://b"], "MaxImageBytes": 1024},
		"database": {"Driver": "postgres", "DBHost": "db", "DBName": "social"},
		"redis": {"Enabled": true, "RedisPort": 6380, "CacheTTLSeconds": 30},
		"log": {"Level": "debug", "GinMode": "debug", "MaxBackups": 9}
	}`), &raw))

	var c AppConfig
	applyJSON(raw, &c)
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 12, c.TokenTTLHours)
	assert.Equal(t, []string{"http://a", "http://b"}, c.AllowedOrigins)
	assert.EqualValues(t, 1024, c.MaxImageBytes)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "db", c.DBHost)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, 30, c.CacheTTLSeconds)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 9, c.LogMaxBackups)
}

func TestApplyJSONFlatKeys(t *testing.T) {
	var c AppConfig
	applyJSON(map[string]any{"AppPort": "7000", "DatabaseURI": "file:x.db"}, &c)
	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, "file:x.db", c.DatabaseURI)
}

func TestDefaultsAndEnvOverrides(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 72, c.TokenTTLHours)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.EqualValues(t, 2<<20, c.MaxImageBytes)

	t.Setenv("APP_PORT", "9999")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a, http://b ,")
	t.Setenv("TOKEN_TTL_HOURS", "5")
	applyEnvOverrides(&c)
	assert.Equal(t, "9999", c.AppPort)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, []string{"http://a", "http://b"}, c.AllowedOrigins)
	assert.Equal(t, 5, c.TokenTTLHours)
}

func TestDialectorFor(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite", ""} {
		d, err := dialectorFor(AppConfig{DBDriver: driver, DBName: "social"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}
	_, err := dialectorFor(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}

type widget struct {
	ID   uint
	Name string
}

func TestOpenDatabaseSQLite(t *testing.T) {
	db, err := OpenDatabase(AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file:config_test?mode=memory&cache=shared",
		LogLevel:    "silent",
	}, &widget{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, db.Create(&widget{Name: "one"}).Error)
	var n int64
	require.NoError(t, db.Model(&widget{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
