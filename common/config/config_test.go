package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "jb", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=jb sslmode=disable", cfg.GetDSN())
}

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TESTDB_HOST", "pg.internal")
	t.Setenv("TESTDB_PORT", "6432")
	t.Setenv("TESTDB_NAME", "jagoanbunda")
	t.Setenv("TESTDB_MAX_CONNS", "not-a-number")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, MaxConns: 10}
	cfg.LoadFromEnv("TESTDB")

	assert.Equal(t, "pg.internal", cfg.Host)
	assert.Equal(t, 6432, cfg.Port)
	assert.Equal(t, "jagoanbunda", cfg.Database)
	assert.Equal(t, 10, cfg.MaxConns)
}

func TestRedisConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TESTREDIS_ADDR", "cache:6379")
	t.Setenv("TESTREDIS_DB", "3")

	var cfg RedisConfig
	cfg.LoadFromEnv("TESTREDIS")

	assert.Equal(t, "cache:6379", cfg.Addr)
	assert.Equal(t, 3, cfg.DB)
	assert.Empty(t, cfg.Password)
}
