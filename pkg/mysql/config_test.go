package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 3307, User: "ledger", Password: "secret", DBName: "bank"}

	assert.Equal(t, "ledger:secret@tcp(db:3307)/bank?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := Config{MaxOpenConns: 50}
	cfg.SetDefaults()

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, 50, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryInterval)
}
