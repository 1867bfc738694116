package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Server:     ServerConfig{Port: 8080},
		Database:   DatabaseConfig{Path: "./data/dubber.db"},
		Storage:    StorageConfig{ArtifactsDir: "./data/artifacts"},
		Processing: ProcessingConfig{Workers: 2},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate_InvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too large", 70000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Server.Port = tt.port
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidate_MissingPaths(t *testing.T) {
	cfg := validTestConfig()
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.Storage.ArtifactsDir = ""
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_CorrectsWorkerCount(t *testing.T) {
	cfg := validTestConfig()
	cfg.Processing.Workers = 0
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Processing.Workers)
}
