package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// 指向一个空目录,强制走默认值
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 24, cfg.Auth.ExpireHrs)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 1800, cfg.Cache.TTL)
	assert.Equal(t, "./data/femcare.db", cfg.DB.Path)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http:
    port: 9090
    debug: true
llm:
  model: gpt-4o-mini
  api_key: ${TEST_OPENAI_KEY}
cache:
  type: redis
  redis:
    addr: 127.0.0.1:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("TEST_OPENAI_KEY", "sk-test-123")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.True(t, cfg.Server.HTTP.Debug)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	// 环境变量引用被展开
	assert.Equal(t, "sk-test-123", cfg.LLM.APIKey)
	assert.Equal(t, "redis", cfg.Cache.Type)
	// 文件未覆盖的键保留默认值
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
}

func TestLoadConfigBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
