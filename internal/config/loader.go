package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 加载配置文件
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认配置文件搜索路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.femcare")
		v.AddConfigPath("/etc/femcare")
	}

	// 支持环境变量
	v.SetEnvPrefix("FEMCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果是找不到配置文件，则使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 替换环境变量
	expandEnvVars(&config)

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// Server 默认配置
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.debug", false)

	// Auth 默认配置
	v.SetDefault("auth.expire_hours", 24)

	// LLM 默认配置
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 500)

	// Cache 默认配置
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 1800)

	// DB 默认配置
	v.SetDefault("db.path", "./data/femcare.db")
}

// expandEnvVars 展开配置中的环境变量
func expandEnvVars(config *Config) {
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.LLM.APIKey = os.ExpandEnv(config.LLM.APIKey)
	config.LLM.BaseURL = os.ExpandEnv(config.LLM.BaseURL)
	config.Cache.Redis.Addr = os.ExpandEnv(config.Cache.Redis.Addr)
	config.Cache.Redis.Password = os.ExpandEnv(config.Cache.Redis.Password)
}
