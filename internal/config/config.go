package config

// Config 全局配置
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Cache  CacheConfig  `mapstructure:"cache"`
	DB     DBConfig     `mapstructure:"db"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	ExpireHrs int    `mapstructure:"expire_hours"` // Token 有效期(小时)
}

// LLMConfig 完成服务配置
type LLMConfig struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// CacheConfig 会话历史缓存配置
type CacheConfig struct {
	Type  string      `mapstructure:"type"` // memory | redis
	TTL   int         `mapstructure:"ttl"`  // 秒
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Path string `mapstructure:"path"`
}
