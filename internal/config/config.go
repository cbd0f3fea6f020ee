package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Relay     RelayConfig     `mapstructure:"relay"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	AI        AIConfig        `mapstructure:"ai"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"` // 可信代理 (IP 或 CIDR)，为空时只使用连接地址识别客户端
}

// RelayConfig 转发接口配置
type RelayConfig struct {
	Route            string   `mapstructure:"route"`              // 路由后缀，空表示根路径
	APIKey           string   `mapstructure:"api_key"`            // 系统默认 API Key，非空时请求可不带 api_key
	SaveLogs         bool     `mapstructure:"save_logs"`          // 是否保存请求日志
	Language         string   `mapstructure:"language"`           // 提示语言 (zh/en)
	DefaultModel     string   `mapstructure:"default_model"`      // 请求未指定 model 时使用
	DefaultMaxTokens int      `mapstructure:"default_max_tokens"` // 请求未指定 max_tokens 时使用
	SupportedModels  []string `mapstructure:"supported_models"`   // 为空表示不限制模型
	MaxBodyBytes     int64    `mapstructure:"max_body_bytes"`
}

// RoutePath 返回转发接口的完整路径
func (r RelayConfig) RoutePath() string {
	route := strings.Trim(strings.TrimSpace(r.Route), "/")
	if route == "null" {
		route = ""
	}
	return "/" + route
}

// HasDefaultKey 是否配置了系统默认 API Key
func (r RelayConfig) HasDefaultKey() bool {
	return strings.TrimSpace(r.APIKey) != ""
}

// RateLimitConfig 限流配置，0 表示不限制
type RateLimitConfig struct {
	Hour      int           `mapstructure:"hour"`
	Minute    int           `mapstructure:"minute"`
	Second    int           `mapstructure:"second"`
	Backend   string        `mapstructure:"backend"`    // memory, redis
	KeyPrefix string        `mapstructure:"key_prefix"` // redis key 前缀
	IdleTTL   time.Duration `mapstructure:"idle_ttl"`   // 内存模式下空闲客户端的回收时间
}

// Enabled 是否配置了任意一个限流阈值
func (r RateLimitConfig) Enabled() bool {
	return r.Hour > 0 || r.Minute > 0 || r.Second > 0
}

// AIConfig AI 服务配置
// APIKey/Model 为空时由每次请求填充
type AIConfig struct {
	Provider   string          `mapstructure:"provider"`
	APIKey     string          `mapstructure:"api_key"`
	Model      string          `mapstructure:"model"`
	BaseURL    string          `mapstructure:"base_url"`
	APIVersion string          `mapstructure:"api_version"` // Azure 使用
	Timeout    time.Duration   `mapstructure:"timeout"`
	Options    AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置，仅在 save_logs 开启时使用
type MongoConfig struct {
	URI         string        `mapstructure:"uri"`
	Database    string        `mapstructure:"database"`
	Collection  string        `mapstructure:"collection"`
	Retention   time.Duration `mapstructure:"retention"` // 请求日志保留时间，0 表示永久保留
	MaxPoolSize uint64        `mapstructure:"max_pool_size"`
	MinPoolSize uint64        `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置，仅在 rate_limit.backend=redis 时使用
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.RateLimit.Hour < 0 || c.RateLimit.Minute < 0 || c.RateLimit.Second < 0 {
		return errors.New("rate limits must be non-negative")
	}

	switch c.RateLimit.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unsupported rate limit backend: %s", c.RateLimit.Backend)
	}

	switch c.AI.Provider {
	case "", "openai", "azure", "ark":
	default:
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}

	if c.Relay.DefaultMaxTokens < 0 {
		return errors.New("relay.default_max_tokens must be non-negative")
	}

	return nil
}

// ParseCeiling 解析限流阈值，不是非负整数时视为 0 (不限制)
func ParseCeiling(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
