package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chatrelay/internal/config"
	"chatrelay/internal/pkg/logger"
)

var (
	cfgFile   string
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "ChatRelay - chat completion relay service",
	Long: `ChatRelay is a stateless HTTP relay in front of OpenAI-compatible chat models.
Clients send the whole conversation with every request and receive it back
with the assistant's reply appended.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

// legacyEnv 兼容旧版部署使用的环境变量
var legacyEnv = map[string]string{
	"rate_limit.hour":   "HOUR_LIMIT",
	"rate_limit.minute": "MINUTE_LIMIT",
	"rate_limit.second": "SECOND_LIMIT",
	"relay.route":       "ROUTE",
	"relay.api_key":     "API_KEY",
	"relay.save_logs":   "SAVE_LOGS",
	"relay.language":    "LANGUAGE",
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.chatrelay")
	}

	// 环境变量设置
	viper.SetEnvPrefix("CHATRELAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 带前缀的变量优先于旧变量名
	for key, env := range legacyEnv {
		prefixed := "CHATRELAY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = viper.BindEnv(key, prefixed, env)
	}

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 非数字的限流阈值视为不限制
	for _, key := range []string{"rate_limit.hour", "rate_limit.minute", "rate_limit.second"} {
		viper.Set(key, config.ParseCeiling(viper.GetString(key)))
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	closer, err := logger.Init(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logCloser = closer

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.trusted_proxies", []string{})

	// Relay
	viper.SetDefault("relay.route", "")
	viper.SetDefault("relay.api_key", "")
	viper.SetDefault("relay.save_logs", false)
	viper.SetDefault("relay.language", "zh")
	viper.SetDefault("relay.default_model", "gpt-3.5-turbo")
	viper.SetDefault("relay.default_max_tokens", 64)
	viper.SetDefault("relay.supported_models", []string{})
	viper.SetDefault("relay.max_body_bytes", 1<<20)

	// Rate limit
	viper.SetDefault("rate_limit.hour", 0)
	viper.SetDefault("rate_limit.minute", 0)
	viper.SetDefault("rate_limit.second", 0)
	viper.SetDefault("rate_limit.backend", "memory")
	viper.SetDefault("rate_limit.key_prefix", "chatrelay:ratelimit:")
	viper.SetDefault("rate_limit.idle_ttl", "2h")

	// AI
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.timeout", "60s")
	// 采样参数为 0 时不发送，使用上游默认值
	viper.SetDefault("ai.options.temperature", 0)
	viper.SetDefault("ai.options.top_p", 0)

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB
	viper.SetDefault("mongo.uri", "")
	viper.SetDefault("mongo.database", "chatrelay")
	viper.SetDefault("mongo.collection", "relay_logs")
	viper.SetDefault("mongo.retention", "720h")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 0)

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
