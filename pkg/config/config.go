package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/betbot/gov20/pkg/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "https://api-fxpractice.oanda.com"
	DefaultTimeout  = 30 * time.Second
	DefaultTokenKey = "env/V20_TOKEN"
)

// V20Config 交易接口配置
type V20Config struct {
	BaseURL   string
	AccountID string
	Token     string // bearer token；为空时尝试从 secret store 读取
	Timeout   time.Duration
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// SecretsConfig badger secret store 配置
type SecretsConfig struct {
	DBPath   string
	Key      string // 32 字节 base64/hex
	TokenKey string // token 在 store 中的 key
}

// Config 应用配置
type Config struct {
	V20     V20Config
	Log     LogConfig
	Secrets SecretsConfig
}

// ConfigFile 配置文件结构（用于 YAML 解析）
type ConfigFile struct {
	V20 struct {
		BaseURL        string `yaml:"base_url"`
		AccountID      string `yaml:"account_id"`
		Token          string `yaml:"token"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"v20"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   *bool  `yaml:"compress"`
	} `yaml:"log"`
	Secrets struct {
		DB       string `yaml:"db"`
		Key      string `yaml:"key"`
		TokenKey string `yaml:"token_key"`
	} `yaml:"secrets"`
}

// TokenSource 可以按 key 读取字符串的存储（secretstore.Store 满足）
type TokenSource interface {
	GetString(key string) (string, bool, error)
}

// LoadFromFile 加载配置
// 优先级：环境变量 > 配置文件 > 默认值；filePath 为空时只用环境变量和默认值
func LoadFromFile(filePath string) (*Config, error) {
	cf := &ConfigFile{}
	if filePath != "" {
		var err error
		cf, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	timeout := DefaultTimeout
	if cf.V20.TimeoutSeconds > 0 {
		timeout = time.Duration(cf.V20.TimeoutSeconds) * time.Second
	}
	if s := parseIntEnv("V20_TIMEOUT_SECONDS", 0); s > 0 {
		timeout = time.Duration(s) * time.Second
	}

	compress := true
	if cf.Log.Compress != nil {
		compress = *cf.Log.Compress
	}

	config := &Config{
		V20: V20Config{
			BaseURL:   getEnv("V20_BASE_URL", orDefault(cf.V20.BaseURL, DefaultBaseURL)),
			AccountID: getEnv("V20_ACCOUNT_ID", cf.V20.AccountID),
			Token:     getEnv("V20_TOKEN", cf.V20.Token),
			Timeout:   timeout,
		},
		Log: LogConfig{
			Level:      getEnv("GOBET_LOG_LEVEL", orDefault(cf.Log.Level, "info")),
			File:       getEnv("GOBET_LOG_FILE", cf.Log.File),
			MaxSize:    orDefaultInt(cf.Log.MaxSize, 100),
			MaxBackups: orDefaultInt(cf.Log.MaxBackups, 3),
			MaxAge:     orDefaultInt(cf.Log.MaxAge, 7),
			Compress:   compress,
		},
		Secrets: SecretsConfig{
			DBPath:   getEnv("GOBET_SECRET_DB", cf.Secrets.DB),
			Key:      getEnv("GOBET_SECRET_KEY", cf.Secrets.Key),
			TokenKey: getEnv("GOBET_SECRET_TOKEN_KEY", orDefault(cf.Secrets.TokenKey, DefaultTokenKey)),
		},
	}
	config.V20.BaseURL = strings.TrimSuffix(config.V20.BaseURL, "/")
	return config, nil
}

func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("解析 YAML 失败: %w", err)
	}
	return &cf, nil
}

// ResolveToken token 未配置时从 src 读取
func (c *Config) ResolveToken(src TokenSource) error {
	if c.V20.Token != "" || src == nil {
		return nil
	}
	tok, ok, err := src.GetString(c.Secrets.TokenKey)
	if err != nil {
		return fmt.Errorf("读取 token 失败: %w", err)
	}
	if !ok || strings.TrimSpace(tok) == "" {
		return fmt.Errorf("secret store 中没有 %s", c.Secrets.TokenKey)
	}
	c.V20.Token = strings.TrimSpace(tok)
	return nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.V20.BaseURL == "" {
		return fmt.Errorf("V20_BASE_URL 未配置")
	}
	if c.V20.AccountID == "" {
		return fmt.Errorf("V20_ACCOUNT_ID 未配置")
	}
	if c.V20.Token == "" {
		return fmt.Errorf("V20_TOKEN 未配置（也可以放在 secret store 的 %s 中）", c.Secrets.TokenKey)
	}
	if c.V20.Timeout <= 0 {
		return fmt.Errorf("超时时间必须大于 0")
	}
	return nil
}

// LoggerConfig 转成 logger.Config
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		OutputFile: c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
