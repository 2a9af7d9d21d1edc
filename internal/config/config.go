package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 设置存储后端
const (
	SettingsBackendFile     = "file"
	SettingsBackendPostgres = "postgres"
	SettingsBackendRedis    = "redis"
)

type Config struct {
	// Server
	ServerPort string `yaml:"port" validate:"required,numeric"`
	Debug      bool   `yaml:"debug"`
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// 设置存储 (API 密钥、主题)
	SettingsBackend string `yaml:"settings_backend" validate:"oneof=file postgres redis"`
	SettingsFile    string `yaml:"settings_file" validate:"required_if=SettingsBackend file"`
	DatabaseURL     string `yaml:"database_url" validate:"required_if=SettingsBackend postgres"`
	RedisAddr       string `yaml:"redis_addr" validate:"required_if=SettingsBackend redis"`
	RedisPassword   string `yaml:"redis_password"`

	// 充电桩信息接口
	APIEndpoint string        `yaml:"api_endpoint" validate:"required,url"`
	APIKey      string        `yaml:"api_key"` // 仅在存储中没有密钥时作为初始值
	KindDetail  string        `yaml:"kind_detail" validate:"required"`
	PageSize    int           `yaml:"page_size" validate:"gt=0"`
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`

	// 轮询
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gt=0"`

	// 手动刷新限流
	ManualRefreshPerMinute int `yaml:"manual_refresh_per_minute" validate:"gt=0"`

	// 分析
	PricePerKWh float64 `yaml:"price_per_kwh" validate:"gte=0"`
	Timezone    string  `yaml:"timezone" validate:"required"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		ServerPort:             "4000",
		LogLevel:               "info",
		SettingsBackend:        SettingsBackendFile,
		SettingsFile:           "settings.json",
		APIEndpoint:            "https://apis.data.go.kr/B552584/EvCharger/getChargerInfo",
		KindDetail:             "C001",
		PageSize:               9999,
		HTTPTimeout:            30 * time.Second,
		RefreshInterval:        5 * time.Minute,
		ManualRefreshPerMinute: 6,
		PricePerKWh:            300,
		Timezone:               "Asia/Seoul",
	}
}

func Load() (*Config, error) {
	// 尝试加载 .env 文件（可选）
	_ = godotenv.Load()

	cfg := Default()

	// 可选的 YAML 配置文件，环境变量优先
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile 读取 YAML 配置
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// applyEnv 用环境变量覆盖
func (c *Config) applyEnv() {
	c.ServerPort = getEnv("PORT", c.ServerPort)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SettingsBackend = getEnv("SETTINGS_BACKEND", c.SettingsBackend)
	c.SettingsFile = getEnv("SETTINGS_FILE", c.SettingsFile)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.APIEndpoint = getEnv("EVCHARGER_API_URL", c.APIEndpoint)
	c.APIKey = getEnv("EVCHARGER_API_KEY", c.APIKey)
	c.KindDetail = getEnv("EVCHARGER_KIND_DETAIL", c.KindDetail)
	c.PageSize = getEnvInt("EVCHARGER_PAGE_SIZE", c.PageSize)
	c.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.RefreshInterval = getEnvDuration("REFRESH_INTERVAL", c.RefreshInterval)
	c.ManualRefreshPerMinute = getEnvInt("MANUAL_REFRESH_PER_MINUTE", c.ManualRefreshPerMinute)
	c.PricePerKWh = getEnvFloat("PRICE_PER_KWH", c.PricePerKWh)
	c.Timezone = getEnv("TIMEZONE", c.Timezone)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Location 解析时区，失败时使用本地时区
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
