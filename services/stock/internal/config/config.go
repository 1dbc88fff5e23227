package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/pkg/config"
	"github.com/grayson061030/stockapi/pkg/logger"
)

const serviceName = "stock"

// Config 주식 서비스 설정 구조체
type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Log      logger.Config  `mapstructure:"log"`

	Logger *zap.Logger `mapstructure:"-" validate:"-"`
}

// defaults 설정 파일에 없는 키의 기본값
func defaults() map[string]any {
	return map[string]any{
		"service.name":                  serviceName,
		"service.environment":           "dev",
		"service.version":               "0.1.0",
		"service.enable_test_endpoints": true,

		"server.http.host":             "",
		"server.http.port":             8080,
		"server.http.shutdown_timeout": "10s",
		"server.grpc.enabled":          true,
		"server.grpc.host":             "",
		"server.grpc.port":             9090,

		"database.driver":             "sqlite",
		"database.path":               "file:stock.db?_foreign_keys=on",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "stock",
		"database.user":               "stock",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     20,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.log_level":          "warn",
		"database.slow_threshold":     "200ms",

		"redis.enabled":  false,
		"redis.addr":     "localhost:6379",
		"redis.password": "",
		"redis.db":       0,
		"redis.channel":  "stock.events",

		"cache.default_ttl":     "300s",
		"cache.sweep_interval":  "300s",
		"cache.list_ttl":        "60s",
		"cache.detail_ttl":      "30s",
		"cache.coalesce_misses": true,

		"seed.enabled":      true,
		"seed.stock_count":  50,
		"seed.history_days": 30,

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.development": false,
	}
}

// Load 설정 파일과 환경 변수를 읽고 검증한 뒤 로거를 생성합니다.
func Load(opts ...config.Option) (*Config, error) {
	opts = append([]config.Option{config.WithDefaults(defaults()), config.WithOptionalFile()}, opts...)

	raw, err := config.Load(serviceName, opts...)
	if err != nil {
		return nil, err
	}

	appConfig := &Config{}
	if err := raw.Unmarshal(appConfig); err != nil {
		return nil, fmt.Errorf("설정 디코딩 실패: %w", err)
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	appConfig.Logger, err = logger.NewZapLogger(appConfig.Log)
	if err != nil {
		return nil, err
	}

	return appConfig, nil
}

// Validate 설정 값의 범위를 검증합니다.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("설정 검증 실패: %w", err)
	}
	return nil
}
