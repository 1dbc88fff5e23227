package config

import (
	"fmt"
	"time"
)

type ServiceConfig struct {
	Name                string `mapstructure:"name" validate:"required"`
	Environment         string `mapstructure:"environment"`
	Version             string `mapstructure:"version"`
	EnableTestEndpoints bool   `mapstructure:"enable_test_endpoints"`
}

type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
}

type HTTPConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// Addr returns the listen address.
func (c GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	Channel  string `mapstructure:"channel" validate:"required_if=Enabled true"`
}

// CacheConfig 인메모리 캐시 설정.
// 목록 TTL은 상세 TTL보다 짧을 수 없습니다.
type CacheConfig struct {
	DefaultTTL     time.Duration `mapstructure:"default_ttl" validate:"gt=0"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval" validate:"min=0"`
	ListTTL        time.Duration `mapstructure:"list_ttl" validate:"gt=0,gtefield=DetailTTL"`
	DetailTTL      time.Duration `mapstructure:"detail_ttl" validate:"gt=0"`
	CoalesceMisses bool          `mapstructure:"coalesce_misses"`
}

type SeedConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	StockCount  int  `mapstructure:"stock_count" validate:"min=0,max=10000"`
	HistoryDays int  `mapstructure:"history_days" validate:"min=1,max=365"`
}
