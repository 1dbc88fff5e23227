// Package config는 애플리케이션 설정을 관리하는 패키지입니다.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	IsSet(key string) bool
	// Unmarshal 전체 설정을 mapstructure 태그를 가진 구조체로 디코딩합니다.
	Unmarshal(out any) error
	GetAll() map[string]any
}

// viperConfig는 viper를 사용하여 Config 인터페이스를 구현합니다.
type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string          { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *viperConfig) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *viperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *viperConfig) GetStringSlice(key string) []string   { return c.v.GetStringSlice(key) }
func (c *viperConfig) IsSet(key string) bool                { return c.v.IsSet(key) }
func (c *viperConfig) Unmarshal(out any) error              { return c.v.Unmarshal(out) }
func (c *viperConfig) GetAll() map[string]any               { return c.v.AllSettings() }

// 설정 디렉토리 경로
const configDir = "configs"

type loadOptions struct {
	defaults   map[string]any
	configPath string
	optional   bool
}

// Option Load 옵션
type Option func(*loadOptions)

// WithDefaults 설정 파일과 환경 변수에 없는 키의 기본값을 지정합니다.
// 환경 변수만으로 값을 덮어쓰려면 해당 키에 기본값이 있어야 합니다.
func WithDefaults(defaults map[string]any) Option {
	return func(o *loadOptions) {
		o.defaults = defaults
	}
}

// WithConfigPath 설정 파일 디렉토리를 지정합니다. CONFIG_PATH 환경 변수보다 우선합니다.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) {
		o.configPath = path
	}
}

// WithOptionalFile 설정 파일이 없어도 기본값과 환경 변수만으로 로드합니다.
func WithOptionalFile() Option {
	return func(o *loadOptions) {
		o.optional = true
	}
}

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
// configs/{APP_ENV}/{service}.yaml 을 먼저 찾고, 없으면 configs/example 을 사용합니다.
// 환경 변수는 {SERVICE}_ 접두사에 '.'을 '_'로 바꾼 키로 덮어씁니다. (예: STOCK_CACHE_LIST_TTL)
func Load(serviceName string, opts ...Option) (Config, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := o.configPath
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)
	v.AddConfigPath(filepath.Join(configDir, "example"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !(o.optional && errors.As(err, &notFound)) {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
