package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const defaultDatabasePath = "file:chronitrack?mode=memory&cache=shared"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string `yaml:"listen_addr"`
	Port            string `yaml:"port"`
	DatabasePath    string `yaml:"database_path"`
	SessionSecret   string `yaml:"session_secret"`
	GinMode         string `yaml:"gin_mode"`
	DayBoundaryTZ   string `yaml:"day_boundary_tz"`
	ExportPrefix    string `yaml:"export_prefix"`
	DefaultLocation string `yaml:"default_location"`
	SeedSampleData  bool   `yaml:"seed_sample_data"`
	AIProvider      string `yaml:"ai_provider"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	DeepSeekAPIKey  string `yaml:"deepseek_api_key"`
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 设置 CONFIG_FILE 时先读取 YAML 文件，环境变量优先级更高。
func Load() (AppConfig, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	if _, err := time.LoadLocation(cfg.DayBoundaryTZ); err != nil {
		return cfg, fmt.Errorf("invalid DAY_BOUNDARY_TZ %q: %w", cfg.DayBoundaryTZ, err)
	}

	return cfg, nil
}

// Default 返回未经任何覆盖的默认配置。
func Default() AppConfig {
	return AppConfig{
		Port:            "8080",
		DatabasePath:    defaultDatabasePath,
		SessionSecret:   "chronitrack-dev-secret",
		GinMode:         "release",
		DayBoundaryTZ:   "UTC",
		ExportPrefix:    "chronitrack",
		DefaultLocation: "New York",
		SeedSampleData:  true,
		AIProvider:      "openai",
	}
}

// DayBoundary 返回按天分组使用的时区，配置无效时回退到 UTC。
func (c AppConfig) DayBoundary() *time.Location {
	loc, err := time.LoadLocation(c.DayBoundaryTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse YAML config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.DayBoundaryTZ, "DAY_BOUNDARY_TZ")
	setString(&cfg.ExportPrefix, "EXPORT_PREFIX")
	setString(&cfg.DefaultLocation, "DEFAULT_LOCATION")
	setString(&cfg.AIProvider, "AI_PROVIDER")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.DeepSeekAPIKey, "DEEPSEEK_API_KEY")

	if raw := strings.TrimSpace(os.Getenv("SEED_SAMPLE_DATA")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.SeedSampleData = v
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
