package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chronitrack/internal/db"
	"github.com/chronitrack/internal/secret"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// AIProviderOpenAI 表示使用 OpenAI 能力。
	AIProviderOpenAI = "openai"
	// AIProviderDeepSeek 表示使用 DeepSeek 能力。
	AIProviderDeepSeek = "deepseek"
)

var supportedAIProviders = []string{AIProviderOpenAI, AIProviderDeepSeek}

// SystemSettings 描述可配置的系统信息，API Key 为解密后的明文。
type SystemSettings struct {
	AIProvider      string
	OpenAIAPIKey    string
	DeepSeekAPIKey  string
	DefaultLocation string
	ExportPrefix    string
}

// ErrAIAPIKeyMissing 表示未提供必需的 AI 平台 API Key。
var ErrAIAPIKeyMissing = errors.New("api key is required")

// SystemSettingsInput 用于更新系统设置。
// API Key 为 nil 时保留原值，指向空字符串时清除。
type SystemSettingsInput struct {
	AIProvider      string
	OpenAIAPIKey    *string
	DeepSeekAPIKey  *string
	DefaultLocation string
	ExportPrefix    string
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	db              *gorm.DB
	box             *secret.Box
	defaults        SystemSettings
	httpClient      httpDoer
	openAIBaseURL   string
	deepSeekBaseURL string
}

// NewSystemSettingService 构造 SystemSettingService。
// defaults 来自启动配置，数据库中没有对应记录时使用。
func NewSystemSettingService(gdb *gorm.DB, box *secret.Box, defaults SystemSettings) *SystemSettingService {
	if normalizeAIProvider(defaults.AIProvider) == "" {
		defaults.AIProvider = AIProviderOpenAI
	}
	if strings.TrimSpace(defaults.DefaultLocation) == "" {
		defaults.DefaultLocation = "New York"
	}
	if strings.TrimSpace(defaults.ExportPrefix) == "" {
		defaults.ExportPrefix = "chronitrack"
	}

	return &SystemSettingService{
		db:              gdb,
		box:             box,
		defaults:        defaults,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		openAIBaseURL:   "https://api.openai.com/v1",
		deepSeekBaseURL: "https://api.deepseek.com/v1",
	}
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var settingKeys = []string{
	db.SettingKeyAIProvider,
	db.SettingKeyOpenAIAPIKey,
	db.SettingKeyDeepSeekAPIKey,
	db.SettingKeyDefaultLocation,
	db.SettingKeyExportPrefix,
}

// GetSettings 读取系统设置，如未设置将返回默认值。
func (s *SystemSettingService) GetSettings() (SystemSettings, error) {
	result := s.defaults

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeyAIProvider:
			if provider := normalizeAIProvider(record.Value); provider != "" {
				result.AIProvider = provider
			}
		case db.SettingKeyOpenAIAPIKey:
			if key, err := s.open(record.Value); err != nil {
				return result, fmt.Errorf("open openai key: %w", err)
			} else if key != "" {
				result.OpenAIAPIKey = key
			}
		case db.SettingKeyDeepSeekAPIKey:
			if key, err := s.open(record.Value); err != nil {
				return result, fmt.Errorf("open deepseek key: %w", err)
			} else if key != "" {
				result.DeepSeekAPIKey = key
			}
		case db.SettingKeyDefaultLocation:
			if strings.TrimSpace(record.Value) != "" {
				result.DefaultLocation = record.Value
			}
		case db.SettingKeyExportPrefix:
			if strings.TrimSpace(record.Value) != "" {
				result.ExportPrefix = record.Value
			}
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置，空值回退默认值。
func (s *SystemSettingService) UpdateSettings(input SystemSettingsInput) (SystemSettings, error) {
	provider := normalizeAIProvider(input.AIProvider)
	if provider == "" {
		provider = s.defaults.AIProvider
	}

	location := strings.TrimSpace(input.DefaultLocation)
	prefix := sanitizeExportPrefix(input.ExportPrefix)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, db.SettingKeyAIProvider, provider); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeyDefaultLocation, location); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeyExportPrefix, prefix); err != nil {
			return err
		}
		if input.OpenAIAPIKey != nil {
			if err := s.upsertSealed(tx, db.SettingKeyOpenAIAPIKey, *input.OpenAIAPIKey); err != nil {
				return err
			}
		}
		if input.DeepSeekAPIKey != nil {
			if err := s.upsertSealed(tx, db.SettingKeyDeepSeekAPIKey, *input.DeepSeekAPIKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SystemSettings{}, fmt.Errorf("update system settings: %w", err)
	}

	return s.GetSettings()
}

func (s *SystemSettingService) upsertSealed(tx *gorm.DB, key, plain string) error {
	plain = strings.TrimSpace(plain)
	value := plain
	if s.box != nil {
		sealed, err := s.box.Seal(plain)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		value = sealed
	}
	return upsertSetting(tx, key, value)
}

func (s *SystemSettingService) open(value string) (string, error) {
	if s.box == nil || !secret.IsSealed(value) {
		return value, nil
	}
	return s.box.Open(value)
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// SetHTTPClient 替换用于访问第三方服务的 HTTP 客户端，主要面向测试场景。
func (s *SystemSettingService) SetHTTPClient(client httpDoer) {
	if client == nil {
		s.httpClient = &http.Client{Timeout: 10 * time.Second}
		return
	}
	s.httpClient = client
}

// SetOpenAIBaseURL 覆盖 OpenAI API 的基础地址，便于测试或自定义代理。
func (s *SystemSettingService) SetOpenAIBaseURL(base string) {
	s.openAIBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// SetDeepSeekBaseURL 覆盖 DeepSeek API 的基础地址，便于测试或自定义代理。
func (s *SystemSettingService) SetDeepSeekBaseURL(base string) {
	s.deepSeekBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// TestAIConnection 调用指定 AI 平台的模型接口验证 API Key 的有效性。
// apiKey 为空时使用已保存的 Key。
func (s *SystemSettingService) TestAIConnection(ctx context.Context, provider, apiKey string) error {
	prov := normalizeAIProvider(provider)
	if prov == "" {
		prov = AIProviderOpenAI
	}

	key := strings.TrimSpace(apiKey)
	if key == "" {
		settings, err := s.GetSettings()
		if err != nil {
			return err
		}
		if prov == AIProviderDeepSeek {
			key = settings.DeepSeekAPIKey
		} else {
			key = settings.OpenAIAPIKey
		}
	}
	if key == "" {
		return ErrAIAPIKeyMissing
	}

	client := s.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	base, label := s.openAIBaseURL, "OpenAI"
	if prov == AIProviderDeepSeek {
		base, label = s.deepSeekBaseURL, "DeepSeek"
	}
	if strings.TrimSpace(base) == "" {
		base = defaultBaseURL(prov)
	}

	endpoint := strings.TrimRight(base, "/") + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", strings.ToLower(label), err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("User-Agent", "chronitrack/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("请求 %s 接口失败: %w", label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return fmt.Errorf("%s 返回错误：%s (%s)", label, resp.Status, msg)
		}
		return fmt.Errorf("%s 返回错误：%s", label, resp.Status)
	}

	return nil
}

func normalizeAIProvider(provider string) string {
	trimmed := strings.ToLower(strings.TrimSpace(provider))
	for _, candidate := range supportedAIProviders {
		if trimmed == candidate {
			return candidate
		}
	}
	return ""
}

func defaultBaseURL(provider string) string {
	if provider == AIProviderDeepSeek {
		return "https://api.deepseek.com/v1"
	}
	return "https://api.openai.com/v1"
}

// sanitizeExportPrefix 只保留适合作为文件名的字符。
func sanitizeExportPrefix(prefix string) string {
	var builder strings.Builder
	for _, r := range strings.TrimSpace(prefix) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		case r == ' ':
			builder.WriteRune('_')
		}
	}
	return builder.String()
}
