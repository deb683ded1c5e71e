package db

import "gorm.io/gorm"

// SystemSetting 存储可配置的系统级键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeyAIProvider 表示环境数据使用的 AI 平台。
	SettingKeyAIProvider = "ai_provider"
	// SettingKeyOpenAIAPIKey 表示 OpenAI API Key（加密存储）。
	SettingKeyOpenAIAPIKey = "openai_api_key"
	// SettingKeyDeepSeekAPIKey 表示 DeepSeek API Key（加密存储）。
	SettingKeyDeepSeekAPIKey = "deepseek_api_key"
	// SettingKeyDefaultLocation 表示环境数据的默认城市。
	SettingKeyDefaultLocation = "default_location"
	// SettingKeyExportPrefix 表示导出 CSV 文件名前缀。
	SettingKeyExportPrefix = "export_prefix"
)
