package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultOpenAIEnvironmentModel   = "gpt-4o-mini"
	defaultDeepSeekEnvironmentModel = "deepseek-chat"
	defaultEnvironmentMaxTokens     = 200
	defaultEnvironmentTemperature   = 0.4
	maxLocationRuneCount            = 120
)

const environmentSystemPrompt = `You are an assistant that reports environmental data for a given location.
Based on the location provided, describe the current weather conditions and the air quality index.
Respond with a single JSON object of the form {"weather": "...", "airQuality": "..."} and nothing else.`

var (
	// ErrLocationRequired 表示未提供城市或地区。
	ErrLocationRequired = errors.New("location is required")
	// ErrEnvironmentMalformed 表示模型输出不是约定的 JSON 结构。
	ErrEnvironmentMalformed = errors.New("environmental data response is malformed")
)

// EnvironmentalData 是某地的天气与空气质量描述（自由文本）。
type EnvironmentalData struct {
	Weather    string `json:"weather"`
	AirQuality string `json:"airQuality"`
}

// EnvironmentFetcher 抽象环境数据来源，任何满足“地点进、两段文本出”约定的实现均可替换。
type EnvironmentFetcher interface {
	Fetch(ctx context.Context, location string) (EnvironmentalData, error)
}

// EnvironmentService 通过大模型生成环境数据描述，不做缓存与重试。
type EnvironmentService struct {
	client *aiChatClient
}

// NewEnvironmentService 构造默认的 EnvironmentService。
func NewEnvironmentService(settings *SystemSettingService) *EnvironmentService {
	var source settingsSource
	if settings != nil {
		source = settings
	}
	return &EnvironmentService{
		client: newAIChatClient(source, defaultOpenAIEnvironmentModel, defaultDeepSeekEnvironmentModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *EnvironmentService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *EnvironmentService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *EnvironmentService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// SetOpenAIModel 指定 OpenAI 所使用的模型名称。
func (s *EnvironmentService) SetOpenAIModel(model string) {
	s.client.SetOpenAIModel(model)
}

// SetDeepSeekModel 指定 DeepSeek 所使用的模型名称。
func (s *EnvironmentService) SetDeepSeekModel(model string) {
	s.client.SetDeepSeekModel(model)
}

// Fetch 请求指定地点的天气与空气质量描述。
func (s *EnvironmentService) Fetch(ctx context.Context, location string) (EnvironmentalData, error) {
	location = truncateRunes(strings.TrimSpace(location), maxLocationRuneCount)
	if location == "" {
		return EnvironmentalData{}, ErrLocationRequired
	}

	userPrompt := "Location: " + location
	logEnvironmentExchange("prompt", location, userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: environmentSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    defaultEnvironmentMaxTokens,
		Temperature:  defaultEnvironmentTemperature,
		JSONMode:     true,
	})
	if err != nil {
		return EnvironmentalData{}, err
	}

	logEnvironmentExchange("response", location, result.Content)
	return parseEnvironmentalData(result.Content)
}

func parseEnvironmentalData(content string) (EnvironmentalData, error) {
	payload := stripCodeFence(content)

	var data EnvironmentalData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return EnvironmentalData{}, fmt.Errorf("%w: %v", ErrEnvironmentMalformed, err)
	}

	data.Weather = strings.TrimSpace(data.Weather)
	data.AirQuality = strings.TrimSpace(data.AirQuality)
	if data.Weather == "" || data.AirQuality == "" {
		return EnvironmentalData{}, fmt.Errorf("%w: weather and airQuality are required", ErrEnvironmentMalformed)
	}

	return data, nil
}

// stripCodeFence 去掉模型偶尔包裹的 ```json 代码块。
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func truncateRunes(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}
