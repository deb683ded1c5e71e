package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/chronitrack/internal/db"
	"github.com/chronitrack/internal/secret"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:settings-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.SystemSetting{}); err != nil {
		t.Fatalf("failed to migrate system settings: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func newTestSettings(t *testing.T, defaults SystemSettings) (*SystemSettingService, *gorm.DB) {
	t.Helper()
	gdb := setupSettingsTestDB(t)
	box, err := secret.NewBox("test-secret")
	if err != nil {
		t.Fatalf("failed to create box: %v", err)
	}
	return NewSystemSettingService(gdb, box, defaults), gdb
}

func TestSystemSettingServiceDefaults(t *testing.T) {
	svc, _ := newTestSettings(t, SystemSettings{OpenAIAPIKey: "env-key"})

	settings, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("get settings failed: %v", err)
	}

	if settings.AIProvider != AIProviderOpenAI {
		t.Fatalf("expected default provider openai, got %s", settings.AIProvider)
	}
	if settings.DefaultLocation != "New York" || settings.ExportPrefix != "chronitrack" {
		t.Fatalf("unexpected defaults %+v", settings)
	}
	if settings.OpenAIAPIKey != "env-key" {
		t.Fatalf("expected env fallback key, got %q", settings.OpenAIAPIKey)
	}
}

func TestSystemSettingServiceUpdateSealsKeys(t *testing.T) {
	svc, gdb := newTestSettings(t, SystemSettings{})

	key := "sk-stored-9876"
	updated, err := svc.UpdateSettings(SystemSettingsInput{
		AIProvider:      "DeepSeek",
		DeepSeekAPIKey:  &key,
		DefaultLocation: "Lisbon",
		ExportPrefix:    "my log/2024",
	})
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}

	if updated.AIProvider != AIProviderDeepSeek {
		t.Fatalf("expected deepseek provider, got %s", updated.AIProvider)
	}
	if updated.DeepSeekAPIKey != key {
		t.Fatalf("expected decrypted key, got %q", updated.DeepSeekAPIKey)
	}
	if updated.DefaultLocation != "Lisbon" {
		t.Fatalf("unexpected location %s", updated.DefaultLocation)
	}
	if updated.ExportPrefix != "my_log2024" {
		t.Fatalf("expected sanitized prefix, got %s", updated.ExportPrefix)
	}

	var stored db.SystemSetting
	if err := gdb.Where("key = ?", db.SettingKeyDeepSeekAPIKey).First(&stored).Error; err != nil {
		t.Fatalf("failed to load stored key: %v", err)
	}
	if !secret.IsSealed(stored.Value) || strings.Contains(stored.Value, key) {
		t.Fatalf("expected key to be sealed at rest, got %q", stored.Value)
	}

	// 未提供 Key 时保留原值
	again, err := svc.UpdateSettings(SystemSettingsInput{AIProvider: "deepseek"})
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if again.DeepSeekAPIKey != key {
		t.Fatalf("expected key to be preserved, got %q", again.DeepSeekAPIKey)
	}
	if again.DefaultLocation != "New York" {
		t.Fatalf("expected blank location to fall back to default, got %q", again.DefaultLocation)
	}
}

func TestSystemSettingServiceTestAIConnection(t *testing.T) {
	svc, _ := newTestSettings(t, SystemSettings{})

	if err := svc.TestAIConnection(context.Background(), AIProviderOpenAI, ""); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected ErrAIAPIKeyMissing, got %v", err)
	}

	svc.SetOpenAIBaseURL("https://openai.test/v1/")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.URL.String() != "https://openai.test/v1/models" {
			t.Fatalf("unexpected url %s", r.URL)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-ok" {
			return jsonResponse(http.StatusUnauthorized, `{"error":{"message":"bad key"}}`), nil
		}
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	}})

	if err := svc.TestAIConnection(context.Background(), AIProviderOpenAI, "sk-ok"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	err := svc.TestAIConnection(context.Background(), AIProviderOpenAI, "sk-bad")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}
