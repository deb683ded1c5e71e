package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chronitrack/internal/healthlog"
	"github.com/google/uuid"
)

// ErrSessionRequired 在缺少会话标识时返回。
var ErrSessionRequired = errors.New("session id is required")

const (
	// DefaultSessionIdleTimeout 与会话 cookie 的有效期一致，超过该时长未访问的记录会被回收。
	DefaultSessionIdleTimeout = 7 * 24 * time.Hour
	// DefaultMaxSessions 限制同时保留的会话数量，超出时淘汰最久未访问的会话。
	DefaultMaxSessions = 10000

	sessionSweepInterval = time.Minute
)

// EntryInput 描述新增记录时由用户填写的字段，ID 与时间由服务端生成。
type EntryInput struct {
	Type             string
	Name             string
	Severity         *int
	Dosage           string
	Subtype          string
	Quality          *int
	Duration         *float64
	Item             *string
	ExerciseType     *string
	ExerciseDuration *int
	Notes            *string
}

// ExportFile 是可直接下载的导出结果。
type ExportFile struct {
	Name        string
	ContentType string
	Body        string
}

// HealthLogService 按会话维护内存中的日志记录，会话过期、被淘汰或进程退出即丢弃。
type HealthLogService struct {
	mu          sync.Mutex
	stores      map[string]*sessionStore
	lastSweep   time.Time
	idleTimeout time.Duration
	maxSessions int
	seed        bool
	location    *time.Location
	now         func() time.Time
	newID       func() string
}

type sessionStore struct {
	store      *healthlog.Store
	lastAccess time.Time
}

// NewHealthLogService 构造 HealthLogService。
// seed 为 true 时新会话会预置示例数据；loc 决定按天汇总的日期边界。
func NewHealthLogService(seed bool, loc *time.Location) *HealthLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &HealthLogService{
		stores:      make(map[string]*sessionStore),
		idleTimeout: DefaultSessionIdleTimeout,
		maxSessions: DefaultMaxSessions,
		seed:        seed,
		location:    loc,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// WithClock 允许在测试中固定当前时间。
func (s *HealthLogService) WithClock(now func() time.Time) *HealthLogService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithIdleTimeout 调整会话的空闲回收时长，非正值保持默认。
func (s *HealthLogService) WithIdleTimeout(d time.Duration) *HealthLogService {
	if d > 0 {
		s.idleTimeout = d
	}
	return s
}

// WithMaxSessions 调整同时保留的会话上限，非正值保持默认。
func (s *HealthLogService) WithMaxSessions(n int) *HealthLogService {
	if n > 0 {
		s.maxSessions = n
	}
	return s
}

// Location 返回按天汇总使用的时区。
func (s *HealthLogService) Location() *time.Location {
	return s.location
}

// Add 为输入补齐 ID 与时间戳后插入会话的 Store。
func (s *HealthLogService) Add(sessionID string, input EntryInput) (healthlog.Entry, error) {
	now := s.now()
	store, err := s.store(sessionID, now)
	if err != nil {
		return nil, err
	}

	record := healthlog.Record{
		ID:               s.newID(),
		Type:             input.Type,
		Timestamp:        now.UTC(),
		Name:             input.Name,
		Severity:         input.Severity,
		Dosage:           input.Dosage,
		Subtype:          input.Subtype,
		Quality:          input.Quality,
		Duration:         input.Duration,
		Item:             input.Item,
		ExerciseType:     input.ExerciseType,
		ExerciseDuration: input.ExerciseDuration,
		Notes:            input.Notes,
	}

	entry, err := record.Entry()
	if err != nil {
		return nil, err
	}

	if err := store.Insert(entry); err != nil {
		return nil, fmt.Errorf("insert %s entry: %w", entry.Type(), err)
	}
	return entry, nil
}

// List 返回会话当前的全部记录，按时间倒序。
func (s *HealthLogService) List(sessionID string) ([]healthlog.Entry, error) {
	store, err := s.store(sessionID, s.now())
	if err != nil {
		return nil, err
	}
	return store.Entries(), nil
}

// Daily 基于会话当前记录重新计算每日汇总。
func (s *HealthLogService) Daily(sessionID string) ([]healthlog.DailyAggregate, error) {
	entries, err := s.List(sessionID)
	if err != nil {
		return nil, err
	}
	return healthlog.DailyAggregates(entries, s.location), nil
}

// Export 生成会话记录的 CSV 文件；没有记录时返回 healthlog.ErrNothingToExport。
func (s *HealthLogService) Export(sessionID, prefix string) (ExportFile, error) {
	entries, err := s.List(sessionID)
	if err != nil {
		return ExportFile{}, err
	}

	body, err := healthlog.ExportCSV(entries)
	if err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		Name:        healthlog.ExportFileName(prefix, s.now()),
		ContentType: healthlog.CSVContentType,
		Body:        body,
	}, nil
}

// SessionCount 返回当前持有的会话数量。
func (s *HealthLogService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// store 返回会话的 Store，不存在时新建；同时刷新访问时间并回收空闲会话。
func (s *HealthLogService) store(sessionID string, now time.Time) (*healthlog.Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sessionSweepInterval {
		s.sweepIdle(now)
		s.lastSweep = now
	}

	if existing, ok := s.stores[sessionID]; ok {
		existing.lastAccess = now
		return existing.store, nil
	}

	store := healthlog.NewStore()
	if s.seed {
		for _, entry := range sampleEntries() {
			if err := store.Insert(entry); err != nil {
				return nil, fmt.Errorf("seed sample data: %w", err)
			}
		}
	}

	if len(s.stores) >= s.maxSessions {
		s.evictOldest()
	}
	s.stores[sessionID] = &sessionStore{store: store, lastAccess: now}
	return store, nil
}

// 调用方需持有 s.mu。
func (s *HealthLogService) sweepIdle(now time.Time) {
	for id, entry := range s.stores {
		if now.Sub(entry.lastAccess) > s.idleTimeout {
			delete(s.stores, id)
		}
	}
}

// 调用方需持有 s.mu。
func (s *HealthLogService) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range s.stores {
		if oldestID == "" || entry.lastAccess.Before(oldest) {
			oldestID, oldest = id, entry.lastAccess
		}
	}
	if oldestID != "" {
		delete(s.stores, oldestID)
	}
}
