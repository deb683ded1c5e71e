package healthlog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrDuplicateID 在同一个 Store 中插入重复 ID 时返回。
var ErrDuplicateID = errors.New("duplicate log entry id")

// Store 保存单个会话的日志记录，始终按时间倒序排列。
// 只支持追加，不支持修改或删除。
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	ids     map[string]struct{}
}

// NewStore 创建空 Store。
func NewStore() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// Insert 追加一条完整记录并重新按时间倒序排序，时间相同保持插入顺序。
func (s *Store) Insert(e Entry) error {
	if err := Validate(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.EntryID()
	if _, exists := s.ids[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	s.entries = append(s.entries, e)
	s.ids[id] = struct{}{}
	slices.SortStableFunc(s.entries, func(a, b Entry) int {
		return b.EntryTime().Compare(a.EntryTime())
	})
	return nil
}

// Entries 返回当前顺序的副本。
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.entries)
}

// Len 返回记录数量。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
