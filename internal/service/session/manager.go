package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"foresight/internal/dataset"
	"foresight/internal/forecast"
)

// Session 会话：一次上传产生的数据集及其最近一次分析结果。
// 会话间互不共享，保证多会话并发运行管线时的隔离
type Session struct {
	ID        string
	CreatedAt time.Time
	Filename  string

	Dataset    *dataset.Dataset
	LastResult *forecast.Bundle
}

// Manager 会话管理器
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager 创建会话管理器
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create 以数据集创建新会话
func (m *Manager) Create(ds *dataset.Dataset, filename string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Filename:  filename,
		Dataset:   ds,
	}
	m.sessions[s.ID] = s
	return s
}

// Get 获取会话
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// SetResult 记录会话最近一次分析结果。
// 结果包本身不可变，新一次运行产生新的结果包
func (m *Manager) SetResult(id string, bundle *forecast.Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	s.LastResult = bundle
	return nil
}

// Delete 删除会话
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count 会话数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
