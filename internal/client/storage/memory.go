package storage

import (
	"context"
	"sync"
)

// Memory is a process-local TokenStorage and StateStorage.
// Используется в тестах и при запуске без файла базы.
type Memory struct {
	token string
	state []byte
	mu    sync.Mutex
}

// Compile-time checks
var (
	_ TokenStorage = (*Memory)(nil)
	_ StateStorage = (*Memory)(nil)
)

// NewMemory creates empty in-memory storage
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		return "", ErrTokenNotFound
	}
	return m.token, nil
}

func (m *Memory) SaveToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	return nil
}

func (m *Memory) DeleteToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	return nil
}

func (m *Memory) DeleteTokenIf(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" || m.token != token {
		return false, nil
	}
	m.token = ""
	return true, nil
}

func (m *Memory) LoadState(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, ErrStateNotFound
	}
	out := make([]byte, len(m.state))
	copy(out, m.state)
	return out, nil
}

func (m *Memory) SaveState(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = make([]byte, len(data))
	copy(m.state, data)
	return nil
}

func (m *Memory) DeleteState(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = nil
	return nil
}
