package content

import (
	"context"
	"sync"

	"mealie-bridge-api/core/domain"
	"mealie-bridge-api/core/interfaces"
)

// mockStorage is an in-memory Storage for tests
type mockStorage struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{items: make(map[string][]byte)}
}

func (m *mockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	return value, nil
}

func (m *mockStorage) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// mockMessenger is a mock implementation of the Messenger interface
type mockMessenger struct {
	createFunc    func(ctx context.Context, pageURL string) domain.CreateReply
	duplicateFunc func(ctx context.Context, pageURL string) domain.DuplicateReply
	detectFunc    func(ctx context.Context, pageURL string) domain.DetectReply

	createCalls    int
	duplicateCalls int
	detectCalls    int
	popupCalls     int
}

func (m *mockMessenger) CreateViaAPI(ctx context.Context, pageURL string) domain.CreateReply {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, pageURL)
	}
	return domain.CreateReply{Success: true}
}

func (m *mockMessenger) CheckDuplicate(ctx context.Context, pageURL string) domain.DuplicateReply {
	m.duplicateCalls++
	if m.duplicateFunc != nil {
		return m.duplicateFunc(ctx, pageURL)
	}
	return domain.DuplicateReply{Exists: false}
}

func (m *mockMessenger) IsRecipePage(ctx context.Context, pageURL string) domain.DetectReply {
	m.detectCalls++
	if m.detectFunc != nil {
		return m.detectFunc(ctx, pageURL)
	}
	return domain.DetectReply{IsRecipe: true}
}

func (m *mockMessenger) OpenPopup(ctx context.Context) {
	m.popupCalls++
}

// mockPage is a mock implementation of the Page interface
type mockPage struct {
	url        string
	elements   map[string]bool
	mountCalls int
}

func newMockPage(url string) *mockPage {
	return &mockPage{url: url, elements: make(map[string]bool)}
}

func (p *mockPage) URL() string {
	return p.url
}

func (p *mockPage) HasElement(id string) bool {
	return p.elements[id]
}

func (p *mockPage) MountButton(id, label string) error {
	p.mountCalls++
	p.elements[id] = true
	return nil
}

// mockLogger discards all log output
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (mockLogger) Info(msg string, fields map[string]interface{})  {}
func (mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (mockLogger) Error(msg string, fields map[string]interface{}) {}
