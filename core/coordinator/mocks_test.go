package coordinator

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"mealie-bridge-api/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc  func(ctx context.Context, url string, header http.Header) (interfaces.Response, error)
	postFunc func(ctx context.Context, url string, header http.Header, body io.Reader) (interfaces.Response, error)

	mu        sync.Mutex
	getCalls  []string
	postCalls []string
}

func (m *mockHTTPClient) Get(ctx context.Context, url string, header http.Header) (interfaces.Response, error) {
	m.mu.Lock()
	m.getCalls = append(m.getCalls, url)
	m.mu.Unlock()
	if m.getFunc != nil {
		return m.getFunc(ctx, url, header)
	}
	return &mockResponse{statusCode: 200, body: "{}"}, nil
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, header http.Header, body io.Reader) (interfaces.Response, error) {
	m.mu.Lock()
	m.postCalls = append(m.postCalls, url)
	m.mu.Unlock()
	if m.postFunc != nil {
		return m.postFunc(ctx, url, header, body)
	}
	return &mockResponse{statusCode: 200, body: "{}"}, nil
}

func (m *mockHTTPClient) countPostsTo(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, url := range m.postCalls {
		if strings.Contains(url, path) {
			count++
		}
	}
	return count
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

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

// mockBrowser records capability calls
type mockBrowser struct {
	executeScriptFunc func(ctx context.Context, pageID string) error

	mu           sync.Mutex
	openedPopups int
	openedTabs   []string
	badges       map[string]string
	cleared      []string
}

func newMockBrowser() *mockBrowser {
	return &mockBrowser{badges: make(map[string]string)}
}

func (m *mockBrowser) ExecuteScript(ctx context.Context, pageID string) error {
	if m.executeScriptFunc != nil {
		return m.executeScriptFunc(ctx, pageID)
	}
	return nil
}

func (m *mockBrowser) OpenPopup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openedPopups++
	return nil
}

func (m *mockBrowser) OpenTab(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openedTabs = append(m.openedTabs, url)
	return nil
}

func (m *mockBrowser) ActiveTabURL(ctx context.Context) (string, error) {
	return "https://www.allrecipes.com/recipe/1", nil
}

func (m *mockBrowser) ContainsPermission(ctx context.Context, origin string) (bool, error) {
	return false, nil
}

func (m *mockBrowser) RequestPermission(ctx context.Context, origin string) (bool, error) {
	return true, nil
}

func (m *mockBrowser) RevokePermission(ctx context.Context, origin string) error {
	return nil
}

func (m *mockBrowser) SetBadge(ctx context.Context, pageID, text, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.badges[pageID] = text
	return nil
}

func (m *mockBrowser) ClearBadge(ctx context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.badges, pageID)
	m.cleared = append(m.cleared, pageID)
	return nil
}

// recordingLogger captures log output for error-opacity assertions
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record(msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record(msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record(msg, fields) }
