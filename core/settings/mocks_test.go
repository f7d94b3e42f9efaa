package settings

import (
	"context"
	"io"
	"net/http"
	"strings"
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

// mockSecretStore is an in-memory SecretStore for tests
type mockSecretStore struct {
	secrets map[string]string
	setErr  error
}

func newMockSecretStore() *mockSecretStore {
	return &mockSecretStore{secrets: make(map[string]string)}
}

func (m *mockSecretStore) GetSecret(key string) (string, error) {
	value, ok := m.secrets[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return value, nil
}

func (m *mockSecretStore) SetSecret(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.secrets[key] = value
	return nil
}

func (m *mockSecretStore) DeleteSecret(key string) error {
	delete(m.secrets, key)
	return nil
}

// mockBrowser is a mock implementation of the Browser interface
type mockBrowser struct {
	containsFunc func(ctx context.Context, origin string) (bool, error)
	requestFunc  func(ctx context.Context, origin string) (bool, error)
	activeTabURL string
	activeTabErr error

	requestedOrigins []string
	revokedOrigins   []string
	openedTabs       []string
}

func (m *mockBrowser) ExecuteScript(ctx context.Context, pageID string) error { return nil }

func (m *mockBrowser) OpenPopup(ctx context.Context) error { return nil }

func (m *mockBrowser) OpenTab(ctx context.Context, url string) error {
	m.openedTabs = append(m.openedTabs, url)
	return nil
}

func (m *mockBrowser) ActiveTabURL(ctx context.Context) (string, error) {
	return m.activeTabURL, m.activeTabErr
}

func (m *mockBrowser) ContainsPermission(ctx context.Context, origin string) (bool, error) {
	if m.containsFunc != nil {
		return m.containsFunc(ctx, origin)
	}
	return false, nil
}

func (m *mockBrowser) RequestPermission(ctx context.Context, origin string) (bool, error) {
	m.requestedOrigins = append(m.requestedOrigins, origin)
	if m.requestFunc != nil {
		return m.requestFunc(ctx, origin)
	}
	return true, nil
}

func (m *mockBrowser) RevokePermission(ctx context.Context, origin string) error {
	m.revokedOrigins = append(m.revokedOrigins, origin)
	return nil
}

func (m *mockBrowser) SetBadge(ctx context.Context, pageID, text, title string) error { return nil }

func (m *mockBrowser) ClearBadge(ctx context.Context, pageID string) error { return nil }

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc  func(ctx context.Context, url string, header http.Header) (interfaces.Response, error)
	postFunc func(ctx context.Context, url string, header http.Header, body io.Reader) (interfaces.Response, error)

	getCalls  []string
	postCalls []string
}

func (m *mockHTTPClient) Get(ctx context.Context, url string, header http.Header) (interfaces.Response, error) {
	m.getCalls = append(m.getCalls, url)
	if m.getFunc != nil {
		return m.getFunc(ctx, url, header)
	}
	return &mockResponse{statusCode: http.StatusOK, body: "{}"}, nil
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, header http.Header, body io.Reader) (interfaces.Response, error) {
	m.postCalls = append(m.postCalls, url)
	if m.postFunc != nil {
		return m.postFunc(ctx, url, header, body)
	}
	return &mockResponse{statusCode: http.StatusOK, body: "{}"}, nil
}

// mockResponse implements the Response interface for tests
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (r *mockResponse) StatusCode() int { return r.statusCode }

func (r *mockResponse) Body() io.ReadCloser { return io.NopCloser(strings.NewReader(r.body)) }

func (r *mockResponse) Header(key string) string { return r.headers[key] }

// mockLogger discards all log output
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (mockLogger) Info(msg string, fields map[string]interface{})  {}
func (mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (mockLogger) Error(msg string, fields map[string]interface{}) {}

// mockSender records pages submitted for import
type mockSender struct {
	urls  []string
	reply domain.CreateReply
}

func (m *mockSender) CreateViaAPI(ctx context.Context, pageURL string) domain.CreateReply {
	m.urls = append(m.urls, pageURL)
	return m.reply
}
