package mealie

import (
	"context"
	"io"
	"net/http"
	"strings"

	"mealie-bridge-api/core/interfaces"
)

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
	return nil, nil
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, header http.Header, body io.Reader) (interfaces.Response, error) {
	m.postCalls = append(m.postCalls, url)
	if m.postFunc != nil {
		return m.postFunc(ctx, url, header, body)
	}
	return nil, nil
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

// mockLogger discards all log output
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (mockLogger) Info(msg string, fields map[string]interface{})  {}
func (mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (mockLogger) Error(msg string, fields map[string]interface{}) {}

func testDeps(client *mockHTTPClient) interfaces.Dependencies {
	return interfaces.Dependencies{
		HTTPClient: client,
		Logger:     mockLogger{},
	}
}
