package handlers

import (
	"context"
	"sync"

	"mealie-bridge-api/core/domain"
	"mealie-bridge-api/core/interfaces"
)

// mockCoordinator is a mock implementation of the Coordinator interface
type mockCoordinator struct {
	createFunc    func(ctx context.Context, pageURL string) domain.CreateReply
	duplicateFunc func(ctx context.Context, pageURL string) domain.DuplicateReply
	detectFunc    func(ctx context.Context, pageURL string) domain.DetectReply
	warningFunc   func(pageID string) (string, bool)

	createdURLs   []string
	dispatched    []domain.Message
	loadedPages   []string
	unloadedPages []string
	popupCalls    int
}

func (m *mockCoordinator) Dispatch(ctx context.Context, msg domain.Message) interface{} {
	m.dispatched = append(m.dispatched, msg)
	switch msg.Type {
	case domain.MessageCreateViaAPI:
		return m.CreateViaAPI(ctx, msg.URL)
	case domain.MessageCheckDuplicate:
		return m.CheckDuplicate(ctx, msg.URL)
	case domain.MessageIsRecipePage:
		return m.IsRecipePage(ctx, msg.URL)
	case domain.MessageOpenPopup:
		m.OpenPopup(ctx)
		return nil
	default:
		return nil
	}
}

func (m *mockCoordinator) CreateViaAPI(ctx context.Context, pageURL string) domain.CreateReply {
	m.createdURLs = append(m.createdURLs, pageURL)
	if m.createFunc != nil {
		return m.createFunc(ctx, pageURL)
	}
	return domain.CreateReply{Success: true}
}

func (m *mockCoordinator) CheckDuplicate(ctx context.Context, pageURL string) domain.DuplicateReply {
	if m.duplicateFunc != nil {
		return m.duplicateFunc(ctx, pageURL)
	}
	return domain.DuplicateReply{Exists: false}
}

func (m *mockCoordinator) IsRecipePage(ctx context.Context, pageURL string) domain.DetectReply {
	if m.detectFunc != nil {
		return m.detectFunc(ctx, pageURL)
	}
	return domain.DetectReply{IsRecipe: true}
}

func (m *mockCoordinator) OpenPopup(ctx context.Context) {
	m.popupCalls++
}

func (m *mockCoordinator) HandlePageLoad(ctx context.Context, pageID, pageURL string) {
	m.loadedPages = append(m.loadedPages, pageID)
}

func (m *mockCoordinator) HandlePageUnload(ctx context.Context, pageID string) {
	m.unloadedPages = append(m.unloadedPages, pageID)
}

func (m *mockCoordinator) Warning(pageID string) (string, bool) {
	if m.warningFunc != nil {
		return m.warningFunc(pageID)
	}
	return "", false
}

// mockRegistry records page registrations
type mockRegistry struct {
	recorded  map[string]string
	forgotten []string
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{recorded: make(map[string]string)}
}

func (m *mockRegistry) RecordPage(pageID, pageURL string) {
	m.recorded[pageID] = pageURL
}

func (m *mockRegistry) ForgetPage(pageID string) {
	m.forgotten = append(m.forgotten, pageID)
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

// mockLogger discards all log output
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (mockLogger) Info(msg string, fields map[string]interface{})  {}
func (mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (mockLogger) Error(msg string, fields map[string]interface{}) {}

// mockSettingsService is a mock implementation of the SettingsService
// interface
type mockSettingsService struct {
	loadFunc     func(ctx context.Context) (*domain.Settings, error)
	saveFunc     func(ctx context.Context, cfg *domain.Settings) error
	testFunc     func(ctx context.Context, serverURL, apiToken string) error
	addSiteFunc  func(ctx context.Context, rawURL string) (string, error)
	sendFunc     func(ctx context.Context) domain.CreateReply
	removedSites []string
	savedConfigs []*domain.Settings
}

func (m *mockSettingsService) Load(ctx context.Context) (*domain.Settings, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return &domain.Settings{}, nil
}

func (m *mockSettingsService) Save(ctx context.Context, cfg *domain.Settings) error {
	m.savedConfigs = append(m.savedConfigs, cfg)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, cfg)
	}
	return nil
}

func (m *mockSettingsService) TestConnection(ctx context.Context, serverURL, apiToken string) error {
	if m.testFunc != nil {
		return m.testFunc(ctx, serverURL, apiToken)
	}
	return nil
}

func (m *mockSettingsService) AddUserSite(ctx context.Context, rawURL string) (string, error) {
	if m.addSiteFunc != nil {
		return m.addSiteFunc(ctx, rawURL)
	}
	return "example.com", nil
}

func (m *mockSettingsService) RemoveUserSite(ctx context.Context, site string) error {
	m.removedSites = append(m.removedSites, site)
	return nil
}

func (m *mockSettingsService) SendCurrentTab(ctx context.Context) domain.CreateReply {
	if m.sendFunc != nil {
		return m.sendFunc(ctx)
	}
	return domain.CreateReply{Success: true}
}

// mockSiteLister is a mock implementation of the SiteLister interface
type mockSiteLister struct {
	builtin   []string
	userSites []string
}

func (m *mockSiteLister) Whitelist(ctx context.Context) ([]string, error) {
	return m.builtin, nil
}

func (m *mockSiteLister) UserSites(ctx context.Context) ([]string, error) {
	return m.userSites, nil
}
