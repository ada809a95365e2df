package cli

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/alnah/go-twapi/internal/client"
	"github.com/alnah/go-twapi/internal/config"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ClientFactory + API
// ---------------------------------------------------------------------------

type mockClientFactory struct {
	NewClientFunc func(token string, cfg config.Config) (API, error)
	API           *mockAPI

	mu             sync.Mutex
	newClientCalls []newClientCall
}

type newClientCall struct {
	Token  string
	Config config.Config
}

func (m *mockClientFactory) NewClient(token string, cfg config.Config) (API, error) {
	m.mu.Lock()
	m.newClientCalls = append(m.newClientCalls, newClientCall{Token: token, Config: cfg})
	m.mu.Unlock()

	if m.NewClientFunc != nil {
		return m.NewClientFunc(token, cfg)
	}
	return m.API, nil
}

func (m *mockClientFactory) NewClientCalls() []newClientCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]newClientCall(nil), m.newClientCalls...)
}

type mockAPI struct {
	// GetFunc returns the raw body for path, or an error.
	GetFunc               func(ctx context.Context, path string, params url.Values) (string, error)
	VerifyCredentialsFunc func(ctx context.Context) (client.User, error)
	MediaStatusFunc       func(ctx context.Context, mediaID string) (client.MediaStatus, error)
	WaitMediaFunc         func(ctx context.Context, mediaID string, onPoll func(client.MediaStatus)) (client.MediaStatus, error)

	mu       sync.Mutex
	getCalls []getCall
}

type getCall struct {
	Path   string
	Params url.Values
}

func (m *mockAPI) Get(ctx context.Context, path string, params url.Values, out any) error {
	m.mu.Lock()
	m.getCalls = append(m.getCalls, getCall{Path: path, Params: params})
	m.mu.Unlock()

	body := `{}`
	if m.GetFunc != nil {
		var err error
		if body, err = m.GetFunc(ctx, path, params); err != nil {
			return err
		}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (m *mockAPI) GetCalls() []getCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]getCall(nil), m.getCalls...)
}

func (m *mockAPI) VerifyCredentials(ctx context.Context) (client.User, error) {
	if m.VerifyCredentialsFunc != nil {
		return m.VerifyCredentialsFunc(ctx)
	}
	return client.User{}, nil
}

func (m *mockAPI) MediaStatus(ctx context.Context, mediaID string) (client.MediaStatus, error) {
	if m.MediaStatusFunc != nil {
		return m.MediaStatusFunc(ctx, mediaID)
	}
	return client.MediaStatus{MediaID: mediaID, State: client.MediaSucceeded, Progress: 100}, nil
}

func (m *mockAPI) WaitMedia(ctx context.Context, mediaID string, onPoll func(client.MediaStatus)) (client.MediaStatus, error) {
	if m.WaitMediaFunc != nil {
		return m.WaitMediaFunc(ctx, mediaID, onPoll)
	}
	return client.MediaStatus{MediaID: mediaID, State: client.MediaSucceeded, Progress: 100}, nil
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*mockConfigLoader)(nil)
	_ ClientFactory = (*mockClientFactory)(nil)
	_ API           = (*mockAPI)(nil)
)
