package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

// MockUpstream records requests and answers every call with the same
// response or error. It never touches the network.
type MockUpstream struct {
	mu       sync.Mutex
	requests []storage.Request
	probes   int

	response    json.RawMessage
	raw         []byte
	contentType string
	probeOK     bool
	err         error
}

func NewMockUpstream() *MockUpstream {
	return &MockUpstream{response: json.RawMessage(`{}`), probeOK: true}
}

func (m *MockUpstream) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockUpstream) SetResponse(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = json.RawMessage(body)
}

func (m *MockUpstream) SetRawResponse(body []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = body
	m.contentType = contentType
}

func (m *MockUpstream) SetProbe(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeOK = ok
}

func (m *MockUpstream) Do(_ context.Context, req storage.Request) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockUpstream) DoRaw(_ context.Context, req storage.Request) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, "", m.err
	}
	return m.raw, m.contentType, nil
}

func (m *MockUpstream) Probe(context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes++
	return m.probeOK
}

// Requests returns a copy of every request seen so far.
func (m *MockUpstream) Requests() []storage.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.Request(nil), m.requests...)
}

func (m *MockUpstream) LastRequest() (storage.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return storage.Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

func (m *MockUpstream) Probes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probes
}
