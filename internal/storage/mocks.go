package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// MockSignalStorage is an in-memory SignalStorage for testing
type MockSignalStorage struct {
	mu       sync.Mutex
	Logged   []LoggedSignal
	WriteErr error
}

// LoggedSignal is one recorded LogSignal call
type LoggedSignal struct {
	InstrumentID string
	Previous     models.PrimarySignal
	New          models.PrimarySignal
	Thesis       models.Thesis
	Confidence   int
}

func (m *MockSignalStorage) LogSignal(ctx context.Context, snap *models.SignalSnapshot, previous models.PrimarySignal) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logged = append(m.Logged, LoggedSignal{
		InstrumentID: snap.InstrumentID,
		Previous:     previous,
		New:          snap.PrimarySignal,
		Thesis:       snap.Thesis,
		Confidence:   snap.Confidence,
	})
	return nil
}

// Count returns the number of logged signals
func (m *MockSignalStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Logged)
}

func (m *MockSignalStorage) Close() error { return nil }

// MockRedisClient is an in-memory RedisClient for testing. TTLs are honored
// on read.
type MockRedisClient struct {
	mu      sync.Mutex
	kv      map[string]mockEntry
	streams map[string][]StreamMessage

	SetErr     error
	PublishErr error
}

type mockEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMockRedisClient creates a new mock Redis client
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		kv:      make(map[string]mockEntry),
		streams: make(map[string][]StreamMessage),
	}
}

func (m *MockRedisClient) PublishToStream(ctx context.Context, stream string, key string, value interface{}) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams[stream] = append(m.streams[stream], StreamMessage{
		ID:     time.Now().Format("20060102150405.000000"),
		Stream: stream,
		Values: map[string]interface{}{key: string(jsonData)},
	})
	return nil
}

// StreamMessages returns the messages published to a stream
func (m *MockRedisClient) StreamMessages(stream string) []StreamMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StreamMessage, len(m.streams[stream]))
	copy(out, m.streams[stream])
	return out
}

func (m *MockRedisClient) ConsumeFromStream(ctx context.Context, stream string, group string, consumer string) (<-chan StreamMessage, error) {
	ch := make(chan StreamMessage, 100)
	m.mu.Lock()
	for _, msg := range m.streams[stream] {
		ch <- msg
	}
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *MockRedisClient) AcknowledgeMessage(ctx context.Context, stream string, group string, id string) error {
	return nil
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = mockEntry{data: jsonData, expiresAt: expiresAt}
	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.kv[key]
	if !ok || entry.expired() {
		return "", nil
	}
	return string(entry.data), nil
}

func (m *MockRedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	entry, ok := m.kv[key]
	m.mu.Unlock()
	if !ok || entry.expired() {
		return nil
	}
	return json.Unmarshal(entry.data, dest)
}

func (m *MockRedisClient) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *MockRedisClient) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.kv[key]
	if !ok || entry.expired() {
		return false, nil
	}
	return true, nil
}

func (m *MockRedisClient) Close() error { return nil }

func (e mockEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}
