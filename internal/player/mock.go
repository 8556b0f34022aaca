package player

import "sync"

// Mock is a test double for StreamPlayer. It records calls and lets tests
// inject media events with Emit.
type Mock struct {
	mu        sync.Mutex
	loads     []Source
	current   *Source
	paused    bool
	level     float64
	muted     bool
	stopCalls int
	onEvent   func(Event)
	closed    bool
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{level: 1}
}

func (m *Mock) Load(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, src)
	m.current = &src
	m.paused = false
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.current = nil
	m.paused = false
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = clampLevel(level)
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *Mock) OnEvent(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvent = fn
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.current = nil
	return nil
}

// Test helpers

// Emit delivers an event to the registered handler, as the real player
// does from its own goroutines.
func (m *Mock) Emit(ev Event) {
	m.mu.Lock()
	fn := m.onEvent
	m.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// EmitCurrent delivers an event of type t for the last loaded source.
func (m *Mock) EmitCurrent(t EventType) {
	m.mu.Lock()
	var src Source
	if len(m.loads) > 0 {
		src = m.loads[len(m.loads)-1]
	}
	m.mu.Unlock()
	m.Emit(src.event(t, nil))
}

func (m *Mock) Loads() []Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Source(nil), m.loads...)
}

// LastLoad returns the most recent source, or a zero Source.
func (m *Mock) LastLoad() Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.loads) == 0 {
		return Source{}
	}
	return m.loads[len(m.loads)-1]
}

// Current returns the assigned source, nil after Stop.
func (m *Mock) Current() *Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	src := *m.current
	return &src
}

func (m *Mock) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
