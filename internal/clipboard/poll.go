package clipboard

import (
	"sync"
	"time"
)

const defaultPollInterval = 500 * time.Millisecond

// PollMonitor reads the clipboard on a fixed interval and hands whatever text
// is there to the change handler. Deciding whether the text is actually new
// is the ingestion filter's concern, not the monitor's.
type PollMonitor struct {
	accessor Accessor
	interval time.Duration
	handler  func(string)
	mu       sync.RWMutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPollMonitor creates a monitor polling accessor every interval.
func NewPollMonitor(accessor Accessor, interval time.Duration) *PollMonitor {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &PollMonitor{
		accessor: accessor,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// OnChange implements Monitor. Must be called before Start.
func (m *PollMonitor) OnChange(handler func(string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// Start implements Monitor.
func (m *PollMonitor) Start() error {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.check()
			case <-m.stopChan:
				return
			}
		}
	}()
	return nil
}

// Stop implements Monitor. It returns once the poll loop has exited, so no
// handler invocation is in flight afterwards.
func (m *PollMonitor) Stop() error {
	close(m.stopChan)
	m.wg.Wait()
	return nil
}

func (m *PollMonitor) check() {
	m.mu.RLock()
	handler := m.handler
	m.mu.RUnlock()
	if handler == nil {
		return
	}

	text, err := m.accessor.Text()
	if err != nil {
		return
	}
	handler(text)
}
